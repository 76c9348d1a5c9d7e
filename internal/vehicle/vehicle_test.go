package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRegistration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"kaa 123 b", "KAA123B"},
		{"KAA123B", "KAA123B"},
		{"  kbz 42x ", "KBZ42X"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRegistration(tt.in))
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"available", "in_use", "maintenance"} {
		got, err := ParseStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	_, err := ParseStatus("parked")
	assert.Error(t, err)
}

func TestCreateRequestValidate(t *testing.T) {
	req := CreateRequest{Registration: " kaa 123 b ", Make: " Toyota ", Model: " Hilux "}
	assert.Nil(t, req.validate())
	assert.Equal(t, "KAA123B", req.Registration)
	assert.Equal(t, "Toyota", req.Make)

	missing := CreateRequest{Make: "Toyota", Model: "Hilux"}
	f := missing.validate()
	if assert.NotNil(t, f) {
		assert.Contains(t, f.Message, "registration")
	}
}
