package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParse_RoundTrip(t *testing.T) {
	now := time.Now()
	raw, err := Sign("secret", Claims{
		UserID:   "u-1",
		Username: "jdoe",
		Role:     "admin",
	}, time.Hour, now)
	require.NoError(t, err)

	c, err := Parse("secret", raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, "jdoe", c.Username)
	assert.Equal(t, "admin", c.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	raw, err := Sign("secret", Claims{UserID: "u-1"}, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = Parse("other", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	raw, err := Sign("secret", Claims{UserID: "u-1"}, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = Parse("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := Parse("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
