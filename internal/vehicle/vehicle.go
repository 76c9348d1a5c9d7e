package vehicle

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusInUse       Status = "in_use"
	StatusMaintenance Status = "maintenance"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusInUse, StatusMaintenance:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown vehicle status: %s", s)
	}
}

// Vehicle status is owned by the booking, trip and maintenance flows; the
// edit endpoint deliberately has no status field.
type Vehicle struct {
	ID           string    `json:"id"`
	Registration string    `json:"registration"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeRegistration strips spaces and uppercases so "kaa 123 b" and
// "KAA123B" are the same plate.
func NormalizeRegistration(reg string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(reg), " ", ""))
}
