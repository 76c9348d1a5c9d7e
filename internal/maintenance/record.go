package maintenance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vehicletracker/internal/fault"
)

type Type string

const (
	TypeRoutine    Type = "routine"
	TypeRepair     Type = "repair"
	TypeInspection Type = "inspection"
	TypeTyre       Type = "tyre"
	TypeOther      Type = "other"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRoutine, TypeRepair, TypeInspection, TypeTyre, TypeOther:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown maintenance type: %s", s)
	}
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown maintenance status: %s", s)
	}
}

type Record struct {
	ID          string     `json:"id"`
	VehicleID   string     `json:"vehicleId"`
	Type        Type       `json:"type"`
	Description string     `json:"description"`
	Scheduled   time.Time  `json:"scheduledDate"`
	Completed   *time.Time `json:"completedDate,omitempty"`
	Cost        *string    `json:"cost,omitempty"`
	Status      Status     `json:"status"`
	CreatedByID *string    `json:"createdById,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

const dateFormat = "2006-01-02"

type ScheduleRequest struct {
	VehicleID     string `json:"vehicleId"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	ScheduledDate string `json:"scheduledDate"`
	Cost          string `json:"cost,omitempty"`
	// SetImmediately flips the vehicle to maintenance in the same commit.
	SetImmediately bool `json:"setImmediately,omitempty"`
}

func (req *ScheduleRequest) validate() (Type, time.Time, *string, *fault.Fault) {
	req.Description = strings.TrimSpace(req.Description)

	if req.VehicleID == "" {
		return "", time.Time{}, nil, fault.Validation("please select a vehicle")
	}
	mtype, err := ParseType(req.Type)
	if err != nil {
		return "", time.Time{}, nil, fault.Validation("invalid maintenance type")
	}
	if req.Description == "" {
		return "", time.Time{}, nil, fault.Validation("description is required")
	}
	if req.ScheduledDate == "" {
		return "", time.Time{}, nil, fault.Validation("scheduled date is required")
	}
	scheduled, err := time.Parse(dateFormat, req.ScheduledDate)
	if err != nil {
		return "", time.Time{}, nil, fault.Validation("invalid date format, expected YYYY-MM-DD")
	}

	cost, f := parseCost(req.Cost)
	if f != nil {
		return "", time.Time{}, nil, f
	}
	return mtype, scheduled, cost, nil
}

func parseCost(raw string) (*string, *fault.Fault) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fault.Validation("cost must be a number")
	}
	if d.IsNegative() {
		return nil, fault.Validation("cost cannot be negative")
	}
	s := d.String()
	return &s, nil
}
