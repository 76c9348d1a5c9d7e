package booking

import (
	"strings"
	"time"

	"vehicletracker/internal/fault"
)

type Booking struct {
	ID            string  `json:"id"`
	VehicleID     string  `json:"vehicleId"`
	RequesterID   *string `json:"requesterId,omitempty"`
	RequesterName string  `json:"requesterName"`
	DriverID      *string `json:"driverId,omitempty"`

	StartPlanned time.Time `json:"startPlanned"`
	EndPlanned   time.Time `json:"endPlanned"`

	RouteFrom    string `json:"routeFrom"`
	RouteTo      string `json:"routeTo"`
	Purpose      string `json:"purpose"`
	ActivityCode string `json:"activityCode,omitempty"`
	ProjectCode  string `json:"projectCode,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// TripStarted is derived from trip presence at query time, never stored.
	TripStarted bool `json:"tripStarted"`
}

type CreateRequest struct {
	VehicleID    string `json:"vehicleId"`
	DriverID     string `json:"driverId,omitempty"`
	StartPlanned string `json:"startPlanned"`
	EndPlanned   string `json:"endPlanned"`
	RouteFrom    string `json:"routeFrom"`
	RouteTo      string `json:"routeTo"`
	Purpose      string `json:"purpose"`
	ActivityCode string `json:"activityCode,omitempty"`
	ProjectCode  string `json:"projectCode,omitempty"`
}

// validate normalizes the request and checks everything that does not need
// the database. Window rules: end strictly after start, start not in the
// past relative to now.
func (req *CreateRequest) validate(now time.Time) (start, end time.Time, f *fault.Fault) {
	req.RouteFrom = strings.TrimSpace(req.RouteFrom)
	req.RouteTo = strings.TrimSpace(req.RouteTo)
	req.Purpose = strings.TrimSpace(req.Purpose)
	req.ActivityCode = strings.TrimSpace(req.ActivityCode)
	req.ProjectCode = strings.TrimSpace(req.ProjectCode)

	if req.VehicleID == "" {
		return start, end, fault.Validation("please select a vehicle")
	}

	var err error
	if req.StartPlanned == "" {
		return start, end, fault.Validation("planned start date/time is required")
	}
	if start, err = time.Parse(time.RFC3339, req.StartPlanned); err != nil {
		return start, end, fault.Validation("invalid start date/time format")
	}
	if req.EndPlanned == "" {
		return start, end, fault.Validation("planned end date/time is required")
	}
	if end, err = time.Parse(time.RFC3339, req.EndPlanned); err != nil {
		return start, end, fault.Validation("invalid end date/time format")
	}

	if req.RouteFrom == "" {
		return start, end, fault.Validation("route from is required")
	}
	if req.RouteTo == "" {
		return start, end, fault.Validation("route to is required")
	}
	if req.Purpose == "" {
		return start, end, fault.Validation("purpose is required")
	}

	if !end.After(start) {
		return start, end, fault.Validation("end date/time must be after start date/time")
	}
	if start.Before(now) {
		return start, end, fault.Validation("start date/time cannot be in the past")
	}

	return start, end, nil
}
