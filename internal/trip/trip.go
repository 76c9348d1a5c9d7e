package trip

import (
	"time"

	"github.com/shopspring/decimal"

	"vehicletracker/internal/fault"
)

// Trip records the actual execution of an approved booking. End fields stay
// nil until the trip is closed; fuel amounts travel as NUMERIC::text strings.
type Trip struct {
	ID        string `json:"id"`
	BookingID string `json:"bookingId"`

	StartActual time.Time  `json:"startActual"`
	EndActual   *time.Time `json:"endActual,omitempty"`

	OdometerStart int64  `json:"odometerStart"`
	OdometerEnd   *int64 `json:"odometerEnd,omitempty"`
	Distance      *int64 `json:"distance,omitempty"`

	FuelUsed *string `json:"fuelUsed,omitempty"`
	FuelCost *string `json:"fuelCost,omitempty"`
	Remarks  string  `json:"remarks,omitempty"`
}

func (t *Trip) Open() bool {
	return t != nil && t.EndActual == nil
}

type StartRequest struct {
	ActualStart   string `json:"actualStart"`
	OdometerStart *int64 `json:"odometerStart"`
}

func (req *StartRequest) validate() (time.Time, *fault.Fault) {
	if req.ActualStart == "" {
		return time.Time{}, fault.Validation("start date/time is required")
	}
	start, err := time.Parse(time.RFC3339, req.ActualStart)
	if err != nil {
		return time.Time{}, fault.Validation("invalid start date/time format")
	}
	if req.OdometerStart == nil {
		return time.Time{}, fault.Validation("odometer reading is required")
	}
	if *req.OdometerStart < 0 {
		return time.Time{}, fault.Validation("odometer reading cannot be negative")
	}
	return start, nil
}

type EndRequest struct {
	ActualEnd   string `json:"actualEnd"`
	OdometerEnd *int64 `json:"odometerEnd"`
	FuelUsed    string `json:"fuelUsed,omitempty"`
	FuelCost    string `json:"fuelCost,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

type endValues struct {
	end      time.Time
	odoEnd   int64
	distance int64
	fuelUsed *string
	fuelCost *string
}

// validateEnd cross-checks the close-out against the open trip and computes
// the derived distance.
func (req *EndRequest) validateEnd(t *Trip) (endValues, *fault.Fault) {
	var v endValues

	if req.ActualEnd == "" {
		return v, fault.Validation("end date/time is required")
	}
	end, err := time.Parse(time.RFC3339, req.ActualEnd)
	if err != nil {
		return v, fault.Validation("invalid end date/time format")
	}
	if !end.After(t.StartActual) {
		return v, fault.Validation("end date/time must be after the trip start time")
	}

	if req.OdometerEnd == nil {
		return v, fault.Validation("odometer reading is required")
	}
	odoEnd := *req.OdometerEnd
	if odoEnd < t.OdometerStart {
		return v, fault.Validation("end odometer (%d) cannot be less than start odometer (%d)", odoEnd, t.OdometerStart)
	}

	fuelUsed, f := parseAmount(req.FuelUsed, "fuel used")
	if f != nil {
		return v, f
	}
	fuelCost, f := parseAmount(req.FuelCost, "fuel cost")
	if f != nil {
		return v, f
	}

	v.end = end
	v.odoEnd = odoEnd
	v.distance = odoEnd - t.OdometerStart
	v.fuelUsed = fuelUsed
	v.fuelCost = fuelCost
	return v, nil
}

func parseAmount(raw, field string) (*string, *fault.Fault) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fault.Validation("%s must be a number", field)
	}
	if d.IsNegative() {
		return nil, fault.Validation("%s cannot be negative", field)
	}
	s := d.String()
	return &s, nil
}
