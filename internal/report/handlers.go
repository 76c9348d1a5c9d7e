package report

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"vehicletracker/internal/api"
	"vehicletracker/internal/fault"
)

const dateFormat = "2006-01-02"

type Handlers struct {
	Repo *Repository
}

// Vehicle reports the finished trips of one vehicle over a date range, with
// running totals for distance and fuel cost.
func (h Handlers) Vehicle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vehicleID := q.Get("vehicle_id")
	if vehicleID == "" {
		api.WriteFault(w, fault.Validation("vehicle_id is required"))
		return
	}
	from, err := time.Parse(dateFormat, q.Get("from"))
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid from date, expected YYYY-MM-DD"))
		return
	}
	to, err := time.Parse(dateFormat, q.Get("to"))
	if err != nil {
		api.WriteFault(w, fault.Validation("invalid to date, expected YYYY-MM-DD"))
		return
	}
	if to.Before(from) {
		api.WriteFault(w, fault.Validation("to date is before from date"))
		return
	}

	// The range is inclusive of the whole "to" day.
	trips, err := h.Repo.VehicleTrips(r.Context(), vehicleID, from, to.AddDate(0, 0, 1))
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if trips == nil {
		trips = []TripRow{}
	}

	distance, fuelCost := Totals(trips)
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"vehicleId":     vehicleID,
		"from":          from.Format(dateFormat),
		"to":            to.Format(dateFormat),
		"trips":         trips,
		"totalDistance": distance,
		"totalFuelCost": fuelCost.String(),
	})
}

func (h Handlers) Budget(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Repo.BudgetByProject(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if rows == nil {
		rows = []BudgetRow{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": rows})
}

// Totals sums distance and fuel cost across trip rows. Rows without fuel
// figures count toward distance only.
func Totals(trips []TripRow) (int64, decimal.Decimal) {
	var distance int64
	cost := decimal.Zero
	for _, t := range trips {
		if t.Distance != nil {
			distance += *t.Distance
		}
		if t.FuelCost != nil {
			if d, err := decimal.NewFromString(*t.FuelCost); err == nil {
				cost = cost.Add(d)
			}
		}
	}
	return distance, cost
}
