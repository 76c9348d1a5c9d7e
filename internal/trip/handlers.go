package trip

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vehicletracker/internal/api"
	"vehicletracker/internal/audit"
	"vehicletracker/internal/booking"
	"vehicletracker/internal/fault"
	"vehicletracker/internal/vehicle"
	"vehicletracker/pkg/db"
)

type Handlers struct {
	DB   *pgxpool.Pool
	Repo *Repository
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Repo.GetByBookingID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteFault(w, fault.NotFound("no trip recorded for this booking"))
			return
		}
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

// startGuard gates opening a trip: the booking must be approved and must not
// already have one. A repeat start fails here without touching the first
// trip's record.
func startGuard(b *booking.Booking, existing *Trip) *fault.Fault {
	if b.Status != booking.StatusApproved {
		return fault.State("only approved bookings can start a trip")
	}
	if existing != nil {
		return fault.State("a trip has already been started for this booking")
	}
	return nil
}

// Start opens a trip for an approved booking and marks the vehicle in use.
// Booking row lock first, then vehicle; one trip per booking ever.
func (h Handlers) Start(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	bookingID := chi.URLParam(r, "id")

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	start, f := req.validate()
	if f != nil {
		api.WriteFault(w, f)
		return
	}

	t := &Trip{
		ID:            uuid.NewString(),
		BookingID:     bookingID,
		StartActual:   start,
		OdometerStart: *req.OdometerStart,
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := booking.GetForUpdate(r.Context(), tx, bookingID)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				return fault.NotFound("booking not found")
			}
			return err
		}
		existing, err := GetByBookingForUpdate(r.Context(), tx, bookingID)
		if err != nil {
			return err
		}
		if f := startGuard(b, existing); f != nil {
			return f
		}

		if _, err := vehicle.GetForUpdate(r.Context(), tx, b.VehicleID); err != nil {
			return err
		}

		if err := Insert(r.Context(), tx, t); err != nil {
			return err
		}
		if err := vehicle.UpdateStatus(r.Context(), tx, b.VehicleID, vehicle.StatusInUse); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "trip", &t.ID, "start", actor.Username, map[string]any{
			"bookingId":     bookingID,
			"odometerStart": t.OdometerStart,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	created, err := h.Repo.GetByBookingID(r.Context(), bookingID)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// End closes the open trip: end fields, derived distance, booking to
// completed and vehicle back to available, all in one commit.
func (h Handlers) End(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	bookingID := chi.URLParam(r, "id")

	var req EndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := booking.GetForUpdate(r.Context(), tx, bookingID)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				return fault.NotFound("booking not found")
			}
			return err
		}

		t, err := GetByBookingForUpdate(r.Context(), tx, bookingID)
		if err != nil {
			return err
		}
		if !t.Open() {
			return fault.State("no active trip found for this booking")
		}
		if !booking.CanTransition(b.Status, booking.StatusCompleted) {
			return fault.State("booking is not in a state that can be completed")
		}

		v, f := req.validateEnd(t)
		if f != nil {
			return f
		}

		if _, err := vehicle.GetForUpdate(r.Context(), tx, b.VehicleID); err != nil {
			return err
		}

		if err := Finish(r.Context(), tx, t.ID, v.end, v.odoEnd, v.distance, v.fuelUsed, v.fuelCost, req.Remarks); err != nil {
			return err
		}
		if err := booking.UpdateStatus(r.Context(), tx, b.ID, booking.StatusCompleted); err != nil {
			return err
		}
		if err := vehicle.UpdateStatus(r.Context(), tx, b.VehicleID, vehicle.StatusAvailable); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "trip", &t.ID, "complete", actor.Username, map[string]any{
			"bookingId": bookingID,
			"distance":  v.distance,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	ended, err := h.Repo.GetByBookingID(r.Context(), bookingID)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, ended)
}
