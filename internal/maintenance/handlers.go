package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vehicletracker/internal/api"
	"vehicletracker/internal/audit"
	"vehicletracker/internal/fault"
	"vehicletracker/internal/vehicle"
	"vehicletracker/pkg/db"
)

type Handlers struct {
	DB   *pgxpool.Pool
	Repo *Repository

	// Overridable in tests.
	Now func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	var status Status
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, err := ParseStatus(s)
		if err != nil {
			api.WriteFault(w, fault.Validation("invalid status filter"))
			return
		}
		status = parsed
	}

	items, err := h.Repo.List(r.Context(), status)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Record{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteFault(w, fault.NotFound("maintenance record not found"))
			return
		}
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

// Schedule records upcoming work for a vehicle. With setImmediately the
// vehicle is flipped to maintenance in the same commit, which is refused
// while the vehicle has an open trip.
func (h Handlers) Schedule(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())

	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	mtype, scheduled, cost, f := req.validate()
	if f != nil {
		api.WriteFault(w, f)
		return
	}

	rec := &Record{
		ID:          uuid.NewString(),
		VehicleID:   req.VehicleID,
		Type:        mtype,
		Description: req.Description,
		Scheduled:   scheduled,
		Cost:        cost,
		Status:      StatusScheduled,
		CreatedByID: &actor.ID,
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		veh, err := vehicle.GetForUpdate(r.Context(), tx, req.VehicleID)
		if err != nil {
			if errors.Is(err, vehicle.ErrNotFound) {
				return fault.Validation("selected vehicle does not exist")
			}
			return err
		}
		if req.SetImmediately && veh.Status == vehicle.StatusInUse {
			return fault.State("vehicle %s has an open trip and cannot enter maintenance now", veh.Registration)
		}

		if err := Insert(r.Context(), tx, rec); err != nil {
			return err
		}
		if req.SetImmediately && veh.Status != vehicle.StatusMaintenance {
			if err := vehicle.UpdateStatus(r.Context(), tx, veh.ID, vehicle.StatusMaintenance); err != nil {
				return err
			}
		}
		_ = audit.Insert(r.Context(), tx, "maintenance", &rec.ID, "schedule", actor.Username, map[string]any{
			"vehicleId":      rec.VehicleID,
			"type":           rec.Type,
			"scheduledDate":  rec.Scheduled.Format(dateFormat),
			"setImmediately": req.SetImmediately,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	created, err := h.Repo.GetByID(r.Context(), rec.ID)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

type completeRequest struct {
	Cost string `json:"cost,omitempty"`
}

// Complete closes a scheduled record. The vehicle reverts to available only
// if maintenance put it there and no other scheduled record still claims it.
func (h Handlers) Complete(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req completeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteFault(w, fault.Validation("invalid json"))
			return
		}
	}
	cost, f := parseCost(req.Cost)
	if f != nil {
		api.WriteFault(w, f)
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		rec, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("maintenance record not found")
			}
			return err
		}
		if rec.Status != StatusScheduled {
			return fault.State("only scheduled maintenance can be completed")
		}

		if err := Complete(r.Context(), tx, rec.ID, h.now(), cost); err != nil {
			return err
		}
		if err := h.releaseVehicle(r.Context(), tx, rec); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "maintenance", &rec.ID, "complete", actor.Username, nil)
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	completed, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, completed)
}

func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		rec, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("maintenance record not found")
			}
			return err
		}
		if rec.Status != StatusScheduled {
			return fault.State("only scheduled maintenance can be cancelled")
		}

		if err := UpdateStatus(r.Context(), tx, rec.ID, StatusCancelled); err != nil {
			return err
		}
		if err := h.releaseVehicle(r.Context(), tx, rec); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "maintenance", &rec.ID, "cancel", actor.Username, nil)
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	cancelled, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, cancelled)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		rec, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("maintenance record not found")
			}
			return err
		}
		if err := Delete(r.Context(), tx, rec.ID); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "maintenance", &rec.ID, "delete", actor.Username, map[string]any{
			"vehicleId": rec.VehicleID,
			"status":    rec.Status,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// releaseVehicle flips a vehicle back to available after its closing
// maintenance record, unless another scheduled record still holds it.
func (h Handlers) releaseVehicle(ctx context.Context, tx pgx.Tx, rec *Record) error {
	veh, err := vehicle.GetForUpdate(ctx, tx, rec.VehicleID)
	if err != nil {
		return err
	}
	if veh.Status != vehicle.StatusMaintenance {
		return nil
	}
	other, err := HasOtherScheduled(ctx, tx, rec.VehicleID, rec.ID)
	if err != nil {
		return err
	}
	if other {
		return nil
	}
	return vehicle.UpdateStatus(ctx, tx, veh.ID, vehicle.StatusAvailable)
}
