package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vehicletracker/internal/api"
	"vehicletracker/internal/audit"
	"vehicletracker/internal/fault"
	"vehicletracker/internal/notify"
	"vehicletracker/internal/user"
	"vehicletracker/internal/vehicle"
	"vehicletracker/pkg/db"
)

const windowFormat = "2006-01-02 15:04"

type Handlers struct {
	DB     *pgxpool.Pool
	Repo   *Repository
	Users  *user.Repository
	Mailer notify.Mailer

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
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteFault(w, fault.NotFound("booking not found"))
			return
		}
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

// createGuard rejects vehicles that cannot take new bookings. A vehicle in
// use is still bookable for a future window; only maintenance blocks it.
func createGuard(veh *vehicle.Vehicle) *fault.Fault {
	if veh.Status == vehicle.StatusMaintenance {
		return fault.Validation("vehicle %s is currently under maintenance and cannot be booked", veh.Registration)
	}
	return nil
}

// approveCheck decides the pending-to-approved transition: the booking must
// still be pending and its window must be free of other active bookings.
func approveCheck(b *Booking, conflict *Booking) *fault.Fault {
	if b.Status != StatusPending {
		return fault.State("only pending bookings can be approved")
	}
	if conflict != nil {
		return fault.Conflict(
			"cannot approve: this vehicle is already booked between %s and %s (requested by %s)",
			conflict.StartPlanned.Format(windowFormat),
			conflict.EndPlanned.Format(windowFormat),
			conflict.RequesterName,
		)
	}
	return nil
}

// Create validates the request, then checks vehicle status and interval
// conflicts under the vehicle row lock so two overlapping requests for the
// same vehicle cannot both commit.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	start, end, f := req.validate(h.now())
	if f != nil {
		api.WriteFault(w, f)
		return
	}

	b := &Booking{
		ID:            uuid.NewString(),
		VehicleID:     req.VehicleID,
		RequesterID:   &actor.ID,
		RequesterName: actor.FullName,
		StartPlanned:  start,
		EndPlanned:    end,
		RouteFrom:     req.RouteFrom,
		RouteTo:       req.RouteTo,
		Purpose:       req.Purpose,
		ActivityCode:  req.ActivityCode,
		ProjectCode:   req.ProjectCode,
		Status:        StatusPending,
	}

	var reg string
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		veh, err := vehicle.GetForUpdate(r.Context(), tx, req.VehicleID)
		if err != nil {
			if errors.Is(err, vehicle.ErrNotFound) {
				return fault.Validation("selected vehicle does not exist")
			}
			return err
		}
		reg = veh.Registration

		if f := createGuard(veh); f != nil {
			return f
		}

		if req.DriverID != "" {
			drv, err := user.GetForUpdate(r.Context(), tx, req.DriverID)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return fault.Validation("selected driver does not exist")
				}
				return err
			}
			if drv.Role != user.RoleDriver || !drv.IsActive {
				return fault.Validation("selected user is not an active driver")
			}
			b.DriverID = &drv.ID
		}

		conflict, err := HasConflict(r.Context(), tx, req.VehicleID, start, end, "")
		if err != nil {
			return err
		}
		if conflict != nil {
			return fault.Conflict(
				"this vehicle is already booked between %s and %s (requested by %s)",
				conflict.StartPlanned.Format(windowFormat),
				conflict.EndPlanned.Format(windowFormat),
				conflict.RequesterName,
			)
		}

		if err := Insert(r.Context(), tx, b); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "booking", &b.ID, "create", actor.Username, map[string]any{
			"vehicleId": b.VehicleID,
			"window":    b.StartPlanned.Format(windowFormat) + " - " + b.EndPlanned.Format(windowFormat),
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	created, err := h.Repo.GetByID(r.Context(), b.ID)
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	h.notifyCreated(r, created, reg, actor.Email)
	api.WriteJSON(w, http.StatusCreated, created)
}

// Approve re-runs the conflict check before flipping pending to approved:
// an overlapping booking may have been created or approved since this one
// was requested.
func (h Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("booking not found")
			}
			return err
		}
		if _, err := vehicle.GetForUpdate(r.Context(), tx, b.VehicleID); err != nil {
			return err
		}

		conflict, err := HasConflict(r.Context(), tx, b.VehicleID, b.StartPlanned, b.EndPlanned, b.ID)
		if err != nil {
			return err
		}
		if f := approveCheck(b, conflict); f != nil {
			return f
		}

		if err := UpdateStatus(r.Context(), tx, b.ID, StatusApproved); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "booking", &b.ID, "approve", actor.Username, map[string]any{
			"from": b.Status, "to": StatusApproved,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	approved, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	h.notifyStatus(r, approved, "approved")
	api.WriteJSON(w, http.StatusOK, approved)
}

func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("booking not found")
			}
			return err
		}
		if !actor.IsAdmin() && (b.RequesterID == nil || *b.RequesterID != actor.ID) {
			return fault.Authorization("only the requester or an admin can cancel this booking")
		}
		if !CanTransition(b.Status, StatusCancelled) {
			return fault.State("this booking cannot be cancelled")
		}

		if err := UpdateStatus(r.Context(), tx, b.ID, StatusCancelled); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "booking", &b.ID, "cancel", actor.Username, map[string]any{
			"from": b.Status, "to": StatusCancelled,
		})
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

	h.notifyStatus(r, cancelled, "cancelled")
	api.WriteJSON(w, http.StatusOK, cancelled)
}

type AssignDriverRequest struct {
	// Empty clears the assignment.
	DriverID string `json:"driverId"`
}

func (h Handlers) AssignDriver(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req AssignDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("booking not found")
			}
			return err
		}
		if !b.Status.Active() {
			return fault.State("drivers can only be assigned while a booking is pending or approved")
		}

		var driverID *string
		if req.DriverID != "" {
			drv, err := user.GetForUpdate(r.Context(), tx, req.DriverID)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return fault.Validation("selected driver does not exist")
				}
				return err
			}
			if drv.Role != user.RoleDriver || !drv.IsActive {
				return fault.Validation("selected user is not an active driver")
			}
			driverID = &drv.ID
		}

		if err := UpdateDriver(r.Context(), tx, b.ID, driverID); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "booking", &b.ID, "assign", actor.Username, map[string]any{
			"driverId": req.DriverID,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	updated, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	if updated.DriverID != nil {
		if drv, err := h.Users.GetByID(r.Context(), *updated.DriverID); err == nil && drv.Email != "" {
			notify.Async(h.Mailer,
				[]string{drv.Email},
				fmt.Sprintf("Driver assignment - booking %s", updated.ID),
				fmt.Sprintf("Hello %s,\n\nYou have been assigned as driver for booking %s (%s -> %s, %s to %s).",
					drv.FullName, updated.ID, updated.RouteFrom, updated.RouteTo,
					updated.StartPlanned.Format(windowFormat), updated.EndPlanned.Format(windowFormat)),
			)
		}
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("booking not found")
			}
			return err
		}
		if err := Delete(r.Context(), tx, b.ID); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "booking", &b.ID, "delete", actor.Username, map[string]any{
			"status": b.Status,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type calendarEvent struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Color  string    `json:"color"`
}

var statusColors = map[Status]string{
	StatusPending:  "#ffc107",
	StatusApproved: "#198754",
}

// CalendarEvents returns active bookings as calendar feed entries. Rendering
// belongs to the frontend; this is data only.
func (h Handlers) CalendarEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListActive(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	events := make([]calendarEvent, 0, len(items))
	for _, b := range items {
		color := statusColors[b.Status]
		if color == "" {
			color = "#6c757d"
		}
		events = append(events, calendarEvent{
			ID:     b.ID,
			Title:  fmt.Sprintf("%s -> %s", b.RouteFrom, b.RouteTo),
			Start:  b.StartPlanned,
			End:    b.EndPlanned,
			Status: b.Status,
			Color:  color,
		})
	}
	api.WriteJSON(w, http.StatusOK, events)
}

func (h Handlers) notifyCreated(r *http.Request, b *Booking, registration, requesterEmail string) {
	admins, err := h.Users.AdminEmails(r.Context())
	if err == nil && len(admins) > 0 {
		notify.Async(h.Mailer,
			admins,
			fmt.Sprintf("New booking request %s", b.ID),
			fmt.Sprintf("A new vehicle booking request has been submitted.\n\nRequested by: %s\nVehicle: %s\nRoute: %s -> %s\nFrom: %s\nTo: %s\n\nPlease log in to review it.",
				b.RequesterName, registration, b.RouteFrom, b.RouteTo,
				b.StartPlanned.Format(windowFormat), b.EndPlanned.Format(windowFormat)),
		)
	}
	if requesterEmail != "" {
		notify.Async(h.Mailer,
			[]string{requesterEmail},
			fmt.Sprintf("Booking request %s received", b.ID),
			fmt.Sprintf("Hello %s,\n\nYour booking request for %s (%s -> %s) was submitted and is pending approval.",
				b.RequesterName, registration, b.RouteFrom, b.RouteTo),
		)
	}
}

func (h Handlers) notifyStatus(r *http.Request, b *Booking, what string) {
	if b.RequesterID == nil {
		return
	}
	requester, err := h.Users.GetByID(r.Context(), *b.RequesterID)
	if err != nil || requester.Email == "" {
		return
	}
	notify.Async(h.Mailer,
		[]string{requester.Email},
		fmt.Sprintf("Booking %s %s", b.ID, what),
		fmt.Sprintf("Hello %s,\n\nYour vehicle booking %s has been %s.\nRoute: %s -> %s\nFrom: %s\nTo: %s",
			b.RequesterName, b.ID, what, b.RouteFrom, b.RouteTo,
			b.StartPlanned.Format(windowFormat), b.EndPlanned.Format(windowFormat)),
	)
}
