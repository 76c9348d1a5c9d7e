package vehicle

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vehicletracker/internal/api"
	"vehicletracker/internal/audit"
	"vehicletracker/internal/fault"
	"vehicletracker/pkg/db"
)

type Handlers struct {
	DB   *pgxpool.Pool
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	if items == nil {
		items = []Vehicle{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type CreateRequest struct {
	Registration string `json:"registration"`
	Make         string `json:"make"`
	Model        string `json:"model"`
}

func (req *CreateRequest) validate() *fault.Fault {
	req.Registration = NormalizeRegistration(req.Registration)
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)

	if req.Registration == "" {
		return fault.Validation("registration is required")
	}
	if req.Make == "" {
		return fault.Validation("make is required")
	}
	if req.Model == "" {
		return fault.Validation("model is required")
	}
	return nil
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	if f := req.validate(); f != nil {
		api.WriteFault(w, f)
		return
	}

	v := &Vehicle{
		ID:           uuid.NewString(),
		Registration: req.Registration,
		Make:         req.Make,
		Model:        req.Model,
		Status:       StatusAvailable,
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		taken, err := ExistsByRegistration(r.Context(), tx, v.Registration, "")
		if err != nil {
			return err
		}
		if taken {
			return fault.Conflict("a vehicle with registration %s already exists", v.Registration)
		}
		if err := Insert(r.Context(), tx, v); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "vehicle", &v.ID, "create", actor.Username, map[string]any{
			"registration": v.Registration,
		})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	created, err := h.Repo.GetByID(r.Context(), v.ID)
	if err != nil {
		api.WriteFault(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

type UpdateRequest struct {
	Registration string `json:"registration"`
	Make         string `json:"make"`
	Model        string `json:"model"`
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	cr := CreateRequest(req)
	if f := cr.validate(); f != nil {
		api.WriteFault(w, f)
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		v, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("vehicle not found")
			}
			return err
		}
		taken, err := ExistsByRegistration(r.Context(), tx, cr.Registration, v.ID)
		if err != nil {
			return err
		}
		if taken {
			return fault.Conflict("a vehicle with registration %s already exists", cr.Registration)
		}
		if err := Update(r.Context(), tx, v.ID, cr.Registration, cr.Make, cr.Model); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "vehicle", &v.ID, "edit", actor.Username, map[string]any{
			"registration": cr.Registration,
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
	api.WriteJSON(w, http.StatusOK, updated)
}
