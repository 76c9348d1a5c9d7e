package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
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
		items = []User{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type UpdateRequest struct {
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		u, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fault.NotFound("user not found")
			}
			return err
		}

		fullName := strings.TrimSpace(req.FullName)
		if fullName == "" {
			fullName = u.FullName
		}
		role := u.Role
		if req.Role != "" {
			role, err = ParseRole(req.Role)
			if err != nil {
				return fault.Validation("invalid role")
			}
		}
		isActive := u.IsActive
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		// An admin deactivating their own account would lock everyone out.
		if u.ID == actor.ID && (!isActive || role != RoleAdmin) {
			return fault.Validation("cannot demote or deactivate your own account")
		}

		if err := Update(r.Context(), tx, u.ID, fullName, role, isActive); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "user", &u.ID, "edit", actor.Username, map[string]any{
			"role": role, "isActive": isActive,
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
