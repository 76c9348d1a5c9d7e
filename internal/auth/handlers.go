package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"vehicletracker/internal/api"
	"vehicletracker/internal/audit"
	"vehicletracker/internal/fault"
	"vehicletracker/internal/user"
	"vehicletracker/pkg/config"
	"vehicletracker/pkg/db"
	"vehicletracker/pkg/token"
)

type Handlers struct {
	Cfg   config.Config
	DB    *pgxpool.Pool
	Users *user.Repository

	// Overridable in tests.
	Now func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Username == "" || req.Email == "" || req.FullName == "" {
		api.WriteFault(w, fault.Validation("username, email and full name are required"))
		return
	}
	if len(req.Password) < 8 {
		api.WriteFault(w, fault.Validation("password must be at least 8 characters"))
		return
	}

	// Self-service registration never creates admins; those come from the
	// seed tool or an existing admin's edit.
	role := user.RoleRequester
	if req.Role != "" {
		parsed, err := user.ParseRole(req.Role)
		if err != nil || parsed == user.RoleAdmin {
			api.WriteFault(w, fault.Validation("invalid role"))
			return
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
	}

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		taken, err := user.ExistsByUsernameOrEmail(r.Context(), tx, u.Username, u.Email)
		if err != nil {
			return err
		}
		if taken {
			return fault.Conflict("username or email already in use")
		}
		if err := user.Insert(r.Context(), tx, u); err != nil {
			return err
		}
		_ = audit.Insert(r.Context(), tx, "user", &u.ID, "create", u.Username, map[string]any{"role": u.Role})
		return nil
	})
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, u)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteFault(w, fault.Validation("invalid json"))
		return
	}
	if req.Username == "" || req.Password == "" {
		api.WriteFault(w, fault.Validation("username and password are required"))
		return
	}

	u, err := h.Users.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password")
			return
		}
		api.WriteFault(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password")
		return
	}
	if !u.IsActive {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "account is deactivated")
		return
	}

	now := h.now()
	signed, err := token.Sign(h.Cfg.Auth.JWTSecret, token.Claims{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
	}, h.Cfg.Auth.TokenTTL, now)
	if err != nil {
		api.WriteFault(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed, User: u})
}
