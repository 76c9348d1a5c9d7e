package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"vehicletracker/internal/fault"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteFault renders a typed operation failure. The message is safe to show
// to the end user unchanged; anything that is not a *fault.Fault is an
// internal error and only gets logged.
func WriteFault(w http.ResponseWriter, err error) {
	var f *fault.Fault
	if !errors.As(err, &f) {
		log.Error().Err(err).Msg("internal error")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	status, code := statusForKind(f.Kind)
	WriteError(w, status, code, f.Message)
}

func statusForKind(k fault.Kind) (int, string) {
	switch k {
	case fault.KindValidation:
		return http.StatusBadRequest, "VALIDATION_FAILED"
	case fault.KindConflict:
		return http.StatusConflict, "BOOKING_CONFLICT"
	case fault.KindState:
		return http.StatusConflict, "INVALID_STATE_TRANSITION"
	case fault.KindAuthorization:
		return http.StatusForbidden, "FORBIDDEN"
	case fault.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
