package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bukid/internal/auth"
	"bukid/internal/core"
	"bukid/internal/storage"
)

// envelope is the wire shape of every API response. A failed call always
// carries an error string and success=false; it is never an empty list in
// disguise.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}

func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// respondError maps the core and storage error taxonomy onto HTTP statuses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, core.ErrOptionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrPollClosed), errors.Is(err, core.ErrAlreadyVoted):
		status = http.StatusConflict
	case errors.Is(err, core.ErrInconsistentTally):
		status = http.StatusInternalServerError
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case isValidation(err):
		status = http.StatusUnprocessableEntity
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", "error", err, "url", r.URL.Path, "status", status)
	}
	writeJSON(w, status, envelope{Success: false, Error: err.Error()})
}

func respondForbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, envelope{Success: false, Error: "admin role required"})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: msg})
}

func isValidation(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidType,
		core.ErrEmptyDescription,
		core.ErrEmptyCategory,
		core.ErrInvalidQuantity,
		core.ErrHarvestBeforePlanting,
		core.ErrInvalidCoordinates,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
