package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tandaclub/tanda/internal/auth"
	"github.com/tandaclub/tanda/internal/engine"
	"github.com/tandaclub/tanda/internal/service"
	"github.com/tandaclub/tanda/internal/storage"
	"github.com/tandaclub/tanda/internal/treasury"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses. Every engine
// precondition failure is caller-visible; only consistency errors
// surface as 500s.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	// Not found.
	case errors.Is(err, storage.ErrTandaNotFound),
		errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, engine.ErrMemberNotFound),
		errors.Is(err, engine.ErrNotAMember):
		return http.StatusNotFound

	// Authorization.
	case errors.Is(err, engine.ErrNotCreator),
		errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Validation.
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrInvalidMemberCap),
		errors.Is(err, engine.ErrCommissionTooHigh),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest

	// Money.
	case errors.Is(err, treasury.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// State, membership, timing and accounting conflicts.
	case errors.Is(err, engine.ErrNotForming),
		errors.Is(err, engine.ErrNotActive),
		errors.Is(err, engine.ErrTandaFull),
		errors.Is(err, engine.ErrAlreadyMember),
		errors.Is(err, engine.ErrInsufficientMembers),
		errors.Is(err, engine.ErrAlreadyDeposited),
		errors.Is(err, engine.ErrWasExpelled),
		errors.Is(err, engine.ErrAlreadyExpelled),
		errors.Is(err, engine.ErrHasDeposited),
		errors.Is(err, engine.ErrDeadlineNotReached),
		errors.Is(err, engine.ErrNotReady),
		errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, service.ErrAlreadyInitialized):
		return http.StatusConflict

	case errors.Is(err, service.ErrNotInitialized):
		return http.StatusServiceUnavailable

	// engine.ErrBeneficiaryNotFound lands here: bookkeeping corruption,
	// not a caller mistake.
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
