package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/clariohq/tokenledger/internal/adapter/http/dto"
	"github.com/clariohq/tokenledger/internal/domain"
)

// Error kinds reported to clients.
const (
	kindValidation          = "validation"
	kindInsufficientFunds   = "insufficient_funds"
	kindInvalidReservation  = "invalid_reservation"
	kindIdempotencyConflict = "idempotency_key_conflict"
	kindNotFound            = "not_found"
	kindTransient           = "transient"
	kindInternal            = "internal"
	kindInconsistent        = "inconsistent"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeErrorKind(w, status, kindForStatus(status), message, details)
}

func writeErrorKind(w http.ResponseWriter, status int, kind, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Kind:    kind,
		Message: details,
	})
}

// writeDomainError maps a domain error to a status and kind, then writes it.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	status, kind := mapDomainError(err)
	writeErrorKind(w, status, kind, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes and error kinds.
// Business rejections are 409: the request was understood, the wallet state
// forbids it.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict, kindInsufficientFunds
	case errors.Is(err, domain.ErrInvalidReservation):
		return http.StatusConflict, kindInvalidReservation
	case errors.Is(err, domain.ErrIdempotencyKeyConflict):
		return http.StatusConflict, kindIdempotencyConflict
	case errors.Is(err, domain.ErrBalanceOverflow):
		return http.StatusConflict, kindValidation
	case errors.Is(err, domain.ErrWalletNotFound):
		return http.StatusNotFound, kindNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidAccountID),
		errors.Is(err, domain.ErrInvalidSource),
		errors.Is(err, domain.ErrMetadataTooLarge),
		errors.Is(err, domain.ErrMissingIdempotencyKey),
		errors.Is(err, domain.ErrIdempotencyKeyTooLong):
		return http.StatusBadRequest, kindValidation
	case errors.Is(err, domain.ErrTransientStorage):
		return http.StatusServiceUnavailable, kindTransient
	case errors.Is(err, domain.ErrLedgerDrift):
		return http.StatusConflict, kindInconsistent
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

func kindForStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return kindValidation
	case status == http.StatusNotFound:
		return kindNotFound
	case status >= 500:
		return kindInternal
	default:
		return ""
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
