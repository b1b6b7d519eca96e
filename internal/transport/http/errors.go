package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/light-bringer/order-service/internal/app/order/domain"
)

// errorResponse is the JSON error body returned by every handler.
type errorResponse struct {
	Error string `json:"error"`
}

// mapDomainErrorToStatus converts domain errors to HTTP status codes.
func mapDomainErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyCustomerID):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrOrderAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrOutboxEntryNotFound):
		return http.StatusNotFound

	default:
		// Persistence or transport fault; the caller may retry the request
		return http.StatusServiceUnavailable
	}
}

// writeError sends the mapped status code with a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	status := mapDomainErrorToStatus(err)

	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		// Do not leak storage internals to callers
		msg = "temporarily unable to process the request"
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
