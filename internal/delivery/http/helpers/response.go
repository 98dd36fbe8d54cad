package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"meetupfinder/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeValidation      = "validation_failed"
	ErrCodeMissingLocation = "missing_location"
	ErrCodeCancelled       = "request_cancelled"
	ErrCodeInternalError   = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// WriteValidationError writes a 422 with the per-field messages of a domain.ValidationError.
func WriteValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Error: &APIError{Code: ErrCodeValidation, Message: verr.Error(), Fields: verr.Fields},
	})
}

// WriteDomainError maps well-known domain errors to a status and error code.
// It reports false when err is not one of them; the caller then logs and writes a 500.
func WriteDomainError(w http.ResponseWriter, err error) bool {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr)
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "email already in use")
	case errors.Is(err, domain.ErrMissingLocation):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeMissingLocation, "lon and lat query parameters are required")
	case errors.Is(err, domain.ErrCancelled):
		// The client usually went away; nobody reads this body.
		slog.Debug("request cancelled", "err", err)
		WriteJSONError(w, http.StatusServiceUnavailable, ErrCodeCancelled, "request cancelled")
	default:
		return false
	}
	return true
}
