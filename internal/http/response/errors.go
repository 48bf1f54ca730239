package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

// ExposeDetails adds the internal error text to 500 responses. Development only.
var ExposeDetails bool

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteErrorWithDetails writes a structured JSON error response with additional details
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, message, code, details string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code, Details: details})
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeInternalError = "INTERNAL_ERROR"
	CodeCategoryInUse = "CATEGORY_IN_USE"
	CodeCodeRejected  = "ACCESS_CODE_REJECTED"
	CodePayloadLarge  = "PAYLOAD_TOO_LARGE"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func PayloadTooLarge(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusRequestEntityTooLarge, message, CodePayloadLarge)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

// FromError maps a service error onto a status code. notFound is shown for
// ErrNotFound, failed for anything unclassified.
func FromError(w http.ResponseWriter, r *http.Request, err error, notFound, failed string) {
	var (
		validation *domain.ValidationError
		inUse      *domain.CategoryInUseError
		conflict   *domain.ConflictError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		PayloadTooLarge(w, "Request body too large")
	case errors.As(err, &validation):
		BadRequest(w, validation.Msg)
	case errors.As(err, &inUse):
		WriteError(w, http.StatusBadRequest, inUse.Error(), CodeCategoryInUse)
	case errors.As(err, &conflict):
		Conflict(w, conflict.Msg)
	case errors.Is(err, domain.ErrConflict):
		Conflict(w, "Resource already exists")
	case errors.Is(err, domain.ErrValidation):
		BadRequest(w, "Invalid input")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, notFound)
	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, "Unauthorized")
	default:
		logger.ErrorContext(r.Context(), failed, "error", err, "method", r.Method, "path", r.URL.Path)
		if ExposeDetails {
			WriteErrorWithDetails(w, http.StatusInternalServerError, failed, CodeInternalError, err.Error())
			return
		}
		InternalError(w, failed)
	}
}
