package api

import (
	"errors"
	"net/http"

	"labtrack/internal/models"
	"labtrack/internal/service"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorBody is the JSON error envelope. Field is set for validation failures.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func grpcCode(err error) codes.Code {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return codes.ResourceExhausted
	case errors.Is(err, models.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, models.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, models.ErrConflict):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

func grpcError(err error) error {
	code := grpcCode(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

func writeServiceError(w http.ResponseWriter, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		writeError(w, code, "internal error")
		return
	}

	body := errorBody{Error: err.Error()}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	writeJSON(w, code, body)
}
