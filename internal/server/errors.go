package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-scorer/internal/scoring"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrPayloadTooLarge indicates the request body exceeded the upload limit
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

var errMissingFile = &ErrValidation{Field: "resume_file", Message: "Missing resume file."}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var tooLarge *ErrPayloadTooLarge
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, scoring.ErrEmptyContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message shown to API clients for err.
func publicMessage(err error) string {
	var validation *ErrValidation
	var tooLarge *ErrPayloadTooLarge
	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &tooLarge):
		return "Uploaded file is too large."
	case errors.Is(err, scoring.ErrEmptyContent):
		return scoring.ExtractionFailedMessage
	case errors.Is(err, context.DeadlineExceeded):
		return "Scoring timed out."
	case errors.Is(err, context.Canceled):
		return "Request cancelled."
	default:
		return "Internal server error."
	}
}
