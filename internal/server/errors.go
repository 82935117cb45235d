package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/markdown"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/validation"
)

// ErrorResponse is the JSON body of every failed request. Fields carries
// the inline errors of a rejected form.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		formErr   *validation.FormError
		schemaErr *schemas.ValidationError
		styleErr  *markdown.StyleError
		reqErr    *ErrValidation
		stateErr  *state.Error
	)
	switch {
	case errors.As(err, &formErr), errors.As(err, &schemaErr), errors.As(err, &styleErr), errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, state.ErrNoResume):
		return http.StatusConflict
	case errors.As(err, &stateErr) && stateErr.Op == "decode":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the response body for err.
func errorBody(err error) ErrorResponse {
	body := ErrorResponse{Error: err.Error()}
	var formErr *validation.FormError
	if errors.As(err, &formErr) {
		body.Fields = formErr.Fields
	}
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		for _, fe := range schemaErr.Errors {
			body.Fields = append(body.Fields, validation.FieldError{Field: fe.Field, Rule: "schema", Message: fe.Message})
		}
	}
	var exportErr *export.Error
	if errors.As(err, &exportErr) && exportErr.Cause == nil {
		body.Error = exportErr.Message
	}
	return body
}

// fail writes err with the status HTTPStatus assigns it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.jsonResponse(w, status, errorBody(err))
}
