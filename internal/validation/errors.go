// Package validation provides field-level validation of resume form submissions.
package validation

import (
	"fmt"
	"strings"
)

// FieldError is a single inline error attached to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// FormError reports every field that failed validation in one submission.
type FormError struct {
	Section string       `json:"section,omitempty"`
	Fields  []FieldError `json:"fields"`
}

func (e *FormError) Error() string {
	var sb strings.Builder
	if e.Section != "" {
		fmt.Fprintf(&sb, "validation failed for %s:", e.Section)
	} else {
		sb.WriteString("validation failed:")
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&sb, " %s: %s;", f.Field, f.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Messages maps field paths to their message, first error per field.
func (e *FormError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

// Has reports whether field failed validation.
func (e *FormError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Error represents a general validation failure that is not tied to a field
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
