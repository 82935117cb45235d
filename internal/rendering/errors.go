package rendering

import "fmt"

// TemplateError reports a document template that could not be read, parsed
// or executed. Template is the built-in name or the user-supplied path.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template error (%s): %s", e.Template, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a document that could not be produced for reasons
// other than its template, such as a missing resume.
type RenderError struct {
	Document string // "latex" or "markdown"
	Message  string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error (%s): %s", e.Document, e.Message)
}
