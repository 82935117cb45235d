// Package export writes a resume in each downloadable format.
package export

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/markdown"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

// Format is a download format.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatLaTeX    Format = "tex"
	FormatText     Format = "txt"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatHTML, FormatMarkdown, FormatLaTeX, FormatText, FormatPDF}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tex", "latex":
		return FormatLaTeX, nil
	case "txt", "text":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", &Error{Message: fmt.Sprintf("unsupported format %q", s)}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatLaTeX:
		return "application/x-tex; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename is the suggested download name.
func (f Format) Filename() string {
	return "resume." + string(f)
}

// Error represents a failed export.
type Error struct {
	Format  Format
	Message string
	Cause   error
}

func (e *Error) Error() string {
	prefix := "export error"
	if e.Format != "" {
		prefix = fmt.Sprintf("export error (%s)", e.Format)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Text writes a generated markup string as a plain-text download.
func Text(w io.Writer, markup string) error {
	if _, err := io.WriteString(w, markup); err != nil {
		return &Error{Format: FormatText, Message: "failed to write download", Cause: err}
	}
	return nil
}

//go:embed resume.css
var resumeCSS string

var document = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body style="{{.Inline}}">
{{.Body}}
</body>
</html>
`))

// Document wraps a rendered template fragment in a standalone HTML page
// styled with style.
func Document(w io.Writer, title, fragment string, style markdown.Style) error {
	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return err
	}
	err := document.Execute(w, struct {
		Title  string
		CSS    template.CSS
		Inline template.CSS
		Body   template.HTML
	}{
		Title:  title,
		CSS:    template.CSS(resumeCSS + "\n" + style.CustomCSS),
		Inline: template.CSS(fmt.Sprintf("color: %s; font-family: %s; font-size: %dpx; padding: %s", style.ThemeColor, style.FontFamily, style.FontSize, style.PaperSize.Margin())),
		Body:   template.HTML(fragment),
	})
	if err != nil {
		return &Error{Format: FormatHTML, Message: "failed to write document", Cause: err}
	}
	return nil
}

// Request describes one export.
type Request struct {
	Format   Format
	Resume   *types.Resume
	Template templates.Kind
	Style    markdown.Style
}

// Exporter produces every download format of a resume.
type Exporter struct {
	// Printer renders PDFs. A nil Printer makes PDF export unavailable.
	Printer Printer
	// LaTeXTemplate is a template file replacing the built-in LaTeX layout.
	LaTeXTemplate string
}

// Export writes the resume in req.Format to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer, req Request) error {
	if req.Resume == nil {
		return &Error{Format: req.Format, Message: templates.NoResumeMessage}
	}

	switch req.Format {
	case FormatMarkdown:
		md, err := rendering.RenderMarkdown(req.Resume)
		if err != nil {
			return &Error{Format: req.Format, Message: "failed to render Markdown", Cause: err}
		}
		return Text(w, md)

	case FormatLaTeX:
		tex, err := rendering.RenderLaTeXWith(req.Resume, e.LaTeXTemplate)
		if err != nil {
			return &Error{Format: req.Format, Message: "failed to render LaTeX", Cause: err}
		}
		return Text(w, tex)

	case FormatText:
		fragment, err := templates.RenderString(req.Template, req.Resume)
		if err != nil {
			return &Error{Format: req.Format, Message: "failed to render template", Cause: err}
		}
		text, err := PlainText(fragment)
		if err != nil {
			return &Error{Format: req.Format, Message: "failed to extract text", Cause: err}
		}
		return Text(w, text+"\n")

	case FormatHTML:
		return e.html(w, req)

	case FormatPDF:
		if e.Printer == nil {
			return &Error{Format: req.Format, Message: "PDF export is not available"}
		}
		var page strings.Builder
		if err := e.html(&page, req); err != nil {
			return err
		}
		pdf, err := e.Printer.PDF(ctx, page.String(), req.Style.WithDefaults().PaperSize)
		if err != nil {
			return err
		}
		if _, err := w.Write(pdf); err != nil {
			return &Error{Format: req.Format, Message: "failed to write download", Cause: err}
		}
		return nil
	}
	return &Error{Format: req.Format, Message: "unsupported format"}
}

func (e *Exporter) html(w io.Writer, req Request) error {
	fragment, err := templates.RenderString(req.Template, req.Resume)
	if err != nil {
		return &Error{Format: FormatHTML, Message: "failed to render template", Cause: err}
	}
	return Document(w, req.Resume.PersonalInfo.FullName(), fragment, req.Style)
}
