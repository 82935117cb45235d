package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/latexpreview"
	"github.com/jonathan/resume-builder/internal/markdown"
	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/templates"
)

// TemplateInfo describes one gallery entry.
type TemplateInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// SelectTemplateRequest is the body of PUT /templates/selected.
type SelectTemplateRequest struct {
	ID string `json:"id"`
}

// CustomizeRequest is the body of POST /customize.
type CustomizeRequest struct {
	LaTeX    string `json:"latex"`
	Sanitize bool   `json:"sanitize,omitempty"`
}

// CustomizeResponse is the converted preview with what the conversion dropped.
type CustomizeResponse struct {
	HTML        string                    `json:"html"`
	Diagnostics []latexpreview.Diagnostic `json:"diagnostics"`
	Outline     []latexpreview.Heading    `json:"outline"`
}

// MarkdownRequest is the body of POST /markdown. Zero style fields take the
// server's configured style.
type MarkdownRequest struct {
	Markdown string         `json:"markdown"`
	Style    markdown.Style `json:"style"`
}

// handleListTemplates returns the template gallery
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	selected := s.session.State().SelectedTemplate
	all := templates.All()
	out := make([]TemplateInfo, 0, len(all))
	for _, k := range all {
		out = append(out, TemplateInfo{ID: k.String(), Name: k.DisplayName(), Selected: k == selected})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleSelectTemplate selects the template used by preview and export
func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	var req SelectTemplateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.dispatch(w, state.SelectTemplate{ID: req.ID})
}

// previewKind is the template named by the request, or the selected one.
func (s *Server) previewKind(r *http.Request, st state.State) templates.Kind {
	if id := r.URL.Query().Get("template"); id != "" {
		kind, _ := templates.Parse(id)
		return kind
	}
	return st.SelectedTemplate
}

// handlePreview renders the resume with a template as an HTML page
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	st := s.session.State()
	kind := s.previewKind(r, st)

	fragment, err := templates.RenderString(kind, st.Resume)
	if err != nil {
		s.fail(w, err)
		return
	}

	title := "Resume"
	if st.Resume != nil && st.Resume.PersonalInfo.FullName() != "" {
		title = st.Resume.PersonalInfo.FullName()
	}
	var buf bytes.Buffer
	if err := export.Document(&buf, title, fragment, s.style); err != nil {
		s.fail(w, err)
		return
	}
	s.writeBody(w, "text/html; charset=utf-8", buf.Bytes())
}

// handleCustomize converts LaTeX source to the HTML preview
func (s *Server) handleCustomize(w http.ResponseWriter, r *http.Request) {
	var req CustomizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := latexpreview.ConvertWithDiagnostics(req.LaTeX, latexpreview.Options{Sanitize: req.Sanitize})
	outline, err := latexpreview.Outline(result.HTML)
	if err != nil {
		s.fail(w, err)
		return
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []latexpreview.Diagnostic{}
	}
	if outline == nil {
		outline = []latexpreview.Heading{}
	}
	s.jsonResponse(w, http.StatusOK, CustomizeResponse{HTML: result.HTML, Diagnostics: result.Diagnostics, Outline: outline})
}

// mergeStyle fills zero fields of override from base.
func mergeStyle(base, override markdown.Style) markdown.Style {
	if override.ThemeColor == "" {
		override.ThemeColor = base.ThemeColor
	}
	if override.FontFamily == "" {
		override.FontFamily = base.FontFamily
	}
	if override.FontSize == 0 {
		override.FontSize = base.FontSize
	}
	if override.PaperSize == "" {
		override.PaperSize = base.PaperSize
	}
	if override.CustomCSS == "" {
		override.CustomCSS = base.CustomCSS
	}
	return override
}

// handleMarkdown renders Markdown as a styled HTML page
func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	var req MarkdownRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	page, err := s.converter.ToHTML(r.Context(), req.Markdown, mergeStyle(s.style, req.Style))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeBody(w, "text/html; charset=utf-8", []byte(page))
}

// handleExport downloads the resume in the requested format
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	st := s.session.State()
	if st.Resume == nil {
		s.errorResponse(w, http.StatusConflict, templates.NoResumeMessage)
		return
	}
	if format == export.FormatPDF && s.exporter.Printer == nil {
		s.errorResponse(w, http.StatusNotImplemented, "PDF export is not available")
		return
	}

	var buf bytes.Buffer
	err = s.exporter.Export(r.Context(), &buf, export.Request{
		Format:   format,
		Resume:   st.Resume,
		Template: s.previewKind(r, st),
		Style:    s.style,
	})
	if err != nil {
		var exportErr *export.Error
		if errors.As(err, &exportErr) {
			s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	s.writeBody(w, format.ContentType(), buf.Bytes())
}

func (s *Server) writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}
