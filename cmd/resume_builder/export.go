package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/templates"
)

var (
	exportFormat   string
	exportOutput   string
	exportTemplate string
	exportAll      bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the resume in one of the export formats",
	Long: `Exports the saved resume as html, md, tex, txt or pdf. PDF export needs a
local Chrome or Chromium.

With --all-templates, every template of the gallery is rendered and written to
<out>/<template>.html.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "html", "Export format: html, md, tex, txt or pdf")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file, or directory with --all-templates (default resume.<format>)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template id to lay out html, txt and pdf exports with")
	exportCmd.Flags().BoolVar(&exportAll, "all-templates", false, "Render the whole template gallery as HTML")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportAll {
		return withSession(cmd, func(ctx context.Context, s *state.Session) error {
			return exportGallery(ctx, cmd, s.State())
		})
	}

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	out := exportOutput
	if out == "" {
		out = format.Filename()
	}

	return withSession(cmd, func(ctx context.Context, s *state.Session) error {
		st := s.State()
		kind := selectedTemplate(st)
		if exportTemplate != "" {
			k, ok := templates.Parse(exportTemplate)
			if !ok {
				return fmt.Errorf("unknown template %q", exportTemplate)
			}
			kind = k
		}

		exporter := &export.Exporter{
			Printer:       export.NewChrome(cfg.PDFTimeout()),
			LaTeXTemplate: cfg.LaTeXTemplate,
		}
		var buf bytes.Buffer
		err := exporter.Export(ctx, &buf, export.Request{
			Format:   format,
			Resume:   st.Resume,
			Template: kind,
			Style:    cfg.MarkdownStyle(),
		})
		if err != nil {
			return err
		}
		logger.Debug("resume exported",
			zap.String("format", string(format)),
			zap.String("template", kind.String()),
			zap.Int("bytes", buf.Len()))
		return writeOutput(cmd, out, buf.Bytes())
	})
}

// exportGallery writes one standalone page per template.
func exportGallery(ctx context.Context, cmd *cobra.Command, st state.State) error {
	if st.Resume == nil {
		return fmt.Errorf("%s", templates.NoResumeMessage)
	}
	dir := exportOutput
	if dir == "" {
		dir = "gallery"
	}

	pages, err := templates.RenderGallery(ctx, st.Resume)
	if err != nil {
		return err
	}
	style := cfg.MarkdownStyle()
	for _, page := range pages {
		var buf bytes.Buffer
		title := st.Resume.PersonalInfo.FullName() + " - " + page.Kind.DisplayName()
		if err := export.Document(&buf, title, page.HTML, style); err != nil {
			return err
		}
		if err := writeOutput(cmd, filepath.Join(dir, page.Kind.String()+".html"), buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
