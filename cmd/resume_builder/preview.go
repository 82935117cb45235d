package main

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/templates"
)

var (
	previewOutput   string
	previewTemplate string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the resume as a standalone HTML page",
	Long: `Renders the saved resume with the selected template, or the one named by
--template, and writes a standalone HTML page. Without a resume the page
shows a placeholder.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOutput, "out", "o", "", "Output HTML file (default stdout)")
	previewCmd.Flags().StringVarP(&previewTemplate, "template", "t", "", "Template id to render with")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(_ context.Context, s *state.Session) error {
		st := s.State()
		kind := selectedTemplate(st)
		if previewTemplate != "" {
			// Unknown ids render the select-a-template placeholder.
			kind, _ = templates.Parse(previewTemplate)
		}

		fragment, err := templates.RenderString(kind, st.Resume)
		if err != nil {
			return err
		}
		title := "Resume"
		if st.Resume != nil {
			title = st.Resume.PersonalInfo.FullName()
		}

		var buf bytes.Buffer
		if err := export.Document(&buf, title, fragment, cfg.MarkdownStyle()); err != nil {
			return err
		}
		return writeOutput(cmd, previewOutput, buf.Bytes())
	})
}
