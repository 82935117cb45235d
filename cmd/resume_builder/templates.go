package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the template gallery",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

var selectTemplateCmd = &cobra.Command{
	Use:   "select-template <id>",
	Short: "Select the template the resume is shown with",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelectTemplate,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(selectTemplateCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(_ context.Context, s *state.Session) error {
		observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(selectedTemplate(s.State()))
		return nil
	})
}

func runSelectTemplate(cmd *cobra.Command, args []string) error {
	if _, ok := templates.Parse(args[0]); !ok {
		return fmt.Errorf("unknown template %q; run 'resume_builder templates' to list them", args[0])
	}
	return withSession(cmd, func(ctx context.Context, s *state.Session) error {
		// The selection is stored with the resume record.
		if s.State().Resume == nil {
			return fmt.Errorf("no resume to select a template for; run 'resume_builder new' first")
		}
		st, err := s.Dispatch(state.SelectTemplate{ID: args[0]})
		if err != nil {
			return err
		}
		if err := s.Save(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Selected template %s\n", st.SelectedTemplate)
		return nil
	})
}

// selectedTemplate resolves the template to render with: the session's
// selection, or the configured default when the selection is unset.
func selectedTemplate(st state.State) templates.Kind {
	if st.SelectedTemplate.Valid() {
		return st.SelectedTemplate
	}
	return cfg.DefaultTemplate()
}
