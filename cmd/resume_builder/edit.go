package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/state"
)

var editInput string

var editCmd = &cobra.Command{
	Use:   "edit <form>",
	Short: "Submit one form of the resume",
	Long: `Submits a form from a JSON or YAML document and saves the result.

Forms: ` + strings.Join(state.Forms, ", ") + `.
List forms (experience, education, skills, projects) take a list; the others
take an object. A rejected form prints its field errors and changes nothing.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: state.Forms,
	RunE:      runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editInput, "in", "i", "-", "Path to the form document (- for stdin)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, editInput)
	if err != nil {
		return err
	}
	action, err := state.DecodeSection(args[0], data)
	if err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, s *state.Session) error {
		st, err := s.Dispatch(action)
		if err != nil {
			return reportFormError(cmd, err)
		}
		if err := s.Save(ctx); err != nil {
			return err
		}
		if cfg.Verbose {
			observability.NewPrinter(cmd.OutOrStdout()).PrintResume(st.Resume, st.SelectedTemplate)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
		return nil
	})
}
