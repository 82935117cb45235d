package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a resume document without saving it",
	Long: `Checks a JSON or YAML resume document against the resume schema and the
form rules, and prints every failing field.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "-", "Path to the resume document (- for stdin)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd, validateInput)
	if err != nil {
		return err
	}

	if err := schemas.ValidateResumeJSON(data); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			for _, fe := range schemaErr.Errors {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return err
	}

	var r types.Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("failed to decode resume: %w", err)
	}
	if err := validation.ValidateResume(&r); err != nil {
		return reportFormError(cmd, err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Resume is valid")
	return nil
}
