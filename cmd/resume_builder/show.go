package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/state"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved resume",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved resume",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "summary", "Output format: summary, json or yaml")
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(clearCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(_ context.Context, s *state.Session) error {
		st := s.State()
		switch showFormat {
		case "summary":
			observability.NewPrinter(cmd.OutOrStdout()).PrintResume(st.Resume, st.SelectedTemplate)
			return nil
		case "json":
			data, err := json.MarshalIndent(st.Resume, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode resume: %w", err)
			}
			return writeOutput(cmd, "", append(data, '\n'))
		case "yaml":
			data, err := yaml.Marshal(st.Resume)
			if err != nil {
				return fmt.Errorf("failed to encode resume: %w", err)
			}
			return writeOutput(cmd, "", data)
		default:
			return fmt.Errorf("unknown format %q (use summary, json or yaml)", showFormat)
		}
	})
}

func runClear(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s *state.Session) error {
		if err := s.Clear(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared saved resume")
		return nil
	})
}
