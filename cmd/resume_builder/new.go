package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/state"
)

var newForce bool

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new empty resume",
	Long:  "Creates an empty resume with a fresh id and timestamps and saves it, replacing nothing unless --force is given.",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "Replace the saved resume")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s *state.Session) error {
		if s.State().Resume != nil && !newForce {
			return fmt.Errorf("a resume is already saved; use --force to replace it")
		}
		st, err := s.Dispatch(state.CreateResume{})
		if err != nil {
			return err
		}
		if err := s.Save(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created resume %s\n", st.Resume.ID)
		return nil
	})
}
