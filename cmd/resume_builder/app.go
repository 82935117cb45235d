package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/validation"
)

// openSession opens the configured store and loads the saved resume into a
// new session. The caller must close the returned store. Only a store that
// cannot be opened is an error.
func openSession(cmd *cobra.Command) (*state.Session, storage.Store, error) {
	ctx := cmd.Context()
	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Driver, err)
	}
	logger.Debug("store opened", zap.String("driver", cfg.Storage.Driver))

	session := state.NewSession(store,
		state.WithLogger(logger),
		state.WithNotifier(stderrNotifier(cmd.ErrOrStderr())),
	)
	// A record that cannot be read has already been reported through the
	// notifier. The session keeps its empty default state so the record can
	// still be replaced or cleared.
	if _, err := session.Load(ctx); err != nil {
		logger.Warn("continuing without saved resume", zap.Error(err))
	}
	return session, store, nil
}

// withSession runs fn against the loaded session and closes the store.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *state.Session) error) error {
	session, store, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()
	return fn(cmd.Context(), session)
}

func stderrNotifier(w io.Writer) state.Notifier {
	return state.NotifierFunc(func(level state.Level, message string) {
		if level == state.LevelError {
			_, _ = fmt.Fprintln(w, "✗ "+message)
			return
		}
		_, _ = fmt.Fprintln(w, "✓ "+message)
	})
}

// readInput reads a JSON or YAML document from path, or stdin for "-",
// and returns it as JSON.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if isJSON(path, data) {
		return data, nil
	}
	converted, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML input: %w", err)
	}
	return converted, nil
}

func isJSON(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// writeOutput writes data to path, or stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", path)
	return nil
}

// reportFormError prints inline field errors and returns err unchanged.
func reportFormError(cmd *cobra.Command, err error) error {
	var formErr *validation.FormError
	if errors.As(err, &formErr) {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintFieldErrors(formErr)
	}
	return err
}
