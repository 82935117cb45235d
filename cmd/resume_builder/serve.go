package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/state"
)

var (
	serveAddr string
	servePDF  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local preview server",
	Long: `Serves the editing session over HTTP: form submissions, template previews,
the LaTeX and Markdown editors and downloads. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&servePDF, "pdf", true, "Enable PDF downloads through a local Chrome")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	return withSession(cmd, func(ctx context.Context, s *state.Session) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		if !s.State().SelectedTemplate.Valid() {
			_, _ = s.Dispatch(state.SelectTemplate{ID: cfg.DefaultTemplate().String()})
		}

		serverCfg := server.Config{
			Addr:           addr,
			RateLimit:      cfg.Server.RateLimit,
			RateBurst:      cfg.Server.RateBurst,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Style:          cfg.MarkdownStyle(),
			LaTeXTemplate:  cfg.LaTeXTemplate,
		}
		if servePDF {
			serverCfg.Printer = export.NewChrome(cfg.PDFTimeout())
		}

		srv := server.New(s, serverCfg, logger)
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s\n", addr)
		return srv.Run(ctx)
	})
}
