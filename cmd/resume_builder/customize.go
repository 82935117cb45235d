package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/latexpreview"
	"github.com/jonathan/resume-builder/internal/observability"
)

var (
	customizeInput       string
	customizeOutput      string
	customizeSanitize    bool
	customizeDiagnostics bool
	customizeOutline     bool
)

var customizeCmd = &cobra.Command{
	Use:   "customize",
	Short: "Preview a LaTeX resume as HTML",
	Long: `Converts the resume subset of LaTeX to an HTML fragment. Commands the
converter does not recognize are dropped; --diagnostics lists them.`,
	Args: cobra.NoArgs,
	RunE: runCustomize,
}

func init() {
	customizeCmd.Flags().StringVarP(&customizeInput, "in", "i", "-", "Path to the LaTeX source (- for stdin)")
	customizeCmd.Flags().StringVarP(&customizeOutput, "out", "o", "", "Output HTML file (default stdout)")
	customizeCmd.Flags().BoolVar(&customizeSanitize, "sanitize", false, "Sanitize the generated HTML")
	customizeCmd.Flags().BoolVar(&customizeDiagnostics, "diagnostics", false, "Report dropped commands on stderr")
	customizeCmd.Flags().BoolVar(&customizeOutline, "outline", false, "Print the section outline on stderr")
	rootCmd.AddCommand(customizeCmd)
}

func runCustomize(cmd *cobra.Command, _ []string) error {
	var (
		src []byte
		err error
	)
	if customizeInput == "" || customizeInput == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		src, err = os.ReadFile(customizeInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read LaTeX source: %w", err)
	}

	result := latexpreview.ConvertWithDiagnostics(string(src), latexpreview.Options{Sanitize: customizeSanitize})

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if customizeDiagnostics {
		printer.PrintDiagnostics(result.Diagnostics)
	}
	if customizeOutline {
		headings, err := latexpreview.Outline(result.HTML)
		if err != nil {
			return fmt.Errorf("failed to read outline: %w", err)
		}
		printer.PrintOutline(headings)
	}

	return writeOutput(cmd, customizeOutput, []byte(result.HTML+"\n"))
}
