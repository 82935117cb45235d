package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/markdown"
)

var (
	markdownInput      string
	markdownOutput     string
	markdownThemeColor string
	markdownFontFamily string
	markdownFontSize   int
	markdownPaperSize  string
	markdownCSSFile    string
)

var markdownCmd = &cobra.Command{
	Use:   "markdown",
	Short: "Render a Markdown resume as a styled HTML page",
	Long: `Converts a Markdown document to a standalone HTML page. Style flags override
the style section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runMarkdown,
}

func init() {
	markdownCmd.Flags().StringVarP(&markdownInput, "in", "i", "-", "Path to the Markdown document (- for stdin)")
	markdownCmd.Flags().StringVarP(&markdownOutput, "out", "o", "", "Output HTML file (default stdout)")
	markdownCmd.Flags().StringVar(&markdownThemeColor, "theme-color", "", "Text color, e.g. #333333")
	markdownCmd.Flags().StringVar(&markdownFontFamily, "font-family", "", "Body font family")
	markdownCmd.Flags().IntVar(&markdownFontSize, "font-size", 0, "Body font size in pixels")
	markdownCmd.Flags().StringVar(&markdownPaperSize, "paper-size", "", "Paper size: A4 or Letter")
	markdownCmd.Flags().StringVar(&markdownCSSFile, "css", "", "Path to a stylesheet replacing the default CSS")
	rootCmd.AddCommand(markdownCmd)
}

func runMarkdown(cmd *cobra.Command, _ []string) error {
	var (
		src []byte
		err error
	)
	if markdownInput == "" || markdownInput == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		src, err = os.ReadFile(markdownInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read Markdown: %w", err)
	}

	style, err := markdownStyle()
	if err != nil {
		return err
	}

	out, err := markdown.NewGoldmarkConverter().ToHTML(cmd.Context(), string(src), style)
	if err != nil {
		return err
	}
	return writeOutput(cmd, markdownOutput, []byte(out))
}

// markdownStyle applies the style flags over the configured style.
func markdownStyle() (markdown.Style, error) {
	style := cfg.MarkdownStyle()
	if markdownThemeColor != "" {
		style.ThemeColor = markdownThemeColor
	}
	if markdownFontFamily != "" {
		style.FontFamily = markdownFontFamily
	}
	if markdownFontSize != 0 {
		style.FontSize = markdownFontSize
	}
	if markdownPaperSize != "" {
		p, err := markdown.ParsePaperSize(markdownPaperSize)
		if err != nil {
			return style, err
		}
		style.PaperSize = p
	}
	if markdownCSSFile != "" {
		css, err := os.ReadFile(markdownCSSFile)
		if err != nil {
			return style, fmt.Errorf("failed to read stylesheet: %w", err)
		}
		style.CustomCSS = string(css)
	}
	return style, style.Validate()
}
