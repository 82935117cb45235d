// Package markdown renders the Markdown resume editor's preview.
package markdown

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// PaperSize is a preview and export page format.
type PaperSize string

// Supported paper sizes.
const (
	A4     PaperSize = "A4"
	Letter PaperSize = "Letter"
)

// ParsePaperSize accepts a paper size name in any case.
func ParsePaperSize(s string) (PaperSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a4", "":
		return A4, nil
	case "letter":
		return Letter, nil
	}
	return "", &StyleError{Field: "paperSize", Message: fmt.Sprintf("unsupported paper size %q (use A4 or Letter)", s)}
}

// Margin is the preview margin for the paper size.
func (p PaperSize) Margin() string {
	if p == Letter {
		return "20mm"
	}
	return "10mm"
}

// Dimensions returns the page width and height in inches.
func (p PaperSize) Dimensions() (width, height float64) {
	if p == Letter {
		return 8.5, 11
	}
	return 8.27, 11.69
}

// FontFamilies lists the selectable preview fonts.
var FontFamilies = []string{"Arial", "Verdana", "Times New Roman", "Georgia"}

// DefaultCSS is the stylesheet the editor starts with.
const DefaultCSS = `body { font-family: Arial, sans-serif; } h1 { color: #333; } p { font-size: 16px; }`

// Style holds the preview styling options.
type Style struct {
	ThemeColor string    `json:"themeColor" yaml:"themeColor"`
	FontFamily string    `json:"fontFamily" yaml:"fontFamily"`
	FontSize   int       `json:"fontSize" yaml:"fontSize"`
	PaperSize  PaperSize `json:"paperSize" yaml:"paperSize"`
	CustomCSS  string    `json:"customCss,omitempty" yaml:"customCss,omitempty"`
}

// DefaultStyle returns the editor's initial styling.
func DefaultStyle() Style {
	return Style{
		ThemeColor: "#000000",
		FontFamily: "Arial",
		FontSize:   16,
		PaperSize:  A4,
		CustomCSS:  DefaultCSS,
	}
}

// WithDefaults fills zero fields from DefaultStyle. CustomCSS is kept as is.
func (s Style) WithDefaults() Style {
	d := DefaultStyle()
	if s.ThemeColor == "" {
		s.ThemeColor = d.ThemeColor
	}
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	if s.FontSize == 0 {
		s.FontSize = d.FontSize
	}
	if s.PaperSize == "" {
		s.PaperSize = d.PaperSize
	}
	return s
}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks every option against the values the editor offers.
func (s Style) Validate() error {
	if !colorPattern.MatchString(s.ThemeColor) {
		return &StyleError{Field: "themeColor", Message: fmt.Sprintf("%q is not a hex color", s.ThemeColor)}
	}
	if !slices.Contains(FontFamilies, s.FontFamily) {
		return &StyleError{Field: "fontFamily", Message: fmt.Sprintf("unsupported font %q (use one of %s)", s.FontFamily, strings.Join(FontFamilies, ", "))}
	}
	if s.FontSize < 6 || s.FontSize > 72 {
		return &StyleError{Field: "fontSize", Message: fmt.Sprintf("font size %d out of range 6-72", s.FontSize)}
	}
	if s.PaperSize != A4 && s.PaperSize != Letter {
		return &StyleError{Field: "paperSize", Message: fmt.Sprintf("unsupported paper size %q (use A4 or Letter)", s.PaperSize)}
	}
	if strings.Contains(strings.ToLower(s.CustomCSS), "</style") {
		return &StyleError{Field: "customCss", Message: "custom CSS must not close the style element"}
	}
	return nil
}

// inline is the style attribute of the preview container.
func (s Style) inline() string {
	return fmt.Sprintf("color: %s; font-family: %s; font-size: %dpx; margin: %s",
		s.ThemeColor, s.FontFamily, s.FontSize, s.PaperSize.Margin())
}

// StyleError reports an invalid styling option.
type StyleError struct {
	Field   string
	Message string
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("invalid style %s: %s", e.Field, e.Message)
}
