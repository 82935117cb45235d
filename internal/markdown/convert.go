package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultMarkdown is the editor's starting document.
const DefaultMarkdown = "# My Resume\n\nThis is my resume in **Markdown**."

// highlightStyle is the chroma theme for fenced code blocks.
const highlightStyle = "github"

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CodeCSS}}</style>
<style>{{.CustomCSS}}</style>
</head>
<body>
<div id="preview" class="prose" style="{{.Inline}}">
{{.Body}}
</div>
</body>
</html>
`))

type pageData struct {
	Title     string
	CodeCSS   template.CSS
	CustomCSS template.CSS
	Inline    template.CSS
	Body      template.HTML
}

// Converter converts Markdown to a styled HTML document.
type Converter interface {
	ToHTML(ctx context.Context, content string, style Style) (string, error)
}

// GoldmarkConverter converts Markdown with goldmark.
type GoldmarkConverter struct {
	md      goldmark.Markdown
	codeCSS string
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	var css strings.Builder
	// WriteCSS only fails when the writer does.
	_ = chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&css, styles.Get(highlightStyle))

	return &GoldmarkConverter{md: md, codeCSS: css.String()}
}

// Fragment converts Markdown to an HTML fragment without the page shell.
func (c *GoldmarkConverter) Fragment(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// ToHTML converts Markdown to a standalone HTML document styled by style.
// Zero style fields take their defaults.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, style Style) (string, error) {
	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return "", err
	}

	body, err := c.Fragment(ctx, content)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	err = page.Execute(&out, pageData{
		Title:     title(content),
		CodeCSS:   template.CSS(c.codeCSS),
		CustomCSS: template.CSS(style.CustomCSS),
		Inline:    template.CSS(style.inline()),
		Body:      template.HTML(body),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return out.String(), nil
}

// title is the text of the first level-one heading, or "Resume".
func title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			if t := strings.TrimSpace(rest); t != "" {
				return t
			}
		}
	}
	return "Resume"
}
