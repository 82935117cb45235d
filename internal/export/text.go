package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector matches elements that start a new line in plain text.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, div, section, header, aside, main, article, ol, ul, br"

// PlainText strips markup from a rendered resume, keeping one line per
// block element.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &Error{Format: FormatText, Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("span").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml(" ")
	})
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return cleanWhitespace(doc.Text()), nil
}

// cleanWhitespace collapses runs of spaces and drops empty lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
