package latexpreview

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Options control a conversion.
type Options struct {
	// Sanitize passes the output through a user-generated-content HTML
	// policy. Without it, text is injected into the output verbatim.
	Sanitize bool
}

// Diagnostic describes a construct removed by the catch-all rule.
type Diagnostic struct {
	Command string `json:"command"`
	// Offset is the byte offset of the construct in the text as seen by the
	// catch-all, after the structural rules have run.
	Offset  int    `json:"offset"`
	Snippet string `json:"snippet"`
	// DroppedText is the argument text removed along with the command.
	DroppedText string `json:"droppedText,omitempty"`
}

// Result is the output of ConvertWithDiagnostics.
type Result struct {
	HTML        string       `json:"html"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Convert converts latex to an HTML fragment. Unrecognized commands are
// dropped silently.
func Convert(latex string) string {
	return ConvertWithDiagnostics(latex, Options{}).HTML
}

// ConvertWithDiagnostics converts latex and reports every construct the
// catch-all rule dropped.
func ConvertWithDiagnostics(latex string, opts Options) Result {
	var diags []Diagnostic
	s := latex
	for _, r := range Rules {
		var locs [][]int
		before := s
		s, locs = r.apply(s)
		if r.CatchAll {
			for _, loc := range locs {
				diags = append(diags, diagnose(before, loc))
			}
		}
	}

	html := `<div class="` + ContainerClass + `">` + strings.TrimSpace(s) + `</div>`
	if opts.Sanitize {
		html = policy().Sanitize(html)
	}
	return Result{HTML: html, Diagnostics: diags}
}

// Diagnose lists the constructs Convert would drop from latex.
func Diagnose(latex string) []Diagnostic {
	return ConvertWithDiagnostics(latex, Options{}).Diagnostics
}

func diagnose(s string, loc []int) Diagnostic {
	match := s[loc[0]:loc[1]]
	cmd := match
	if i := strings.IndexAny(cmd, "[{"); i >= 0 {
		cmd = cmd[:i]
	}
	d := Diagnostic{Command: cmd, Offset: loc[0], Snippet: match}
	// Group 2 is the brace argument.
	if loc[4] >= 0 {
		d.DroppedText = strings.Trim(s[loc[4]:loc[5]], "{}")
	}
	return d
}

var (
	policyOnce sync.Once
	ugcPolicy  *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Globally()
		ugcPolicy = p
	})
	return ugcPolicy
}

// Heading is one entry of a converted document's outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Outline lists the h1-h3 headings of converted HTML in document order.
func Outline(html string) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var out []Heading
	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		level := int(goquery.NodeName(sel)[1] - '0')
		out = append(out, Heading{Level: level, Text: strings.TrimSpace(sel.Text())})
	})
	return out, nil
}
