// Package latexpreview converts the LaTeX subset produced by the resume
// generator into an HTML fragment for live preview.
//
// The conversion is an ordered chain of regular-expression substitutions,
// not a parser. Only the commands listed in Rules are recognized; any other
// command is stripped, argument included, by the final catch-all rule.
package latexpreview

import (
	"regexp"
	"strings"
)

// Class names applied to generated elements.
const (
	ContainerClass = "max-w-4xl mx-auto p-8 leading-relaxed font-sans"
	headerClass    = "text-center mb-8"
	nameClass      = "text-3xl font-extrabold mb-4"
	sectionClass   = "text-xl font-bold mt-6 mb-3 border-b border-gray-300 pb-1"
	rowClass       = "flex justify-between items-center"
	listClass      = "list-disc pl-5 space-y-1 my-2"
	itemClass      = "mb-2"
	linkClass      = "text-blue-600 hover:underline"
)

// Rule is one substitution step.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// Replace is a template expanded with ${n} submatch references. Ignored
	// when Expand is set.
	Replace string
	// Expand builds the replacement from the submatches of one match.
	Expand func(groups []string) string
	// Once replaces only the first match.
	Once bool
	// CatchAll marks the generic strip rule. Its matches are reported as
	// dropped constructs.
	CatchAll bool
}

// Apply runs the rule over s.
func (r Rule) Apply(s string) string {
	out, _ := r.apply(s)
	return out
}

// apply runs the rule and returns the match locations it replaced.
func (r Rule) apply(s string) (string, [][]int) {
	limit := -1
	if r.Once {
		limit = 1
	}
	locs := r.Pattern.FindAllStringSubmatchIndex(s, limit)
	if len(locs) == 0 {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	last := 0
	for _, loc := range locs {
		sb.WriteString(s[last:loc[0]])
		if r.Expand != nil {
			sb.WriteString(r.Expand(groups(s, loc)))
		} else {
			sb.Write(r.Pattern.ExpandString(nil, r.Replace, s, loc))
		}
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String(), locs
}

func groups(s string, loc []int) []string {
	g := make([]string, len(loc)/2)
	for i := range g {
		if loc[2*i] >= 0 {
			g[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return g
}

func strip(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern)}
}

func stripOnce(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Once: true}
}

func replace(name, pattern, repl string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replace: repl}
}

func chain(s string, rules []Rule) string {
	for _, r := range rules {
		s = r.Apply(s)
	}
	return s
}

var hrefRule = replace("href", `\\href\{([^}]+)\}\{([^}]+)\}`, `<a href="${1}" class="`+linkClass+`">${2}</a>`)

// headerRules rewrite the inside of the center environment. The name rule
// accepts the spacing argument after either \\ or a lone backslash.
var headerRules = []Rule{
	replace("name", `\{\\LARGE\s+([^}]+)\}\s*\\\\?\[1em\]`, `<h1 class="`+nameClass+`">${1}</h1>`),
	hrefRule,
	replace("line-break", `\\\\`, `<br>`),
	replace("separator", `\|`, ` | `),
}

var itemRule = replace("resume-item", `\\resumeItem\{([^}]+)\}`, `<li class="`+itemClass+`">${1}</li>`)

// Rules is the substitution chain in application order: preamble removal,
// then structural environments and macros, then inline formatting, then the
// catch-all strip and whitespace cleanup. Structural rules must precede the
// catch-all, which would otherwise erase them.
var Rules = []Rule{
	strip("documentclass", `(?m)\\documentclass.*$`),
	strip("usepackage", `(?m)\\usepackage.*$`),
	strip("titleformat", `(?m)\\titleformat.*$`),
	strip("newcommand", `(?m)\\newcommand.*$`),
	stripOnce("begin-document", `\\begin\{document\}`),
	stripOnce("end-document", `\\end\{document\}`),
	stripOnce("pagestyle", `\\pagestyle\{empty\}`),
	strip("comment", `%.*`),

	{
		Name:    "center",
		Pattern: regexp.MustCompile(`\\begin\{center\}([\s\S]*?)\\end\{center\}`),
		Expand: func(g []string) string {
			return `<div class="` + headerClass + `">` + chain(g[1], headerRules) + `</div>`
		},
	},
	replace("resume-section", `\\resumeSection\{([^}]+)\}`, `<h2 class="`+sectionClass+`">${1}</h2>`),
	replace("heading-row", `\\textbf\{([^}]+)\}\s*\\hfill\s*([^\\]+)`,
		`<div class="`+rowClass+`"><strong>${1}</strong><span>${2}</span></div>`),
	{
		Name:    "itemize",
		Pattern: regexp.MustCompile(`\\begin\{itemize\}\[leftmargin=\*\]([\s\S]*?)\\end\{itemize\}`),
		Expand: func(g []string) string {
			return `<ul class="` + listClass + `">` + strings.TrimSpace(itemRule.Apply(g[1])) + `</ul>`
		},
	},

	replace("bold", `\\textbf\{([^}]+)\}`, `<strong>${1}</strong>`),
	replace("italic", `\\textit\{([^}]+)\}`, `<em>${1}</em>`),
	strip("noindent", `\\noindent`),
	strip("vspace", `\\vspace\{[^}]+\}`),
	strip("hrule", `\\hrule`),
	replace("line-break", `\\\\`, `<br>`),
	hrefRule,

	{Name: "strip-commands", Pattern: regexp.MustCompile(`\\[a-zA-Z]+(\[[^\]]*\])?(\{[^}]*\})?`), CatchAll: true},
	replace("paragraphs", `\n\s*\n`, `<br>`),
	replace("whitespace", `\s+`, ` `),
}
