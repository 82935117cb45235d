package latexpreview

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestConvert_SectionAndBoldSample(t *testing.T) {
	sample := `\documentclass[11pt]{article}
\usepackage{geometry}
\begin{document}
\pagestyle{empty}
\noindent
\resumeSection{Experience}
\vspace{4pt}
\textbf{Staff Engineer}
\hrule
\end{document}`

	html := Convert(sample)
	doc := parse(t, html)

	h2 := doc.Find("h2")
	require.Equal(t, 1, h2.Length())
	assert.Equal(t, "Experience", h2.Text())

	strong := doc.Find("strong")
	require.Equal(t, 1, strong.Length())
	assert.Equal(t, "Staff Engineer", strong.Text())

	assert.NotContains(t, html, `\`, "no LaTeX syntax survives")
	assert.NotContains(t, html, "geometry")
	assert.Empty(t, Diagnose(sample), "every command in the sample is recognized")
}

func TestConvert_Header(t *testing.T) {
	in := `\begin{center}
{\LARGE Ada Lovelace}\\[1em]
ada@example.com | \href{https://ada.dev}{ada.dev} \\
London
\end{center}`

	doc := parse(t, Convert(in))
	header := doc.Find("div.text-center")
	require.Equal(t, 1, header.Length())
	assert.Equal(t, "Ada Lovelace", header.Find("h1").Text())

	link := header.Find("a")
	require.Equal(t, 1, link.Length())
	href, _ := link.Attr("href")
	assert.Equal(t, "https://ada.dev", href)
	assert.Equal(t, "ada.dev", link.Text())
	assert.Equal(t, 1, header.Find("br").Length())
	assert.Contains(t, header.Text(), "ada@example.com | ada.dev")
}

func TestConvert_HeadingRowAndItemize(t *testing.T) {
	in := `\textbf{Engineer, Acme} \hfill 2020-01 - Present\\
\begin{itemize}[leftmargin=*]
  \resumeItem{Cut build time in half}
  \resumeItem{Mentored four engineers}
\end{itemize}`

	doc := parse(t, Convert(in))

	row := doc.Find("div.flex")
	require.Equal(t, 1, row.Length())
	assert.Equal(t, "Engineer, Acme", row.Find("strong").Text())
	assert.Equal(t, "2020-01 - Present", row.Find("span").Text())

	items := doc.Find("ul > li")
	require.Equal(t, 2, items.Length())
	assert.Equal(t, "Cut build time in half", items.Eq(0).Text())
}

func TestConvert_InlineFormatting(t *testing.T) {
	html := Convert(`\textit{Remote} and \href{https://example.com}{site}\\next`)
	doc := parse(t, html)
	assert.Equal(t, "Remote", doc.Find("em").Text())
	assert.Equal(t, "site", doc.Find("a").Text())
	assert.Equal(t, 1, doc.Find("br").Length())
}

func TestConvert_CommentsAndWhitespace(t *testing.T) {
	html := Convert("first % hidden\n\n\nsecond   third")
	assert.NotContains(t, html, "hidden")
	assert.Contains(t, html, "first <br>second third")
}

func TestConvert_WrapsInContainer(t *testing.T) {
	html := Convert("")
	assert.Equal(t, `<div class="`+ContainerClass+`"></div>`, html)
}

func TestRules_StructuralBeforeCatchAll(t *testing.T) {
	catchAll := -1
	for i, r := range Rules {
		if r.CatchAll {
			require.Equal(t, -1, catchAll, "exactly one catch-all rule")
			catchAll = i
		}
	}
	require.NotEqual(t, -1, catchAll)

	after := map[string]bool{"paragraphs": true, "whitespace": true}
	for i, r := range Rules {
		if i > catchAll {
			assert.True(t, after[r.Name], "only whitespace cleanup may follow the catch-all, found %q", r.Name)
		}
	}

	// Every recognized macro would be erased if the catch-all ran first.
	for _, in := range []string{`\resumeSection{X}`, `\textbf{X}`, `\textit{X}`, `\resumeItem{X}`} {
		stripped := Rules[catchAll].Apply(in)
		assert.NotContains(t, stripped, "X", in)
	}
}

func TestConvert_DiagnosesDroppedCommands(t *testing.T) {
	res := ConvertWithDiagnostics(`\section{Skills} Go \emph{fast} \today`, Options{})

	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, `\section`, res.Diagnostics[0].Command)
	assert.Equal(t, "Skills", res.Diagnostics[0].DroppedText)
	assert.Equal(t, `\section{Skills}`, res.Diagnostics[0].Snippet)
	assert.Equal(t, "fast", res.Diagnostics[1].DroppedText)
	assert.Equal(t, `\today`, res.Diagnostics[2].Command)
	assert.Empty(t, res.Diagnostics[2].DroppedText)

	assert.NotContains(t, res.HTML, "Skills", "dropping stays silent in the output")
	assert.Equal(t, res.HTML, Convert(`\section{Skills} Go \emph{fast} \today`))
}

func TestConvert_OnlyFirstDocumentMarkerIsStripped(t *testing.T) {
	diags := Diagnose(`\begin{document} a \begin{document} b`)
	require.Len(t, diags, 1)
	assert.Equal(t, `\begin`, diags[0].Command)
}

func TestConvert_UnknownMarkupPassesThrough(t *testing.T) {
	in := `<section data-x="1"><custom-tag>kept</custom-tag></section>`

	first := Convert(in)
	assert.Contains(t, first, in)

	second := Convert(first)
	assert.Contains(t, second, first, "a second pass leaves converted HTML unchanged")
}

func TestConvert_Sanitize(t *testing.T) {
	in := `\resumeSection{Skills}\textbf{<script>alert(1)</script>Go}`

	raw := Convert(in)
	assert.Contains(t, raw, "<script>", "output is injected verbatim by default")

	safe := ConvertWithDiagnostics(in, Options{Sanitize: true}).HTML
	assert.NotContains(t, safe, "<script>")
	assert.Contains(t, safe, "<strong>Go</strong>")
	assert.Contains(t, safe, `class="`+sectionClass+`"`)
}

func TestOutline(t *testing.T) {
	html := Convert(`\begin{center}{\LARGE Ada}\\[1em]\end{center}\resumeSection{Experience}\resumeSection{Education}`)

	outline, err := Outline(html)
	require.NoError(t, err)
	assert.Equal(t, []Heading{
		{Level: 1, Text: "Ada"},
		{Level: 2, Text: "Experience"},
		{Level: 2, Text: "Education"},
	}, outline)
}
