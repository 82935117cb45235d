package rendering

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-builder/internal/latexpreview"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *types.Resume {
	return &types.Resume{
		PersonalInfo: types.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "555-010-0199",
			Website:   "https://ada.dev",
			Summary:   "Analyst and programmer",
		},
		Experience: []types.Experience{{
			Company: "Analytical Engines", Position: "Programmer", Location: "London",
			StartDate: "2019-01", Current: true, Achievements: []string{"Wrote the first program"},
		}},
		Education: []types.Education{{Institution: "University of London", Degree: "BSc", Field: "Mathematics", StartDate: "2011-09", EndDate: "2015-06", GPA: "3.9"}},
		Skills:    []types.Skill{{Name: "Go", Level: types.SkillExpert}, {Name: "SQL"}},
		Projects:  []types.Project{{Name: "Notes", Link: "https://example.com/notes", Technologies: []string{"Go", "HTML"}, Description: "Annotated translation"}},
		Languages: []string{"English", "French"},
	}
}

func TestRenderLaTeX_Structure(t *testing.T) {
	out, err := RenderLaTeX(sampleResume())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `\documentclass`))
	assert.Contains(t, out, `{\LARGE Ada Lovelace}\\[1em]`)
	assert.Contains(t, out, `ada@example.com | 555-010-0199 | \href{https://ada.dev}{ada.dev}`)
	assert.Contains(t, out, `\resumeSection{Experience}`)
	assert.Contains(t, out, `\textbf{Programmer, Analytical Engines} \hfill 2019-01 - Present\\`)
	assert.Contains(t, out, `\resumeItem{Wrote the first program}`)
	assert.Contains(t, out, `\textbf{BSc in Mathematics, University of London} \hfill 2011-09 - 2015-06\\`)
	assert.Contains(t, out, `\textit{GPA: 3.9}\\`)
	assert.Contains(t, out, `\resumeItem{SQL (Beginner)}`)
	assert.Contains(t, out, `\href{https://example.com/notes}{https://example.com/notes}\\`)
	assert.Contains(t, out, "\\resumeSection{Languages}\nEnglish, French")
	assert.True(t, strings.HasSuffix(out, "\\end{document}\n"))
}

func TestRenderLaTeX_EscapesSpecialCharacters(t *testing.T) {
	r := sampleResume()
	r.PersonalInfo.Summary = "Cut costs 50% & saved $1M"
	r.Experience[0].Company = "R_D #1"

	out, err := RenderLaTeX(r)
	require.NoError(t, err)
	assert.Contains(t, out, `Cut costs 50\% \& saved \$1M`)
	assert.Contains(t, out, `R\_D \#1`)
}

func TestRenderLaTeX_PreviewRecognizesEveryMacro(t *testing.T) {
	out, err := RenderLaTeX(sampleResume())
	require.NoError(t, err)

	assert.Empty(t, latexpreview.Diagnose(out), "generated documents convert without dropped commands")

	html := latexpreview.Convert(out)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", doc.Find("h1").Text())
	var sections []string
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) { sections = append(sections, s.Text()) })
	assert.Equal(t, []string{"Summary", "Experience", "Education", "Skills", "Projects", "Languages"}, sections)
	assert.Equal(t, "Programmer, Analytical Engines", doc.Find("div.flex strong").First().Text())
	assert.Equal(t, 4, doc.Find("li").Length())
}

func TestRenderLaTeX_OmitsEmptySections(t *testing.T) {
	r := &types.Resume{PersonalInfo: types.PersonalInfo{FirstName: "Ada"}}
	out, err := RenderLaTeX(r)
	require.NoError(t, err)

	_, body, ok := strings.Cut(out, `\begin{document}`)
	require.True(t, ok)
	assert.NotContains(t, body, `\resumeSection`)
	assert.NotContains(t, body, `\begin{itemize}`)
}

func TestRenderLaTeXWith_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tex")
	require.NoError(t, os.WriteFile(path, []byte(`\name{[[.Name]]} [[len .Skills]]`), 0o600))

	out, err := RenderLaTeXWith(sampleResume(), path)
	require.NoError(t, err)
	assert.Equal(t, `\name{Ada Lovelace} 2`, out)
}

func TestRenderLaTeXWith_Errors(t *testing.T) {
	_, err := RenderLaTeXWith(sampleResume(), filepath.Join(t.TempDir(), "missing.tex"))
	var tErr *TemplateError
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, err.Error(), "template file not found")

	bad := filepath.Join(t.TempDir(), "bad.tex")
	require.NoError(t, os.WriteFile(bad, []byte(`[[.Name`), 0o600))
	_, err = RenderLaTeXWith(sampleResume(), bad)
	require.ErrorAs(t, err, &tErr)

	broken := filepath.Join(t.TempDir(), "broken.tex")
	require.NoError(t, os.WriteFile(broken, []byte(`[[.Nope]]`), 0o600))
	_, err = RenderLaTeXWith(sampleResume(), broken)
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, err.Error(), "failed to execute template")

	_, err = RenderLaTeX(nil)
	var rErr *RenderError
	assert.ErrorAs(t, err, &rErr)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown(sampleResume())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Ada Lovelace\n\nada@example.com | 555-010-0199 | [ada.dev](https://ada.dev)\n"))
	assert.Contains(t, out, "\n## Experience\n\n### Programmer, Analytical Engines\n\n*2019-01 - Present* · London\n\n- Wrote the first program\n")
	assert.Contains(t, out, "### BSc in Mathematics, University of London")
	assert.Contains(t, out, "- Go (Expert)\n- SQL (Beginner)")
	assert.Contains(t, out, "### [Notes](https://example.com/notes)")
	assert.Contains(t, out, "\nGo, HTML\n\n- Annotated translation")
	assert.True(t, strings.HasSuffix(out, "## Languages\n\nEnglish, French\n"))
}

func TestRenderMarkdown_Escapes(t *testing.T) {
	r := sampleResume()
	r.Skills = []types.Skill{{Name: "C#", Level: types.SkillAdvanced}}
	r.Experience[0].Achievements = []string{"*Shipped* the_thing"}

	out, err := RenderMarkdown(r)
	require.NoError(t, err)
	assert.Contains(t, out, `- C\# (Advanced)`)
	assert.Contains(t, out, `- \*Shipped\* the\_thing`)

	_, err = RenderMarkdown(nil)
	assert.Error(t, err)
}
