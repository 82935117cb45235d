package rendering

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template delimiters. LaTeX uses braces too heavily for the default ones.
const (
	leftDelim  = "[["
	rightDelim = "]]"
)

// TemplateData is the escaped view of a resume passed to the document templates
type TemplateData struct {
	Name       string
	Contacts   []string
	Summary    string
	Experience []Entry
	Education  []Entry
	Skills     []string
	Projects   []Entry
	Lists      []List
}

// Entry is one dated block of a section.
type Entry struct {
	Heading  string
	Dates    string
	Detail   string
	Link     string
	LinkText string
	Bullets  []string
}

// List is a titled list of short items such as languages.
type List struct {
	Title string
	Items []string
}

// RenderLaTeX renders the LaTeX document of r from the built-in template.
// The output only uses the macros the live preview recognizes.
func RenderLaTeX(r *types.Resume) (string, error) {
	return RenderLaTeXWith(r, "")
}

// RenderLaTeXWith renders r with the template at templatePath, or with the
// built-in template when templatePath is empty.
func RenderLaTeXWith(r *types.Resume, templatePath string) (string, error) {
	if r == nil {
		return "", &RenderError{Document: "latex", Message: "no resume to render"}
	}
	var (
		tmpl *template.Template
		err  error
	)
	if templatePath == "" {
		tmpl, err = parseEmbedded("resume.tex.tmpl")
	} else {
		tmpl, err = parseTemplate(templatePath)
	}
	if err != nil {
		return "", err
	}
	return execute(tmpl, buildTemplateData(r, latexEscaper))
}

// RenderMarkdown renders the Markdown document of r.
func RenderMarkdown(r *types.Resume) (string, error) {
	if r == nil {
		return "", &RenderError{Document: "markdown", Message: "no resume to render"}
	}
	tmpl, err := parseEmbedded("resume.md.tmpl")
	if err != nil {
		return "", err
	}
	return execute(tmpl, buildTemplateData(r, markdownEscaper))
}

func execute(tmpl *template.Template, data *TemplateData) (string, error) {
	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{Template: tmpl.Name(), Message: "failed to execute template", Cause: err}
	}
	return result.String(), nil
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"mdlink": func(text, url string) string {
		return "[" + text + "](" + url + ")"
	},
}

func newTemplate(name string) *template.Template {
	return template.New(name).Delims(leftDelim, rightDelim).Funcs(funcs)
}

func parseEmbedded(name string) (*template.Template, error) {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "missing built-in template", Cause: err}
	}
	tmpl, err := newTemplate(name).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "failed to parse built-in template", Cause: err}
	}
	return tmpl, nil
}

// parseTemplate reads and parses a user-supplied LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		msg := "failed to read template file"
		if os.IsNotExist(err) {
			msg = "template file not found"
		}
		return nil, &TemplateError{Template: templatePath, Message: msg, Cause: err}
	}

	tmpl, err := newTemplate(templatePath).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Template: templatePath, Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

// escaper adapts text and link values to one output format.
type escaper struct {
	text func(string) string
	url  func(string) string
	link func(url, text string) string
}

var (
	latexEscaper = escaper{
		text: EscapeLaTeX,
		url:  escapeURL,
		link: func(url, text string) string { return `\href{` + url + `}{` + text + `}` },
	}
	markdownEscaper = escaper{
		text: EscapeMarkdown,
		url:  strings.NewReplacer("(", "%28", ")", "%29", " ", "%20").Replace,
		link: func(url, text string) string { return "[" + text + "](" + url + ")" },
	}
)

// buildTemplateData escapes every user-supplied value of r for the target format.
func buildTemplateData(r *types.Resume, esc escaper) *TemplateData {
	p := r.PersonalInfo
	data := &TemplateData{
		Name:    esc.text(p.FullName()),
		Summary: esc.text(p.Summary),
	}

	for _, c := range []string{p.Email, p.Phone, p.Location} {
		if c != "" {
			data.Contacts = append(data.Contacts, esc.text(c))
		}
	}
	for _, link := range []string{p.Website, p.LinkedIn, p.GitHub} {
		if link != "" {
			data.Contacts = append(data.Contacts, contactLink(link, esc))
		}
	}

	for _, e := range r.Experience {
		end := e.EndDate
		if e.Current {
			end = types.Present
		}
		data.Experience = append(data.Experience, Entry{
			Heading: esc.text(joinNonEmpty(", ", e.Position, e.Company)),
			Dates:   esc.text(templates.DateRange(e.StartDate, end)),
			Detail:  esc.text(e.Location),
			Bullets: escapeAll(esc, prepend(e.Description, e.Achievements)),
		})
	}
	for _, e := range r.Education {
		degree := e.Degree
		if e.Field != "" {
			degree += " in " + e.Field
		}
		var detail string
		if e.GPA != "" {
			detail = "GPA: " + e.GPA
		}
		data.Education = append(data.Education, Entry{
			Heading: esc.text(joinNonEmpty(", ", degree, e.Institution)),
			Dates:   esc.text(templates.DateRange(e.StartDate, e.EndDate)),
			Detail:  esc.text(detail),
			Bullets: escapeAll(esc, prepend(e.Description, nil)),
		})
	}
	for _, s := range r.Skills {
		level := s.Level
		if level == "" {
			level = types.SkillBeginner
		}
		data.Skills = append(data.Skills, esc.text(fmt.Sprintf("%s (%s)", s.Name, level)))
	}
	for _, pr := range r.Projects {
		data.Projects = append(data.Projects, Entry{
			Heading:  esc.text(pr.Name),
			Dates:    esc.text(templates.DateRange(pr.StartDate, pr.EndDate)),
			Detail:   esc.text(strings.Join(pr.Technologies, ", ")),
			Link:     esc.url(pr.Link),
			LinkText: esc.text(pr.Link),
			Bullets:  escapeAll(esc, prepend(pr.Description, nil)),
		})
	}

	for _, l := range []List{
		{Title: "Certifications", Items: r.Certifications},
		{Title: "Languages", Items: r.Languages},
		{Title: "Interests", Items: r.Interests},
	} {
		if len(l.Items) > 0 {
			data.Lists = append(data.Lists, List{Title: l.Title, Items: escapeAll(esc, l.Items)})
		}
	}
	return data
}

// contactLink renders a web address, as a link when it carries a scheme.
func contactLink(link string, esc escaper) string {
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return esc.text(link)
	}
	text := strings.TrimPrefix(strings.TrimPrefix(link, "https://"), "http://")
	return esc.link(esc.url(link), esc.text(text))
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func prepend(first string, rest []string) []string {
	if first == "" {
		return rest
	}
	return append([]string{first}, rest...)
}

func escapeAll(esc escaper, in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = esc.text(s)
	}
	return out
}
