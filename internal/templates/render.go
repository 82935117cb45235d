package templates

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
	"golang.org/x/sync/errgroup"
)

// Placeholder messages.
const (
	SelectTemplateMessage = "Select a template"
	NoResumeMessage       = "No resume selected for preview"
)

//go:embed layouts/*.gohtml
var layoutFS embed.FS

var layouts = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join":    strings.Join,
	"section": func(name string, v *view) sectionCall { return sectionCall{Name: name, View: v} },
}).ParseFS(layoutFS, "layouts/*.gohtml"))

type sectionCall struct {
	Name string
	View *view
}

// renderFunc writes the HTML fragment of one variant.
type renderFunc func(w io.Writer, v *view) error

// layout returns a renderFunc executing the named layout with the given
// section order (used by the single-column layouts only).
func layout(name string, order ...string) renderFunc {
	return func(w io.Writer, v *view) error {
		v.Order = order
		return layouts.ExecuteTemplate(w, name, v)
	}
}

var renderers = map[Kind]renderFunc{
	DoubleColumn: layout("columns"),
	IvyLeague:    layout("single", "education", "experience", "projects", "skills", "extras"),
	Elegant:      layout("single", "experience", "education", "skills", "projects", "extras"),
	Contemporary: layout("columns"),
	Polished:     layout("single", "experience", "projects", "education", "skills", "extras"),
	Modern:       layout("single", "experience", "skills", "projects", "education", "extras"),
	Creative:     layout("columns"),
	Timeline:     layout("timeline"),
	Stylish:      layout("single", "skills", "experience", "projects", "education", "extras"),
	SingleColumn: layout("single", "experience", "education", "skills", "projects", "extras"),
}

// RenderError represents a failure executing a template
type RenderError struct {
	Kind  Kind
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error: template %q: %v", e.Kind, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Render writes the HTML fragment of r laid out by kind. A nil resume or a
// kind outside the enumerated set renders a placeholder instead.
func Render(w io.Writer, kind Kind, r *types.Resume) error {
	if r == nil {
		return renderPlaceholder(w, NoResumeMessage)
	}
	fn, ok := renderers[kind]
	if !ok {
		return renderPlaceholder(w, SelectTemplateMessage)
	}
	// Buffer so a failed execution never leaves half a document in w.
	var buf bytes.Buffer
	if err := fn(&buf, newView(kind, r)); err != nil {
		return &RenderError{Kind: kind, Cause: err}
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderID is Render for a raw template identifier.
func RenderID(w io.Writer, id string, r *types.Resume) error {
	kind, _ := Parse(id)
	return Render(w, kind, r)
}

// RenderString renders to a string.
func RenderString(kind Kind, r *types.Resume) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, kind, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderPlaceholder(w io.Writer, msg string) error {
	return layouts.ExecuteTemplate(w, "placeholder", msg)
}

// Page is one rendered gallery entry.
type Page struct {
	Kind Kind
	HTML string
}

// RenderGallery renders r with every template concurrently. Pages are
// returned in gallery order.
func RenderGallery(ctx context.Context, r *types.Resume) ([]Page, error) {
	kinds := All()
	pages := make([]Page, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			html, err := RenderString(kind, r)
			if err != nil {
				return err
			}
			pages[i] = Page{Kind: kind, HTML: html}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

type contact struct {
	Text string
	Href string
}

type experienceView struct {
	Position     string
	Company      string
	Location     string
	Dates        string
	Description  string
	Achievements []string
}

type educationView struct {
	Degree      string
	Field       string
	Institution string
	Dates       string
	GPA         string
	Description string
}

type skillView struct {
	Name       string
	Level      types.SkillLevel
	LevelClass string
}

type projectView struct {
	Name         string
	Link         string
	Dates        string
	Description  string
	Technologies []string
}

type extraView struct {
	Title string
	Class string
	Items []string
}

type timelineItem struct {
	Kind     string
	Start    string
	Dates    string
	Title    string
	Subtitle string
	Details  []string
}

// view is the data every layout is executed with.
type view struct {
	Variant    string
	Name       string
	Contacts   []contact
	Summary    string
	Experience []experienceView
	Education  []educationView
	Skills     []skillView
	Projects   []projectView
	Extras     []extraView
	Timeline   []timelineItem
	Order      []string
}

func newView(kind Kind, r *types.Resume) *view {
	p := r.PersonalInfo
	v := &view{
		Variant: kind.String(),
		Name:    p.FullName(),
		Summary: p.Summary,
	}

	if p.Email != "" {
		v.Contacts = append(v.Contacts, contact{Text: p.Email, Href: "mailto:" + p.Email})
	}
	for _, text := range []string{p.Phone, p.Location} {
		if text != "" {
			v.Contacts = append(v.Contacts, contact{Text: text})
		}
	}
	for _, link := range []string{p.Website, p.LinkedIn, p.GitHub} {
		if link == "" {
			continue
		}
		c := contact{Text: link}
		if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
			c.Href = link
		}
		v.Contacts = append(v.Contacts, c)
	}

	for _, e := range r.Experience {
		end := e.EndDate
		if e.Current {
			end = types.Present
		}
		ev := experienceView{
			Position:     e.Position,
			Company:      e.Company,
			Location:     e.Location,
			Dates:        DateRange(e.StartDate, end),
			Description:  e.Description,
			Achievements: e.Achievements,
		}
		v.Experience = append(v.Experience, ev)
		v.Timeline = append(v.Timeline, timelineItem{
			Kind: "experience", Start: e.StartDate, Dates: ev.Dates,
			Title: e.Position, Subtitle: e.Company, Details: e.Achievements,
		})
	}
	for _, e := range r.Education {
		ev := educationView{
			Degree:      e.Degree,
			Field:       e.Field,
			Institution: e.Institution,
			Dates:       DateRange(e.StartDate, e.EndDate),
			GPA:         e.GPA,
			Description: e.Description,
		}
		v.Education = append(v.Education, ev)
		v.Timeline = append(v.Timeline, timelineItem{
			Kind: "education", Start: e.StartDate, Dates: ev.Dates,
			Title: e.Degree, Subtitle: e.Institution,
		})
	}
	// Most recent first; undated entries keep their form order at the end.
	sort.SliceStable(v.Timeline, func(i, j int) bool {
		a, b := v.Timeline[i].Start, v.Timeline[j].Start
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a > b
	})

	for _, s := range r.Skills {
		level := s.Level
		if level == "" {
			level = types.SkillBeginner
		}
		v.Skills = append(v.Skills, skillView{Name: s.Name, Level: level, LevelClass: strings.ToLower(string(level))})
	}
	for _, pr := range r.Projects {
		v.Projects = append(v.Projects, projectView{
			Name:         pr.Name,
			Link:         pr.Link,
			Dates:        DateRange(pr.StartDate, pr.EndDate),
			Description:  pr.Description,
			Technologies: pr.Technologies,
		})
	}

	for _, x := range []extraView{
		{Title: "Certifications", Class: "certifications", Items: r.Certifications},
		{Title: "Languages", Class: "languages", Items: r.Languages},
		{Title: "Interests", Class: "interests", Items: r.Interests},
	} {
		if len(x.Items) > 0 {
			v.Extras = append(v.Extras, x)
		}
	}
	return v
}

// DateRange formats a start/end pair for display.
func DateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	case start == "":
		return end
	}
	return start + " - " + end
}
