// Package state holds the application state of a resume-editing session and
// the pure reducer that applies user actions to it.
package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// State is the whole application state. A nil Resume means no resume is
// selected.
type State struct {
	Resume           *types.Resume
	SelectedTemplate templates.Kind
}

// Initial returns the empty default state.
func Initial() State {
	return State{SelectedTemplate: templates.Default}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{Resume: s.Resume.Clone(), SelectedTemplate: s.SelectedTemplate}
}

// Action is a state transition requested by the user.
type Action interface {
	apply(s State, now time.Time) (State, error)
}

// Reducer applies actions using its clock for timestamps.
type Reducer struct {
	Now func() time.Time
}

func (r Reducer) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now()
}

// Reduce returns the state that results from applying a to s. s is never
// modified; on error the returned state is s itself.
func (r Reducer) Reduce(s State, a Action) (State, error) {
	if a == nil {
		return s, &Error{Op: "reduce", Message: "nil action"}
	}
	next, err := a.apply(s.Clone(), r.now())
	if err != nil {
		return s, err
	}
	return next, nil
}

// Reduce applies a to s using the wall clock.
func Reduce(s State, a Action) (State, error) {
	return Reducer{}.Reduce(s, a)
}

// ensureResume creates the resume a section form is submitted into.
func ensureResume(s *State, now time.Time) {
	if s.Resume == nil {
		s.Resume = types.NewResume(now)
		s.Resume.TemplateID = s.SelectedTemplate.String()
	}
}

// CreateResume starts a new empty resume, replacing any current one.
type CreateResume struct{}

func (CreateResume) apply(s State, now time.Time) (State, error) {
	s.Resume = nil
	ensureResume(&s, now)
	return s, nil
}

// SetResume replaces the whole resume. A nil Resume deselects it. A valid
// templateId on the incoming resume also selects that template.
type SetResume struct {
	Resume *types.Resume
}

func (a SetResume) apply(s State, now time.Time) (State, error) {
	if a.Resume == nil {
		s.Resume = nil
		return s, nil
	}
	r := a.Resume.Clone()
	r.Normalize()
	if err := validation.ValidateResume(r); err != nil {
		return s, err
	}
	if kind, ok := templates.Parse(r.TemplateID); ok {
		s.SelectedTemplate = kind
	}
	r.TemplateID = s.SelectedTemplate.String()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	s.Resume = r
	return s, nil
}

// SetPersonalInfo submits the personal information form.
type SetPersonalInfo struct {
	Info types.PersonalInfo
}

func (a SetPersonalInfo) apply(s State, now time.Time) (State, error) {
	info := a.Info.Normalized()
	if err := validation.ValidatePersonalInfo(info); err != nil {
		return s, err
	}
	ensureResume(&s, now)
	s.Resume.PersonalInfo = info
	s.Resume.UpdatedAt = now
	return s, nil
}

// SetExperience submits the experience form.
type SetExperience struct {
	Items []types.Experience
}

func (a SetExperience) apply(s State, now time.Time) (State, error) {
	items := section(&types.Resume{Experience: a.Items}).Experience
	if err := validation.ValidateExperience(items); err != nil {
		return s, err
	}
	ensureResume(&s, now)
	s.Resume.Experience = items
	s.Resume.UpdatedAt = now
	return s, nil
}

// SetEducation submits the education form.
type SetEducation struct {
	Items []types.Education
}

func (a SetEducation) apply(s State, now time.Time) (State, error) {
	items := section(&types.Resume{Education: a.Items}).Education
	if err := validation.ValidateEducation(items); err != nil {
		return s, err
	}
	ensureResume(&s, now)
	s.Resume.Education = items
	s.Resume.UpdatedAt = now
	return s, nil
}

// SetSkills submits the skills form.
type SetSkills struct {
	Items []types.Skill
}

func (a SetSkills) apply(s State, now time.Time) (State, error) {
	items := section(&types.Resume{Skills: a.Items}).Skills
	if err := validation.ValidateSkills(items); err != nil {
		return s, err
	}
	ensureResume(&s, now)
	s.Resume.Skills = items
	s.Resume.UpdatedAt = now
	return s, nil
}

// SetProjects submits the projects form.
type SetProjects struct {
	Items []types.Project
}

func (a SetProjects) apply(s State, now time.Time) (State, error) {
	items := section(&types.Resume{Projects: a.Items}).Projects
	if err := validation.ValidateProjects(items); err != nil {
		return s, err
	}
	ensureResume(&s, now)
	s.Resume.Projects = items
	s.Resume.UpdatedAt = now
	return s, nil
}

// SetExtras submits the certifications, languages and interests lists.
type SetExtras struct {
	Extras types.Extras
}

func (a SetExtras) apply(s State, now time.Time) (State, error) {
	ensureResume(&s, now)
	x := section(&types.Resume{
		Certifications: a.Extras.Certifications,
		Languages:      a.Extras.Languages,
		Interests:      a.Extras.Interests,
	})
	s.Resume.Certifications = x.Certifications
	s.Resume.Languages = x.Languages
	s.Resume.Interests = x.Interests
	s.Resume.UpdatedAt = now
	return s, nil
}

// SelectTemplate selects a template by identifier. Identifiers outside the
// enumerated set select templates.KindNone rather than failing.
type SelectTemplate struct {
	ID string
}

func (a SelectTemplate) apply(s State, now time.Time) (State, error) {
	kind, _ := templates.Parse(a.ID)
	s.SelectedTemplate = kind
	if s.Resume != nil && s.Resume.TemplateID != kind.String() {
		s.Resume.TemplateID = kind.String()
		s.Resume.UpdatedAt = now
	}
	return s, nil
}

// Reset returns to the empty default state.
type Reset struct{}

func (Reset) apply(State, time.Time) (State, error) {
	return Initial(), nil
}

// section deep-copies and normalizes a partial resume carrying one form's
// payload, so the state never aliases caller slices.
func section(r *types.Resume) *types.Resume {
	c := r.Clone()
	c.Normalize()
	return c
}

// Error represents a state transition or persistence failure.
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
