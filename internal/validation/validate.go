// Package validation provides field-level validation of resume form submissions.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/types"
)

// Section names used as field path prefixes.
const (
	SectionPersonal   = "personalInfo"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
)

// Accepted date layouts for start/end fields.
var dateLayouts = []string{"2006-01-02", "2006-01"}

var (
	once     sync.Once
	instance *validator.Validate
)

// validate returns the shared validator with the resume rules registered.
func validate() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "notblank", validateNotBlank)
		mustRegister(v, "date_or_present", validateDateOrPresent)
		mustRegister(v, "skill_level", validateSkillLevel)
		v.RegisterStructValidation(experienceStructValidation, types.Experience{})
		v.RegisterStructValidation(educationStructValidation, types.Education{})
		v.RegisterStructValidation(projectStructValidation, types.Project{})
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateDateOrPresent(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" || strings.EqualFold(value, types.Present) {
		return true
	}
	_, ok := ParseDate(value)
	return ok
}

func validateSkillLevel(fl validator.FieldLevel) bool {
	level := types.SkillLevel(fl.Field().String())
	for _, l := range types.SkillLevels {
		if level == l {
			return true
		}
	}
	return false
}

// ParseDate parses a form date in any accepted layout.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// endBeforeStart reports a closed range whose end precedes its start.
// Open or unparseable ranges are left to the field rules.
func endBeforeStart(start, end string) bool {
	if end == "" || strings.EqualFold(end, types.Present) {
		return false
	}
	s, okStart := ParseDate(start)
	e, okEnd := ParseDate(end)
	if !okStart || !okEnd {
		return false
	}
	return e.Before(s)
}

func experienceStructValidation(sl validator.StructLevel) {
	e := sl.Current().Interface().(types.Experience)
	if endBeforeStart(e.StartDate, e.EndDate) {
		sl.ReportError(e.EndDate, "endDate", "EndDate", "end_after_start", "")
	}
}

func educationStructValidation(sl validator.StructLevel) {
	e := sl.Current().Interface().(types.Education)
	if endBeforeStart(e.StartDate, e.EndDate) {
		sl.ReportError(e.EndDate, "endDate", "EndDate", "end_after_start", "")
	}
}

func projectStructValidation(sl validator.StructLevel) {
	p := sl.Current().Interface().(types.Project)
	if endBeforeStart(p.StartDate, p.EndDate) {
		sl.ReportError(p.EndDate, "endDate", "EndDate", "end_after_start", "")
	}
}

// ValidateResume validates every section of a resume.
func ValidateResume(r *types.Resume) error {
	if r == nil {
		return &Error{Message: "resume is nil"}
	}
	return collect("", "", validate().Struct(r))
}

// ValidatePersonalInfo validates the personal information form.
func ValidatePersonalInfo(p types.PersonalInfo) error {
	return collect(SectionPersonal, SectionPersonal, validate().Struct(p))
}

// ValidateExperience validates the experience form.
func ValidateExperience(items []types.Experience) error {
	return validateList(SectionExperience, items)
}

// ValidateEducation validates the education form.
func ValidateEducation(items []types.Education) error {
	return validateList(SectionEducation, items)
}

// ValidateSkills validates the skills form.
func ValidateSkills(items []types.Skill) error {
	return validateList(SectionSkills, items)
}

// ValidateProjects validates the projects form.
func ValidateProjects(items []types.Project) error {
	return validateList(SectionProjects, items)
}

func validateList[T any](section string, items []T) error {
	form := &FormError{Section: section}
	for i := range items {
		err := collect(section, fmt.Sprintf("%s[%d]", section, i), validate().Struct(items[i]))
		var fe *FormError
		if errors.As(err, &fe) {
			form.Fields = append(form.Fields, fe.Fields...)
		} else if err != nil {
			return err
		}
	}
	if len(form.Fields) == 0 {
		return nil
	}
	return form
}

// collect converts validator errors into a FormError whose field paths
// start at prefix.
func collect(section, prefix string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Message: "unable to validate form", Cause: err}
	}

	form := &FormError{Section: section}
	for _, fe := range verrs {
		path := fieldPath(prefix, fe.Namespace())
		form.Fields = append(form.Fields, FieldError{
			Field:   path,
			Rule:    fe.Tag(),
			Message: message(path, fe),
		})
	}
	return form
}

// fieldPath drops the root type name from a validator namespace and
// prepends prefix.
func fieldPath(prefix, namespace string) string {
	rest := namespace
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		rest = namespace[i+1:]
	}
	if prefix == "" {
		return rest
	}
	return prefix + "." + rest
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

var labels = map[string]string{
	"personalInfo.firstName": "First name",
	"personalInfo.lastName":  "Last name",
	"personalInfo.email":     "Email",
	"personalInfo.phone":     "Phone number",
	"personalInfo.website":   "Website",
	"experience.company":     "Company name",
	"experience.position":    "Position",
	"education.institution":  "Institution",
	"education.degree":       "Degree",
	"skills.name":            "Skill name",
	"skills.level":           "Skill level",
	"projects.name":          "Project name",
	"projects.link":          "Project link",
	"experience.startDate":   "Start date",
	"experience.endDate":     "End date",
	"education.startDate":    "Start date",
	"education.endDate":      "End date",
	"projects.startDate":     "Start date",
	"projects.endDate":       "End date",
}

func label(path string) string {
	key := indexPattern.ReplaceAllString(path, "")
	if l, ok := labels[key]; ok {
		return l
	}
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	return key
}

func message(path string, fe validator.FieldError) string {
	name := label(path)
	switch fe.Tag() {
	case "notblank", "required":
		return name + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if strings.HasSuffix(path, "phone") {
			return fmt.Sprintf("%s must be at least %s digits", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "url":
		return "Must be a valid URL"
	case "date_or_present":
		return name + " must be a date (YYYY-MM-DD) or Present"
	case "skill_level":
		return "Skill level must be one of Beginner, Intermediate, Advanced, Expert"
	case "end_after_start":
		return "End date must not be before start date"
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}
