// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// SkillLevel is the self-assessed proficiency of a skill.
type SkillLevel string

// Skill levels offered by the skills form.
const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillExpert       SkillLevel = "Expert"
)

// SkillLevels lists the valid levels in ascending order.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

// Present marks an open-ended date range.
const Present = "Present"

// Resume is the user's structured document plus the template it is shown with.
type Resume struct {
	ID             string       `json:"id,omitempty" yaml:"id,omitempty"`
	PersonalInfo   PersonalInfo `json:"personalInfo" yaml:"personalInfo"`
	Education      []Education  `json:"education" yaml:"education" validate:"dive"`
	Experience     []Experience `json:"experience" yaml:"experience" validate:"dive"`
	Skills         []Skill      `json:"skills" yaml:"skills" validate:"dive"`
	Projects       []Project    `json:"projects" yaml:"projects" validate:"dive"`
	Certifications []string     `json:"certifications,omitempty" yaml:"certifications,omitempty"`
	Languages      []string     `json:"languages,omitempty" yaml:"languages,omitempty"`
	Interests      []string     `json:"interests,omitempty" yaml:"interests,omitempty"`
	TemplateID     string       `json:"templateId" yaml:"templateId"`
	CreatedAt      time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" yaml:"updatedAt"`
}

// PersonalInfo holds the header block of a resume.
type PersonalInfo struct {
	FirstName string `json:"firstName" yaml:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" yaml:"lastName" validate:"notblank"`
	Email     string `json:"email" yaml:"email" validate:"notblank,email"`
	Phone     string `json:"phone" yaml:"phone" validate:"notblank,min=10"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
	Website   string `json:"website,omitempty" yaml:"website,omitempty" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty" yaml:"github,omitempty"`
	Summary   string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Experience is one position held at a company.
type Experience struct {
	Company      string   `json:"company" yaml:"company" validate:"notblank"`
	Position     string   `json:"position" yaml:"position" validate:"notblank"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty" yaml:"startDate,omitempty" validate:"date_or_present"`
	EndDate      string   `json:"endDate,omitempty" yaml:"endDate,omitempty" validate:"date_or_present"`
	Current      bool     `json:"current,omitempty" yaml:"current,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty" yaml:"achievements,omitempty"`
}

// Education is one degree or program.
type Education struct {
	Institution string `json:"institution" yaml:"institution" validate:"notblank"`
	Degree      string `json:"degree" yaml:"degree" validate:"notblank"`
	Field       string `json:"field,omitempty" yaml:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty" yaml:"startDate,omitempty" validate:"date_or_present"`
	EndDate     string `json:"endDate,omitempty" yaml:"endDate,omitempty" validate:"date_or_present"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	GPA         string `json:"gpa,omitempty" yaml:"gpa,omitempty"`
}

// Skill is a named skill with a level.
type Skill struct {
	Name  string     `json:"name" yaml:"name" validate:"notblank"`
	Level SkillLevel `json:"level" yaml:"level" validate:"skill_level"`
}

// Project is a side or portfolio project.
type Project struct {
	Name         string   `json:"name" yaml:"name" validate:"notblank"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Link         string   `json:"link,omitempty" yaml:"link,omitempty" validate:"omitempty,url"`
	StartDate    string   `json:"startDate,omitempty" yaml:"startDate,omitempty" validate:"date_or_present"`
	EndDate      string   `json:"endDate,omitempty" yaml:"endDate,omitempty" validate:"date_or_present"`
}

// Extras groups the optional free-form string lists of a resume.
type Extras struct {
	Certifications []string `json:"certifications,omitempty" yaml:"certifications,omitempty"`
	Languages      []string `json:"languages,omitempty" yaml:"languages,omitempty"`
	Interests      []string `json:"interests,omitempty" yaml:"interests,omitempty"`
}

// NewResume returns an empty resume with a fresh ID, stamped at now.
func NewResume(now time.Time) *Resume {
	return &Resume{
		ID:         uuid.NewString(),
		Education:  []Education{},
		Experience: []Experience{},
		Skills:     []Skill{},
		Projects:   []Project{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a deep copy of r. A nil resume clones to nil.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	c := *r
	c.Education = cloneSlice(r.Education)
	c.Skills = cloneSlice(r.Skills)
	c.Experience = cloneSlice(r.Experience)
	for i := range c.Experience {
		c.Experience[i].Achievements = cloneSlice(c.Experience[i].Achievements)
	}
	c.Projects = cloneSlice(r.Projects)
	for i := range c.Projects {
		c.Projects[i].Technologies = cloneSlice(c.Projects[i].Technologies)
	}
	c.Certifications = cloneSlice(r.Certifications)
	c.Languages = cloneSlice(r.Languages)
	c.Interests = cloneSlice(r.Interests)
	return &c
}

// cloneSlice copies in, keeping nil and empty distinct.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
