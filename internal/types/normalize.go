package types

import "strings"

// Normalize trims surrounding whitespace from form input, defaults empty
// skill levels to Beginner, drops blank list items and replaces nil section
// lists with empty ones.
func (r *Resume) Normalize() {
	if r == nil {
		return
	}
	r.PersonalInfo = r.PersonalInfo.Normalized()
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Education {
		r.Education[i] = r.Education[i].Normalized()
	}
	for i := range r.Experience {
		r.Experience[i] = r.Experience[i].Normalized()
	}
	for i := range r.Skills {
		r.Skills[i] = r.Skills[i].Normalized()
	}
	for i := range r.Projects {
		r.Projects[i] = r.Projects[i].Normalized()
	}
	r.Certifications = compact(r.Certifications)
	r.Languages = compact(r.Languages)
	r.Interests = compact(r.Interests)
}

// Normalized returns p with every field trimmed.
func (p PersonalInfo) Normalized() PersonalInfo {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Location = strings.TrimSpace(p.Location)
	p.Website = strings.TrimSpace(p.Website)
	p.LinkedIn = strings.TrimSpace(p.LinkedIn)
	p.GitHub = strings.TrimSpace(p.GitHub)
	p.Summary = strings.TrimSpace(p.Summary)
	return p
}

// Normalized returns e with text fields trimmed and blank achievements dropped.
func (e Experience) Normalized() Experience {
	e.Company = strings.TrimSpace(e.Company)
	e.Position = strings.TrimSpace(e.Position)
	e.Location = strings.TrimSpace(e.Location)
	e.StartDate = normalizeDate(e.StartDate)
	e.EndDate = normalizeDate(e.EndDate)
	e.Description = strings.TrimSpace(e.Description)
	e.Achievements = compact(e.Achievements)
	return e
}

// Normalized returns e with text fields trimmed.
func (e Education) Normalized() Education {
	e.Institution = strings.TrimSpace(e.Institution)
	e.Degree = strings.TrimSpace(e.Degree)
	e.Field = strings.TrimSpace(e.Field)
	e.StartDate = normalizeDate(e.StartDate)
	e.EndDate = normalizeDate(e.EndDate)
	e.Description = strings.TrimSpace(e.Description)
	e.GPA = strings.TrimSpace(e.GPA)
	return e
}

// Normalized returns s trimmed, with an empty level defaulted to Beginner.
func (s Skill) Normalized() Skill {
	s.Name = strings.TrimSpace(s.Name)
	s.Level = SkillLevel(strings.TrimSpace(string(s.Level)))
	if s.Level == "" {
		s.Level = SkillBeginner
	}
	return s
}

// Normalized returns p with text fields trimmed and blank technologies dropped.
func (p Project) Normalized() Project {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Link = strings.TrimSpace(p.Link)
	p.StartDate = normalizeDate(p.StartDate)
	p.EndDate = normalizeDate(p.EndDate)
	p.Technologies = compact(p.Technologies)
	return p
}

// normalizeDate trims a form date and spells an open end as Present.
func normalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, Present) {
		return Present
	}
	return value
}

// SplitList splits a comma separated form value such as "Go, SQL" into
// trimmed, non-empty items.
func SplitList(value string) []string {
	return compact(strings.Split(value, ","))
}

// compact trims items and drops blank ones. An all-blank list becomes nil.
func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
