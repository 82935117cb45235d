package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Form names accepted by DecodeSection.
const (
	FormResume     = "resume"
	FormPersonal   = "personal"
	FormExperience = "experience"
	FormEducation  = "education"
	FormSkills     = "skills"
	FormProjects   = "projects"
	FormExtras     = "extras"
)

// Forms lists every form name.
var Forms = []string{FormResume, FormPersonal, FormExperience, FormEducation, FormSkills, FormProjects, FormExtras}

// DecodeSection decodes a JSON form submission into the action that
// applies it. List forms take a JSON array. Unknown fields are rejected.
func DecodeSection(form string, data []byte) (Action, error) {
	var (
		action Action
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(form)) {
	case FormResume:
		var r types.Resume
		err = decodeStrict(data, &r)
		action = SetResume{Resume: &r}
	case FormPersonal, "personalinfo":
		var info types.PersonalInfo
		err = decodeStrict(data, &info)
		action = SetPersonalInfo{Info: info}
	case FormExperience:
		var items []types.Experience
		err = decodeStrict(data, &items)
		action = SetExperience{Items: items}
	case FormEducation:
		var items []types.Education
		err = decodeStrict(data, &items)
		action = SetEducation{Items: items}
	case FormSkills:
		var items []types.Skill
		err = decodeStrict(data, &items)
		action = SetSkills{Items: items}
	case FormProjects:
		var items []types.Project
		err = decodeStrict(data, &items)
		action = SetProjects{Items: items}
	case FormExtras:
		var extras types.Extras
		err = decodeStrict(data, &extras)
		action = SetExtras{Extras: extras}
	default:
		return nil, &Error{Op: "decode", Message: fmt.Sprintf("unknown form %q (use one of %s)", form, strings.Join(Forms, ", "))}
	}
	if err != nil {
		return nil, &Error{Op: "decode", Message: fmt.Sprintf("invalid %s form", form), Cause: err}
	}
	return action, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
