//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResume(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewResume(now)

	_, err := uuid.Parse(r.ID)
	require.NoError(t, err, "ID should be a UUID")
	assert.Equal(t, now, r.CreatedAt)
	assert.Equal(t, now, r.UpdatedAt)
	assert.NotNil(t, r.Experience)
	assert.Empty(t, r.Experience)
}

func TestResume_CloneIsDeep(t *testing.T) {
	r := &Resume{
		PersonalInfo: PersonalInfo{FirstName: "Ada"},
		Experience:   []Experience{{Company: "Acme", Achievements: []string{"shipped"}}},
		Projects:     []Project{{Name: "p", Technologies: []string{"Go"}}},
		Languages:    []string{"English"},
	}

	c := r.Clone()
	c.PersonalInfo.FirstName = "Grace"
	c.Experience[0].Achievements[0] = "changed"
	c.Projects[0].Technologies[0] = "Rust"
	c.Languages[0] = "French"

	assert.Equal(t, "Ada", r.PersonalInfo.FirstName)
	assert.Equal(t, "shipped", r.Experience[0].Achievements[0])
	assert.Equal(t, "Go", r.Projects[0].Technologies[0])
	assert.Equal(t, "English", r.Languages[0])
	assert.Nil(t, c.Skills, "nil lists stay nil")
}

func TestResume_CloneNil(t *testing.T) {
	var r *Resume
	assert.Nil(t, r.Clone())
}

func TestPersonalInfo_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", PersonalInfo{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", PersonalInfo{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", PersonalInfo{LastName: "Lovelace"}.FullName())
}

func TestResume_Normalize(t *testing.T) {
	r := &Resume{
		PersonalInfo: PersonalInfo{FirstName: "  Ada ", Email: " ada@example.com"},
		Skills:       []Skill{{Name: " Go "}},
		Experience:   []Experience{{Company: "Acme", Achievements: []string{" a ", "", "  "}}},
	}
	r.Normalize()

	assert.Equal(t, "Ada", r.PersonalInfo.FirstName)
	assert.Equal(t, "ada@example.com", r.PersonalInfo.Email)
	assert.Equal(t, Skill{Name: "Go", Level: SkillBeginner}, r.Skills[0])
	assert.Equal(t, []string{"a"}, r.Experience[0].Achievements)
	assert.NotNil(t, r.Education)
	assert.NotNil(t, r.Projects)
}

func TestResume_NormalizeOpenEndedDates(t *testing.T) {
	r := &Resume{
		Experience: []Experience{{StartDate: " 2020-01 ", EndDate: "PRESENT"}},
		Education:  []Education{{EndDate: " present"}},
		Projects:   []Project{{EndDate: "pReSeNt"}},
	}
	r.Normalize()

	assert.Equal(t, "2020-01", r.Experience[0].StartDate)
	assert.Equal(t, Present, r.Experience[0].EndDate)
	assert.Equal(t, Present, r.Education[0].EndDate)
	assert.Equal(t, Present, r.Projects[0].EndDate)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, SplitList("Go, SQL,,  Docker "))
	assert.Empty(t, SplitList(""))
}

func TestResume_JSONFieldNames(t *testing.T) {
	r := Resume{PersonalInfo: PersonalInfo{FirstName: "Ada"}, TemplateID: "modern"}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "personalInfo")
	assert.Contains(t, raw, "templateId")
	assert.Equal(t, "Ada", raw["personalInfo"].(map[string]any)["firstName"])
}
