package records

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"

	"github.com/connoction/outreach-cli/internal/model"
)

func TestProfileProperties_OmitsAbsentFields(t *testing.T) {
	props := profileProperties(model.Profile{Name: "Jane Doe"})

	assert.Contains(t, props, propName)
	assert.NotContains(t, props, propRole)
	assert.NotContains(t, props, propBio)
	assert.NotContains(t, props, propCompany)
	assert.NotContains(t, props, propLinkedInURL)
}

func TestProfileProperties_FullProfile(t *testing.T) {
	props := profileProperties(model.Profile{
		Name:        "Jane Doe",
		Role:        "Engineer",
		Companies:   []string{"Acme"},
		Field:       "industry - SWE",
		Schools:     []string{"MIT"},
		LinkedInURL: "https://linkedin.com/in/jane",
		Experience: []model.ExperienceDetail{
			{Company: "Acme", Title: "Engineer", Description: "infra"},
		},
	})

	title := props[propName].(notionapi.TitleProperty)
	assert.Equal(t, "Jane Doe", title.Title[0].Text.Content)

	sel := props[propField].(notionapi.SelectProperty)
	assert.Equal(t, "industry - SWE", sel.Select.Name)

	url := props[propLinkedInURL].(notionapi.RichTextProperty)
	assert.Equal(t, "https://linkedin.com/in/jane", url.RichText[0].Text.Content)

	exp := props[propExperience].(notionapi.RichTextProperty)
	assert.Contains(t, exp.RichText[0].Text.Content, "Engineer @ Acme")
}

func TestMultiSelectProp_ReplacesCommas(t *testing.T) {
	p := multiSelectProp([]string{"Acme, Inc.", "Initech"})
	assert.Equal(t, "Acme  Inc.", p.MultiSelect[0].Name)
	assert.Equal(t, "Initech", p.MultiSelect[1].Name)
}

func TestRichTextProp_CapsLength(t *testing.T) {
	p := richTextProp(strings.Repeat("a", richTextLimit+500))
	assert.Len(t, p.RichText[0].Text.Content, richTextLimit)
}

func TestRichTextProp_CapsAtRuneBoundary(t *testing.T) {
	// "é" is two bytes; the leading "a" puts the byte cap mid-rune.
	p := richTextProp("a" + strings.Repeat("é", richTextLimit))

	content := p.RichText[0].Text.Content
	assert.True(t, utf8.ValidString(content))
	assert.LessOrEqual(t, len(content), richTextLimit)
}

func TestFormatExperience(t *testing.T) {
	out := formatExperience([]model.ExperienceDetail{
		{Company: "Acme", Title: "Staff Engineer", Description: "built infra"},
		{Company: "Initech", Title: "Engineer"},
	})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Staff Engineer @ Acme — built infra", lines[0])
	assert.Equal(t, "Engineer @ Initech", lines[1])
}

func TestMessageProperties_SetsFlagOnlyForSuppliedChannel(t *testing.T) {
	props := make(notionapi.Properties)
	messageProperties(props, SyncOptions{LinkedInMessage: "Hi Jane"})

	assert.Contains(t, props, propLinkedInMsg)
	assert.Contains(t, props, propLinkedInReached)
	assert.NotContains(t, props, propEmailMsg)
	assert.NotContains(t, props, propEmailReached)
}
