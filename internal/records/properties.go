package records

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jomei/notionapi"

	"github.com/connoction/outreach-cli/internal/model"
)

// Property names in the outreach database. The synchronizer only ever
// writes this fixed catalog, never new fields.
const (
	propName            = "Name"
	propRole            = "Role"
	propHeadline        = "Headline"
	propBio             = "Bio"
	propCompany         = "Company"
	propHighestDegree   = "Highest Degree"
	propField           = "Field"
	propSchools         = "Schools"
	propLocation        = "Location"
	propExperience      = "Experience"
	propLinkedInURL     = "LinkedIn URL"
	propStatus          = "Status"
	propDateContacted   = "Date Contacted"
	propLastInteraction = "Last Interaction Date"
	propLinkedInMsg     = "LinkedIn Message"
	propEmailMsg        = "Email Message"
	propLinkedInReached = "LinkedIn Reached Out"
	propEmailReached    = "Email Reached Out"
)

// Status values.
const (
	statusContacted     = "Contacted"
	statusNeedToContact = "Need to contact"
)

// richTextLimit caps rich_text content; Notion rejects blocks over 2000 chars.
const richTextLimit = 2000

func titleProp(v string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Type: notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: v}},
		},
	}
}

func richTextProp(v string) notionapi.RichTextProperty {
	if len(v) > richTextLimit {
		cut := richTextLimit
		// Back up to a rune boundary so the cap never splits a
		// multibyte character into invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(v[cut]) {
			cut--
		}
		v = v[:cut]
	}
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: v}},
		},
	}
}

func multiSelectProp(values []string) notionapi.MultiSelectProperty {
	options := make([]notionapi.Option, 0, len(values))
	for _, v := range values {
		// Notion multi_select option names cannot contain commas.
		options = append(options, notionapi.Option{Name: strings.ReplaceAll(v, ",", " ")})
	}
	return notionapi.MultiSelectProperty{
		Type:        notionapi.PropertyTypeMultiSelect,
		MultiSelect: options,
	}
}

func selectProp(v string) notionapi.SelectProperty {
	return notionapi.SelectProperty{
		Type:   notionapi.PropertyTypeSelect,
		Select: notionapi.Option{Name: v},
	}
}

func dateProp(t time.Time) notionapi.DateProperty {
	d := notionapi.Date(t)
	return notionapi.DateProperty{
		Type: notionapi.PropertyTypeDate,
		Date: &notionapi.DateObject{Start: &d},
	}
}

func checkboxProp(v bool) notionapi.CheckboxProperty {
	return notionapi.CheckboxProperty{
		Type:     notionapi.PropertyTypeCheckbox,
		Checkbox: v,
	}
}

func statusProp(v string) notionapi.StatusProperty {
	return notionapi.StatusProperty{
		Type:   notionapi.PropertyTypeStatus,
		Status: notionapi.Status{Name: v},
	}
}

// formatExperience renders the ordered experience entries as one
// rich_text block, most recent first.
func formatExperience(entries []model.ExperienceDetail) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Title)
		b.WriteString(" @ ")
		b.WriteString(e.Company)
		if e.Description != "" {
			b.WriteString(" — ")
			b.WriteString(e.Description)
		}
	}
	return b.String()
}

// profileProperties builds the properties supplied by this operation
// for the descriptive profile fields. Absent fields are omitted so a
// merge never clobbers previously stored values.
func profileProperties(p model.Profile) notionapi.Properties {
	props := make(notionapi.Properties)

	if p.Name != "" {
		props[propName] = titleProp(p.Name)
	}
	if p.Role != "" {
		props[propRole] = richTextProp(p.Role)
	}
	if p.Headline != "" {
		props[propHeadline] = richTextProp(p.Headline)
	}
	if p.Bio != "" {
		props[propBio] = richTextProp(p.Bio)
	}
	if len(p.Companies) > 0 {
		props[propCompany] = multiSelectProp(p.Companies)
	}
	if p.HighestDegree != "" {
		props[propHighestDegree] = richTextProp(p.HighestDegree)
	}
	if p.Field != "" {
		props[propField] = selectProp(p.Field)
	}
	if len(p.Schools) > 0 {
		props[propSchools] = multiSelectProp(p.Schools)
	}
	if p.Location != "" {
		props[propLocation] = richTextProp(p.Location)
	}
	if len(p.Experience) > 0 {
		props[propExperience] = richTextProp(formatExperience(p.Experience))
	}
	if p.LinkedInURL != "" {
		// Identity column is rich_text, not url: the query API has no
		// url filter condition and lookups need exact-match equals.
		props[propLinkedInURL] = richTextProp(p.LinkedInURL)
	}

	return props
}

// messageProperties adds the per-channel message fields and their
// reached-out flags. Flags are only ever set true, never cleared.
func messageProperties(props notionapi.Properties, opts SyncOptions) {
	if opts.LinkedInMessage != "" {
		props[propLinkedInMsg] = richTextProp(opts.LinkedInMessage)
		props[propLinkedInReached] = checkboxProp(true)
	}
	if opts.EmailMessage != "" {
		props[propEmailMsg] = richTextProp(opts.EmailMessage)
		props[propEmailReached] = checkboxProp(true)
	}
}
