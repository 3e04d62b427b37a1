package model

// Taxonomy category prefixes. A valid Field value is either an industry
// category from the closed set below or a research category with a
// free-text subfield.
const (
	FieldPrefixIndustry = "industry - "
	FieldPrefixResearch = "research - "
)

// industryCategories is the closed set of industry subcategories.
var industryCategories = map[string]bool{
	"SWE":   true,
	"PM":    true,
	"AI/ML": true,
	"Other": true,
}

// ValidField reports whether a taxonomy value matches one of the two
// accepted shapes: "industry - <SWE|PM|AI/ML|Other>" or
// "research - <subfield>" with a non-empty subfield.
func ValidField(field string) bool {
	if len(field) > len(FieldPrefixIndustry) && field[:len(FieldPrefixIndustry)] == FieldPrefixIndustry {
		return industryCategories[field[len(FieldPrefixIndustry):]]
	}
	if len(field) > len(FieldPrefixResearch) && field[:len(FieldPrefixResearch)] == FieldPrefixResearch {
		return true
	}
	return false
}

// ExperienceDetail is a single position in a profile's work history,
// most-recent-first. Company and Title are both required for an entry
// to be retained.
type ExperienceDetail struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Profile is the central entity: a normalized professional profile.
// Every string field is either empty (absent) or non-empty after
// normalization. RawContent is input-only and never persisted.
type Profile struct {
	Name           string             `json:"name,omitempty"`
	Role           string             `json:"role,omitempty"`
	Headline       string             `json:"headline,omitempty"`
	Bio            string             `json:"bio,omitempty"`
	CurrentCompany string             `json:"currentCompany,omitempty"`
	Companies      []string           `json:"companies,omitempty"`
	HighestDegree  string             `json:"highestDegree,omitempty"`
	Field          string             `json:"field,omitempty"`
	Schools        []string           `json:"schools,omitempty"`
	Location       string             `json:"location,omitempty"`
	LinkedInURL    string             `json:"linkedinUrl,omitempty"`
	Experience     []ExperienceDetail `json:"experienceDetails,omitempty"`

	// RawContent carries the scraped page text for LLM extraction.
	// Consumed once by the extractor, never written to the record store.
	RawContent string `json:"htmlContent,omitempty"`
}

// HasSignal reports whether the profile carries enough information for
// field classification (role, companies, schools, or degree).
func (p Profile) HasSignal() bool {
	return p.Role != "" || len(p.Companies) > 0 || len(p.Schools) > 0 || p.HighestDegree != ""
}

// Channel identifies an outreach message type.
type Channel string

const (
	ChannelLinkedIn Channel = "linkedin"
	ChannelEmail    Channel = "email"
)

// Draft is a generated outreach message. Subject is present for the
// email channel only.
type Draft struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// RecordRef points at an external record in the store along with a
// snapshot of the fields considered saved at write time. The store owns
// the record; this is never authoritative state.
type RecordRef struct {
	PageID      string  `json:"pageId"`
	URL         string  `json:"url,omitempty"`
	SavedFields Profile `json:"savedFields"`
}

// EnrichmentOptions is the request option set consumed by the pipeline.
type EnrichmentOptions struct {
	SaveToStore bool    `json:"saveDraftToNotion"`
	Channel     Channel `json:"messageType,omitempty"`

	// Pre-written per-channel messages (e.g. "Reached out - no message
	// specified" when a channel is marked contacted without draft text).
	LinkedInMessage string `json:"linkedinMessage,omitempty"`
	EmailMessage    string `json:"emailMessage,omitempty"`
}

// EnrichmentRequest is one incoming enrichment + draft request.
type EnrichmentRequest struct {
	Profile Profile           `json:"profile"`
	Ask     string            `json:"ask"`
	Options EnrichmentOptions `json:"options"`
}

// EnrichmentResult is the outward result of one pipeline run. Partial
// success is representable: Record may be set while Draft is nil, with
// Diagnostic explaining why no draft was produced.
type EnrichmentResult struct {
	Record     *RecordRef `json:"notion,omitempty"`
	Draft      *Draft     `json:"draft,omitempty"`
	Provider   string     `json:"provider,omitempty"`
	Diagnostic string     `json:"message,omitempty"`
}
