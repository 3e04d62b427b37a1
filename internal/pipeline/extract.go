package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/connoction/outreach-cli/internal/model"
	"github.com/connoction/outreach-cli/internal/normalize"
	"github.com/connoction/outreach-cli/pkg/anthropic"
)

// DefaultExtractMaxChars bounds the page text sent to the extraction
// model. Profile pages rarely exceed this; anything longer is filler.
const DefaultExtractMaxChars = 25000

// truncationMarker is appended when page text is cut at the budget so
// the model knows the tail is missing.
const truncationMarker = "\n[content truncated]"

// extractRetryAttempts is the max number of tries for the extraction call.
const extractRetryAttempts = 3

var (
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

const extractSystemText = `You are a data extraction assistant. You read the raw text of a professional profile page and return structured JSON. Extract only information present on the page. Use null for fields not found. Never invent values.`

const extractPrompt = `Extract the profile below into a JSON object with exactly these keys:
{
  "name": "<full name or null>",
  "role": "<current job title or null>",
  "headline": "<profile headline or null>",
  "bio": "<about/summary text or null>",
  "current_company": "<current employer or null>",
  "companies": ["<employers, most recent first>"],
  "highest_degree": "<highest degree earned, e.g. PhD, Master's, Bachelor's, or null>",
  "schools": ["<institutions attended>"],
  "location": "<city/region or null>",
  "field": "<exactly one of: \"industry - SWE\", \"industry - PM\", \"industry - AI/ML\", \"industry - Other\", \"research - <subfield>\"; null if unclear>",
  "experience_details": [{"company": "<employer>", "title": "<job title>", "description": "<what they did, or null>"}]
}

Page content:
%s

Return only the JSON object.`

// extractedProfile is the wire shape the extraction model returns.
type extractedProfile struct {
	Name           string `json:"name"`
	Role           string `json:"role"`
	Headline       string `json:"headline"`
	Bio            string `json:"bio"`
	CurrentCompany string `json:"current_company"`
	Companies      []string `json:"companies"`
	HighestDegree  string   `json:"highest_degree"`
	Schools        []string `json:"schools"`
	Location       string   `json:"location"`
	Field          string   `json:"field"`
	Experience     []struct {
		Company     string `json:"company"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"experience_details"`
}

// Preprocess reduces raw page markup to plain text within the given
// character budget. HTML is converted to markdown (dropping scripts,
// styles, and decoding entities); when conversion fails the markup is
// stripped with a tag regex instead. Text cut at the budget gets a
// truncation marker so downstream prompts can say so.
func Preprocess(raw string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultExtractMaxChars
	}

	raw = scriptRe.ReplaceAllString(raw, "")
	raw = styleRe.ReplaceAllString(raw, "")

	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(raw)
	if err != nil {
		zap.L().Debug("extract: markdown conversion failed, stripping tags", zap.Error(err))
		text = tagRe.ReplaceAllString(raw, " ")
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if len(text) > maxChars {
		text = truncateRunes(text, maxChars) + truncationMarker
	}
	return text
}

// truncateRunes cuts s at no more than n bytes without splitting a
// multibyte character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Extractor turns raw profile page text into a structured profile via
// a single model call.
type Extractor struct {
	client   anthropic.Client
	model    string
	maxChars int
}

// NewExtractor creates an extractor. An empty model or non-positive
// budget falls back to defaults.
func NewExtractor(client anthropic.Client, modelName string, maxChars int) *Extractor {
	if modelName == "" {
		modelName = "claude-haiku-4-5-20251001"
	}
	if maxChars <= 0 {
		maxChars = DefaultExtractMaxChars
	}
	return &Extractor{client: client, model: modelName, maxChars: maxChars}
}

// Extract runs the extraction call and parses the response. Transport
// failures (after retries) return ErrExtractionTransient; a response
// that cannot be parsed as the expected JSON returns
// ErrExtractionMalformed. No partial profile is returned on failure.
func (e *Extractor) Extract(ctx context.Context, identity, rawContent string) (model.Profile, error) {
	text := Preprocess(rawContent, e.maxChars)
	if text == "" {
		return model.Profile{}, eris.Wrap(ErrExtractionMalformed, "empty page content")
	}

	temp := 0.2
	req := anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   2048,
		Temperature: &temp,
		System:      anthropic.BuildCachedSystemBlocks(extractSystemText),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(extractPrompt, text)},
		},
	}

	var resp *anthropic.MessageResponse
	var lastErr error
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt < extractRetryAttempts; attempt++ {
		resp, lastErr = e.client.CreateMessage(ctx, req)
		if lastErr == nil {
			break
		}
		if attempt < extractRetryAttempts-1 {
			zap.L().Warn("extract: message failed, retrying",
				zap.String("identity", identity),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return model.Profile{}, eris.Wrap(ErrExtractionTransient, ctx.Err().Error())
			case <-timer.C:
			}
			backoff *= 2
		}
	}
	if lastErr != nil {
		return model.Profile{}, eris.Wrap(ErrExtractionTransient, lastErr.Error())
	}
	resp.Usage.LogCost(e.model, "extract")

	cleaned := cleanJSON(extractText(resp))
	var wire extractedProfile
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		zap.L().Warn("extract: unparseable response",
			zap.String("identity", identity),
			zap.String("response", snippet(cleaned, 200)),
		)
		return model.Profile{}, eris.Wrap(ErrExtractionMalformed, err.Error())
	}

	p := model.Profile{
		Name:           wire.Name,
		Role:           wire.Role,
		Headline:       wire.Headline,
		Bio:            wire.Bio,
		CurrentCompany: wire.CurrentCompany,
		Companies:      wire.Companies,
		HighestDegree:  wire.HighestDegree,
		Schools:        wire.Schools,
		Location:       wire.Location,
		Field:          strings.TrimSpace(wire.Field),
		LinkedInURL:    identity,
	}
	// Only the closed taxonomy may reach the record store; anything
	// else is discarded so the heuristic or classifier resolves it.
	if p.Field != "" && !model.ValidField(p.Field) {
		zap.L().Debug("extract: field outside taxonomy, discarding",
			zap.String("identity", identity),
			zap.String("field", snippet(p.Field, 80)),
		)
		p.Field = ""
	}
	for _, exp := range wire.Experience {
		p.Experience = append(p.Experience, model.ExperienceDetail{
			Company:     exp.Company,
			Title:       exp.Title,
			Description: exp.Description,
		})
	}

	// Normalization drops experience entries missing company or title
	// and trims everything else.
	return normalize.Profile(p), nil
}

// cleanJSON strips markdown code fences and any prose surrounding the
// first JSON object in a model response.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// extractText concatenates the text blocks from a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
