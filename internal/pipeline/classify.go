package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/connoction/outreach-cli/internal/model"
	"github.com/connoction/outreach-cli/pkg/anthropic"
)

// ErrClassification marks a failed field classification. Callers treat
// it as non-fatal: the profile proceeds with Field absent.
var ErrClassification = eris.New("pipeline: field classification failed")

const classifySystemText = `You are a classification assistant. You assign professional profiles to exactly one category and answer with the category string alone, nothing else.`

const classifyPrompt = `Classify this person's professional field.

%s

Answer with exactly one of:
- "industry - SWE" (software engineering)
- "industry - PM" (product or program management)
- "industry - AI/ML" (machine learning or AI engineering)
- "industry - Other" (any other industry role)
- "research - <subfield>" (academic or research roles; replace <subfield> with the research area, e.g. "research - computational biology")

Answer with the category string only.`

// FieldClassifier assigns a taxonomy category to profiles whose field
// could not be derived from the page itself.
type FieldClassifier struct {
	client anthropic.Client
	model  string
}

// NewFieldClassifier creates a classifier. An empty model falls back
// to the default.
func NewFieldClassifier(client anthropic.Client, modelName string) *FieldClassifier {
	if modelName == "" {
		modelName = "claude-haiku-4-5-20251001"
	}
	return &FieldClassifier{client: client, model: modelName}
}

// Classify returns a taxonomy category for the profile, or "" when the
// profile carries no classifiable signal or the response falls outside
// the accepted taxonomy. A "" return with nil error means the field
// stays absent.
func (c *FieldClassifier) Classify(ctx context.Context, p model.Profile) (string, error) {
	if !p.HasSignal() {
		return "", nil
	}

	temp := 0.0
	req := anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   64,
		Temperature: &temp,
		System:      anthropic.BuildCachedSystemBlocks(classifySystemText),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(classifyPrompt, profileSummary(p))},
		},
	}

	resp, err := c.client.CreateMessage(ctx, req)
	if err != nil {
		return "", eris.Wrap(ErrClassification, err.Error())
	}
	resp.Usage.LogCost(c.model, "classify")

	answer := strings.Trim(strings.TrimSpace(extractText(resp)), `"`)
	if !model.ValidField(answer) {
		zap.L().Warn("classify: response outside taxonomy",
			zap.String("name", p.Name),
			zap.String("answer", snippet(answer, 80)),
		)
		return "", nil
	}
	return answer, nil
}

// profileSummary condenses the classifiable signal into a few prompt
// lines. Bio and raw page text are deliberately excluded to keep the
// prompt small.
func profileSummary(p model.Profile) string {
	var b strings.Builder
	if p.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
	}
	if p.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", p.Role)
	}
	if p.Headline != "" {
		fmt.Fprintf(&b, "Headline: %s\n", p.Headline)
	}
	if len(p.Companies) > 0 {
		fmt.Fprintf(&b, "Companies: %s\n", strings.Join(p.Companies, ", "))
	}
	if p.HighestDegree != "" {
		fmt.Fprintf(&b, "Highest degree: %s\n", p.HighestDegree)
	}
	if len(p.Schools) > 0 {
		fmt.Fprintf(&b, "Schools: %s\n", strings.Join(p.Schools, ", "))
	}
	return strings.TrimSpace(b.String())
}
