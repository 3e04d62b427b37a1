package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/connoction/outreach-cli/internal/model"
	"github.com/connoction/outreach-cli/pkg/anthropic"
)

// ProviderAnthropic is the provider label reported when drafting is
// backed by the Anthropic API.
const ProviderAnthropic = "anthropic"

// DiagnosticDraftDisabled is surfaced when a draft was requested but no
// provider is configured.
const DiagnosticDraftDisabled = "draft generation not enabled"

// ErrDraftGeneration marks a failed draft call. Non-fatal: enrichment
// results still carry the record reference.
var ErrDraftGeneration = eris.New("pipeline: draft generation failed")

// defaultSubject is used when no subject line can be split from the
// generated text.
const defaultSubject = "Quick intro"

const draftRetryAttempts = 3

const draftSystemText = `You generate concise, friendly outreach messages. Use provided profile fields only. 100-140 words, no fluff, specific to their role, company, and education, and to the sender's ask.`

const draftPrompt = `Write a %s outreach message.

Recipient:
%s

Sender's ask: %s

%s`

const emailFormatHint = `Start with a line "Subject: <subject>" followed by the body.`
const linkedinFormatHint = `Write the message body only, no subject line, suitable for a LinkedIn direct message.`

// DraftGenerator produces outreach drafts for one channel.
type DraftGenerator struct {
	client    anthropic.Client
	model     string
	provider  string
	templates *DraftTemplates
}

// NewDraftGenerator creates a generator. Provider gates generation:
// anything but "anthropic" (or an empty value) disables drafting and
// Generate reports DiagnosticDraftDisabled.
func NewDraftGenerator(client anthropic.Client, modelName, provider string) *DraftGenerator {
	if modelName == "" {
		modelName = "claude-sonnet-4-5-20250929"
	}
	return &DraftGenerator{client: client, model: modelName, provider: strings.ToLower(provider)}
}

// SetTemplates installs prompt overrides loaded from a template file.
func (g *DraftGenerator) SetTemplates(t *DraftTemplates) {
	g.templates = t
}

// Enabled reports whether a configured provider backs this generator.
func (g *DraftGenerator) Enabled() bool {
	return g.provider == ProviderAnthropic && g.client != nil
}

// Generate produces a draft for the channel. When disabled it returns
// (nil, DiagnosticDraftDisabled, nil); a collaborator failure returns a
// diagnostic plus ErrDraftGeneration. Subject is populated for the email
// channel only.
func (g *DraftGenerator) Generate(ctx context.Context, p model.Profile, ask string, channel model.Channel) (*model.Draft, string, error) {
	if !g.Enabled() {
		return nil, DiagnosticDraftDisabled, nil
	}

	hint := g.templates.hint(channel)
	label := "LinkedIn"
	if channel == model.ChannelEmail {
		label = "email"
	}

	temp := 0.4
	req := anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   512,
		Temperature: &temp,
		System:      anthropic.BuildCachedSystemBlocks(g.templates.systemText()),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(draftPrompt, label, draftSummary(p), ask, hint)},
		},
	}

	var resp *anthropic.MessageResponse
	var lastErr error
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt < draftRetryAttempts; attempt++ {
		resp, lastErr = g.client.CreateMessage(ctx, req)
		if lastErr == nil {
			break
		}
		if attempt < draftRetryAttempts-1 {
			zap.L().Warn("draft: message failed, retrying",
				zap.String("channel", string(channel)),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, "Anthropic error: " + ctx.Err().Error(), eris.Wrap(ErrDraftGeneration, ctx.Err().Error())
			case <-timer.C:
			}
			backoff *= 2
		}
	}
	if lastErr != nil {
		return nil, "Anthropic error: " + lastErr.Error(), eris.Wrap(ErrDraftGeneration, lastErr.Error())
	}
	resp.Usage.LogCost(g.model, "draft")

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return nil, "Anthropic error: empty response", eris.Wrap(ErrDraftGeneration, "empty response")
	}

	draft := &model.Draft{Body: text}
	if channel == model.ChannelEmail {
		subject, body := splitSubjectBody(text)
		draft.Subject = subject
		draft.Body = body
	}
	return draft, "", nil
}

// draftSummary renders the profile fields the prompt may draw on.
func draftSummary(p model.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name=%s; role=%s; company=%s; degree=%s; field=%s",
		p.Name, p.Role, p.CurrentCompany, p.HighestDegree, p.Field)
	if len(p.Schools) > 0 {
		fmt.Fprintf(&b, "; schools=%s", strings.Join(p.Schools, ", "))
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "; location=%s", p.Location)
	}
	return b.String()
}

// splitSubjectBody separates a subject line from the body: an explicit
// "Subject:" line wins, else a short first line, else a default subject
// with the full text as body.
func splitSubjectBody(text string) (string, string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	subject := defaultSubject
	body := strings.TrimSpace(text)

	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "subject:") {
			if s := strings.TrimSpace(line[len("subject:"):]); s != "" {
				subject = s
			}
			if rest := strings.TrimSpace(strings.Join(lines[i+1:], "\n")); rest != "" {
				body = rest
			}
			return subject, body
		}
	}

	if len(lines) > 0 && len(lines[0]) <= 80 {
		subject = lines[0]
		if rest := strings.TrimSpace(strings.Join(lines[1:], "\n")); rest != "" {
			body = rest
		}
	}
	return subject, body
}
