package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/connoction/outreach-cli/internal/model"
)

func TestSplitSubjectBody(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "explicit subject line",
			text:        "Subject: Coffee chat about infra?\n\nHi Jane,\nI saw your work at Acme.",
			wantSubject: "Coffee chat about infra?",
			wantBody:    "Hi Jane,\nI saw your work at Acme.",
		},
		{
			name:        "case insensitive subject",
			text:        "subject: Quick question\nHi there.",
			wantSubject: "Quick question",
			wantBody:    "Hi there.",
		},
		{
			name:        "short first line becomes subject",
			text:        "Intro from a fellow MIT alum\nHi Jane, I noticed we overlapped at MIT.",
			wantSubject: "Intro from a fellow MIT alum",
			wantBody:    "Hi Jane, I noticed we overlapped at MIT.",
		},
		{
			name:        "long first line falls back to default",
			text:        "This opening line is deliberately padded well past the eighty character subject limit so it stays in the body.",
			wantSubject: "Quick intro",
			wantBody:    "This opening line is deliberately padded well past the eighty character subject limit so it stays in the body.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := splitSubjectBody(tt.text)
			assert.Equal(t, tt.wantSubject, subject)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestGenerate_DisabledProvider(t *testing.T) {
	g := NewDraftGenerator(&mockAnthropicClient{}, "", "")
	draft, diag, err := g.Generate(context.Background(), model.Profile{}, "coffee chat", model.ChannelEmail)

	assert.NoError(t, err)
	assert.Nil(t, draft)
	assert.Equal(t, DiagnosticDraftDisabled, diag)
}

func TestGenerate_EmailSplitsSubject(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("Subject: Infra at Acme\n\nHi Jane, your work caught my eye."), nil).Once()

	g := NewDraftGenerator(client, "", ProviderAnthropic)
	draft, diag, err := g.Generate(context.Background(), model.Profile{Name: "Jane"}, "coffee chat", model.ChannelEmail)

	assert.NoError(t, err)
	assert.Empty(t, diag)
	assert.Equal(t, "Infra at Acme", draft.Subject)
	assert.Equal(t, "Hi Jane, your work caught my eye.", draft.Body)
}

func TestGenerate_LinkedInHasNoSubject(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("Hi Jane, your work at Acme caught my eye. Would love to connect."), nil).Once()

	g := NewDraftGenerator(client, "", ProviderAnthropic)
	draft, _, err := g.Generate(context.Background(), model.Profile{Name: "Jane"}, "coffee chat", model.ChannelLinkedIn)

	assert.NoError(t, err)
	assert.Empty(t, draft.Subject)
	assert.Contains(t, draft.Body, "Would love to connect")
}

func TestGenerate_FailureAfterRetries(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("overloaded")).Times(draftRetryAttempts)

	g := NewDraftGenerator(client, "", ProviderAnthropic)
	draft, diag, err := g.Generate(context.Background(), model.Profile{}, "ask", model.ChannelEmail)

	assert.Error(t, err)
	assert.Nil(t, draft)
	assert.Contains(t, diag, "Anthropic error")
	client.AssertExpectations(t)
}
