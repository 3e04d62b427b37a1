package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/connoction/outreach-cli/internal/model"
	"github.com/connoction/outreach-cli/internal/records"
	"github.com/connoction/outreach-cli/internal/store"
	"github.com/connoction/outreach-cli/pkg/anthropic"
)

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// textResponse builds a single-block message response.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

// --- Syncer Mock ---

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) Sync(ctx context.Context, profile model.Profile, opts records.SyncOptions) (*model.RecordRef, error) {
	args := m.Called(ctx, profile, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecordRef), args.Error(1)
}

// --- Run Store Mock ---

type mockRunStore struct {
	mock.Mock
}

func (m *mockRunStore) RecordRun(ctx context.Context, run model.Run) (*model.Run, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockRunStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockRunStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRunStore) Close() error {
	return m.Called().Error(0)
}
