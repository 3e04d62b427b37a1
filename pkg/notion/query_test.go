package notion

import (
	"context"
	"errors"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *mockClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *mockClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, pageID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func TestQueryByTextProperty_Found(t *testing.T) {
	client := &mockClient{}
	client.On("QueryDatabase", mock.Anything, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		filter, ok := req.Filter.(notionapi.PropertyFilter)
		return ok && req.PageSize == 1 &&
			filter.Property == "LinkedIn URL" &&
			filter.RichText != nil && filter.RichText.Equals == "https://linkedin.com/in/jane"
	})).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{{ID: "page-1"}},
		}, nil).Once()

	page, found, err := QueryByTextProperty(context.Background(), client, "db-1", "LinkedIn URL", "https://linkedin.com/in/jane")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, notionapi.ObjectID("page-1"), page.ID)
	client.AssertExpectations(t)
}

func TestQueryByTextProperty_NotFound(t *testing.T) {
	client := &mockClient{}
	client.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{}, nil).Once()

	page, found, err := QueryByTextProperty(context.Background(), client, "db-1", "LinkedIn URL", "https://linkedin.com/in/jane")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, page)
}

func TestQueryFirst_WrapsError(t *testing.T) {
	client := &mockClient{}
	client.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(nil, errors.New("rate limited")).Once()

	_, found, err := QueryFirst(context.Background(), client, "db-1", nil)

	assert.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "notion: query first")
}
