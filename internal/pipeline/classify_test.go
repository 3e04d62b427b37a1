package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/connoction/outreach-cli/internal/model"
)

func TestClassify_AcceptsIndustryCategory(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("industry - PM"), nil).Once()

	c := NewFieldClassifier(client, "")
	field, err := c.Classify(context.Background(), model.Profile{Role: "Product Lead"})

	assert.NoError(t, err)
	assert.Equal(t, "industry - PM", field)
	client.AssertExpectations(t)
}

func TestClassify_AcceptsResearchSubfield(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`"research - computational biology"`), nil).Once()

	c := NewFieldClassifier(client, "")
	field, err := c.Classify(context.Background(), model.Profile{
		Schools:       []string{"MIT"},
		HighestDegree: "PhD",
	})

	assert.NoError(t, err)
	assert.Equal(t, "research - computational biology", field)
}

func TestClassify_RejectsOffTaxonomyAnswer(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("banana"), nil).Once()

	c := NewFieldClassifier(client, "")
	field, err := c.Classify(context.Background(), model.Profile{Role: "Fruit Vendor"})

	assert.NoError(t, err)
	assert.Equal(t, "", field)
}

func TestClassify_RejectsUnknownIndustrySubcategory(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("industry - Basketweaving"), nil).Once()

	c := NewFieldClassifier(client, "")
	field, err := c.Classify(context.Background(), model.Profile{Role: "Weaver"})

	assert.NoError(t, err)
	assert.Equal(t, "", field)
}

func TestClassify_NoSignalSkipsCall(t *testing.T) {
	client := &mockAnthropicClient{}

	c := NewFieldClassifier(client, "")
	field, err := c.Classify(context.Background(), model.Profile{Name: "Jane Doe", Location: "Boston"})

	assert.NoError(t, err)
	assert.Equal(t, "", field)
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestClassify_CollaboratorError(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("overloaded")).Once()

	c := NewFieldClassifier(client, "")
	_, err := c.Classify(context.Background(), model.Profile{Role: "Engineer"})

	assert.Error(t, err)
	assert.True(t, eris.Is(err, ErrClassification))
}
