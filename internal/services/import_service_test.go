package services

import (
	"context"
	"strings"
	"testing"

	"github.com/hellowhq67/pte-practice-service/internal/events"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newImportFixture(t *testing.T) (*MockQuestionRepository, *events.MockEventPublisher, ImportService) {
	t.Helper()
	questions := new(MockQuestionRepository)
	publisher := events.NewMockEventPublisher()
	svc := NewImportService(questions, publisher, testLogger(), utils.NewValidator())
	return questions, publisher, svc
}

const importCSV = `type,title,prompt,options,answer_key,difficulty
reading_mc_single,Pick one,Which statement is true?,"[{""id"":""a"",""text"":""First""},{""id"":""b"",""text"":""Second""}]","{""option"":""b""}",Easy
write_essay,City life,Discuss city life.,,,Medium
bad_type,Broken row,,,,
write_from_dictation,Dictation,,,"{""text"":""The lecture starts at nine.""}",Hard
`

func TestImportQuestionsFromCSV(t *testing.T) {
	questions, publisher, svc := newImportFixture(t)

	questions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(qs []*models.Question) bool {
		return len(qs) == 3
	})).Return(nil)

	summary, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(importCSV), "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 3, summary.SuccessCount)
	assert.Equal(t, 1, summary.ErrorCount)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 4, summary.Errors[0].Row, "the bad_type row is row 4 of the sheet")
	assert.Equal(t, "type", summary.Errors[0].Column)

	published := publisher.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionsImported, published[0].Type)

	questions.AssertExpectations(t)
}

func TestImportQuestionsFromCSV_MissingHeader(t *testing.T) {
	_, _, svc := newImportFixture(t)

	_, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader("title\nOnly titles\n"), "admin-1")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestImportQuestionsFromCSV_DeterministicTaskNeedsKey(t *testing.T) {
	questions, _, svc := newImportFixture(t)

	csv := "type,title,answer_key\nreading_mc_single,No key here,\n"
	summary, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv), "admin-1")
	require.NoError(t, err)

	assert.Zero(t, summary.SuccessCount)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "answer_key", summary.Errors[0].Column)
	questions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
