package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/hellowhq67/pte-practice-service/internal/events"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"github.com/hellowhq67/pte-practice-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPracticeFixture(t *testing.T) (*MockQuestionRepository, *MockAttemptRepository, *events.MockEventPublisher, PracticeService) {
	t.Helper()
	questions := new(MockQuestionRepository)
	attempts := new(MockAttemptRepository)
	publisher := events.NewMockEventPublisher()
	svc := NewPracticeService(questions, attempts, publisher, testLogger(), utils.NewValidator())
	return questions, attempts, publisher, svc
}

func mcQuestion(t *testing.T, id uint, key *models.AnswerKey) *models.Question {
	t.Helper()
	question := &models.Question{
		ID:    id,
		Type:  models.ReadingMCSingle,
		Title: "Choose the correct statement",
	}
	if key != nil {
		raw, err := json.Marshal(key)
		require.NoError(t, err)
		question.AnswerKey = raw
	}
	return question
}

func TestSubmit_DeterministicCorrect(t *testing.T) {
	questions, attempts, publisher, svc := newPracticeFixture(t)

	questions.On("GetByID", mock.Anything, uint(7)).
		Return(mcQuestion(t, 7, &models.AnswerKey{Option: "b"}), nil)
	attempts.On("Create", mock.Anything, mock.AnythingOfType("*models.PracticeAttempt")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.PracticeAttempt).ID = 101
		}).
		Return(nil)

	result, err := svc.Submit(context.Background(), &SubmitRequest{
		UserID:     "user-1",
		QuestionID: 7,
		Response:   &models.ResponsePayload{Selected: []string{"b"}},
		TimeSpent:  42,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(101), result.AttemptID)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Correct)
	assert.Equal(t, models.ScoredDeterministic, result.ScoredBy)
	assert.False(t, result.Pending)

	published := publisher.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAttemptScored, published[0].Type)

	questions.AssertExpectations(t)
	attempts.AssertExpectations(t)
}

func TestSubmit_MissingKeyScoresZero(t *testing.T) {
	questions, attempts, _, svc := newPracticeFixture(t)

	questions.On("GetByID", mock.Anything, uint(7)).
		Return(mcQuestion(t, 7, nil), nil)
	attempts.On("Create", mock.Anything, mock.AnythingOfType("*models.PracticeAttempt")).
		Return(nil)

	result, err := svc.Submit(context.Background(), &SubmitRequest{
		UserID:     "user-1",
		QuestionID: 7,
		Response:   &models.ResponsePayload{Selected: []string{"b"}},
	})
	require.NoError(t, err, "a question without a key must not fail the submission")
	assert.Zero(t, result.Score)
	assert.False(t, result.Correct)
}

func TestSubmit_AIScoredTaskIsPending(t *testing.T) {
	questions, attempts, publisher, svc := newPracticeFixture(t)

	questions.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Question{ID: 3, Type: models.WriteEssay, Title: "City life essay"}, nil)
	attempts.On("Create", mock.Anything, mock.AnythingOfType("*models.PracticeAttempt")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.PracticeAttempt).ID = 55
		}).
		Return(nil)

	result, err := svc.Submit(context.Background(), &SubmitRequest{
		UserID:     "user-1",
		QuestionID: 3,
		Response:   &models.ResponsePayload{Text: "My essay."},
	})
	require.NoError(t, err)

	assert.True(t, result.Pending)
	assert.Equal(t, models.ScoredAI, result.ScoredBy)
	assert.Zero(t, result.Score)
	assert.Empty(t, publisher.Published(), "no scored event until the AI report lands")
}

func TestSubmit_QuestionNotFound(t *testing.T) {
	questions, _, _, svc := newPracticeFixture(t)

	questions.On("GetByID", mock.Anything, uint(999)).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Submit(context.Background(), &SubmitRequest{
		UserID:     "user-1",
		QuestionID: 999,
		Response:   &models.ResponsePayload{Selected: []string{"a"}},
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	_, _, _, svc := newPracticeFixture(t)

	_, err := svc.Submit(context.Background(), &SubmitRequest{
		QuestionID: 7,
		Response:   &models.ResponsePayload{},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSubmit_PublisherFailureDoesNotFailSubmission(t *testing.T) {
	questions, attempts, publisher, svc := newPracticeFixture(t)
	publisher.Err = assert.AnError

	questions.On("GetByID", mock.Anything, uint(7)).
		Return(mcQuestion(t, 7, &models.AnswerKey{Option: "b"}), nil)
	attempts.On("Create", mock.Anything, mock.AnythingOfType("*models.PracticeAttempt")).
		Return(nil)

	result, err := svc.Submit(context.Background(), &SubmitRequest{
		UserID:     "user-1",
		QuestionID: 7,
		Response:   &models.ResponsePayload{Selected: []string{"b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
}

func TestHistory_CapsPageSize(t *testing.T) {
	_, attempts, _, svc := newPracticeFixture(t)

	attempts.On("GetByUser", mock.Anything, "user-1", mock.MatchedBy(func(f repositories.AttemptFilters) bool {
		return f.Limit == 20
	})).Return([]*models.PracticeAttempt{}, int64(0), nil)

	_, _, err := svc.History(context.Background(), "user-1", repositories.AttemptFilters{Limit: 500})
	require.NoError(t, err)
	attempts.AssertExpectations(t)
}
