package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/hellowhq67/pte-practice-service/internal/errors"
	"github.com/hellowhq67/pte-practice-service/internal/events"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"github.com/hellowhq67/pte-practice-service/internal/scoring"
)

// PracticeService runs the submit-score-persist flow and serves history.
type PracticeService interface {
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
	GetAttempt(ctx context.Context, id uint) (*models.PracticeAttempt, error)
	History(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error)
	UserStats(ctx context.Context, userID string) (*repositories.UserPracticeStats, error)
}

type SubmitRequest struct {
	UserID     string                  `json:"user_id" validate:"required"`
	QuestionID uint                    `json:"question_id" validate:"required"`
	Response   *models.ResponsePayload `json:"response" validate:"required"`
	TimeSpent  int                     `json:"time_spent" validate:"min=0"`
}

// SubmitResult is what the user sees right after submitting. AI-scored tasks
// come back with Pending=true; their score arrives through the AI scoring
// service instead.
type SubmitResult struct {
	AttemptID uint            `json:"attempt_id"`
	TaskType  models.TaskType `json:"task_type"`
	Score     int             `json:"score"`
	Correct   bool            `json:"correct"`
	ScoredBy  models.ScoredBy `json:"scored_by"`
	Pending   bool            `json:"pending"`
}

type practiceService struct {
	questions repositories.QuestionRepository
	attempts  repositories.AttemptRepository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validate
}

func NewPracticeService(
	questions repositories.QuestionRepository,
	attempts repositories.AttemptRepository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validate *validator.Validate,
) PracticeService {
	return &practiceService{
		questions: questions,
		attempts:  attempts,
		publisher: publisher,
		logger:    logger,
		validator: validate,
	}
}

func (s *practiceService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.ToValidationErrors(err)
	}

	question, err := s.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	attempt := &models.PracticeAttempt{
		UserID:     req.UserID,
		QuestionID: question.ID,
		TaskType:   question.Type,
		TimeSpent:  req.TimeSpent,
	}

	responseJSON, err := marshalJSON(req.Response)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	attempt.Response = responseJSON

	pending := question.Type.IsAIScored()
	if pending {
		// Scored asynchronously by the AI scorer; persisted now so the
		// attempt exists even if scoring fails.
		attempt.ScoredBy = models.ScoredAI
	} else {
		result := s.scoreDeterministic(ctx, question, req.Response)
		attempt.Score = result.Score
		attempt.Correct = result.Correct
		attempt.ScoredBy = models.ScoredDeterministic
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	if !pending {
		s.publishScored(ctx, attempt)
	}

	s.logger.Info("Attempt submitted",
		"attempt_id", attempt.ID,
		"user_id", req.UserID,
		"question_id", question.ID,
		"task_type", question.Type,
		"score", attempt.Score,
		"pending", pending)

	return &SubmitResult{
		AttemptID: attempt.ID,
		TaskType:  question.Type,
		Score:     attempt.Score,
		Correct:   attempt.Correct,
		ScoredBy:  attempt.ScoredBy,
		Pending:   pending,
	}, nil
}

// scoreDeterministic never fails the submission: a missing or malformed key
// degrades to a zero score with a warning, so one bad question cannot block
// practice.
func (s *practiceService) scoreDeterministic(ctx context.Context, question *models.Question, resp *models.ResponsePayload) scoring.Result {
	key, err := question.Key()
	if err != nil {
		s.logger.WarnContext(ctx, "Question has malformed answer key, scoring zero",
			"question_id", question.ID,
			"task_type", question.Type,
			"error", err)
		return scoring.Result{}
	}
	// A nil key scores zero for every rule except the word-count band, which
	// falls back to its standard 50-70 band.
	if key == nil && question.Type != models.SummarizeSpokenText {
		s.logger.WarnContext(ctx, "Question has no answer key, scoring zero",
			"question_id", question.ID,
			"task_type", question.Type)
	}
	return scoring.Score(question.Type, key, resp)
}

// publishScored is best-effort: a broker outage must not fail the submission.
func (s *practiceService) publishScored(ctx context.Context, attempt *models.PracticeAttempt) {
	event := events.NewPracticeEvent(events.EventAttemptScored, events.AttemptScoredEvent{
		AttemptID:  attempt.ID,
		UserID:     attempt.UserID,
		QuestionID: attempt.QuestionID,
		TaskType:   attempt.TaskType,
		Score:      attempt.Score,
		Correct:    attempt.Correct,
		ScoredBy:   attempt.ScoredBy,
		ScoredAt:   time.Now().UTC(),
	})
	if err := s.publisher.PublishPracticeEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish attempt scored event",
			"attempt_id", attempt.ID,
			"error", err)
	}
}

func (s *practiceService) GetAttempt(ctx context.Context, id uint) (*models.PracticeAttempt, error) {
	attempt, err := s.attempts.GetByIDWithQuestion(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return attempt, nil
}

func (s *practiceService) History(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	return s.attempts.GetByUser(ctx, userID, filters)
}

func (s *practiceService) UserStats(ctx context.Context, userID string) (*repositories.UserPracticeStats, error) {
	return s.attempts.GetUserStats(ctx, userID)
}
