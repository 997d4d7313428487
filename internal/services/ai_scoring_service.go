package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hellowhq67/pte-practice-service/internal/ai"
	"github.com/hellowhq67/pte-practice-service/internal/events"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
)

// AIScoringService scores the open-ended speaking and writing tasks through
// the external model provider and attaches the report to the attempt.
type AIScoringService interface {
	ScoreAttempt(ctx context.Context, attemptID uint) (*models.AIReport, error)
}

type aiScoringService struct {
	attempts  repositories.AttemptRepository
	questions repositories.QuestionRepository
	provider  ai.Provider
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAIScoringService(
	attempts repositories.AttemptRepository,
	questions repositories.QuestionRepository,
	provider ai.Provider,
	publisher events.EventPublisher,
	logger *slog.Logger,
) AIScoringService {
	return &aiScoringService{
		attempts:  attempts,
		questions: questions,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
	}
}

// ScoreAttempt builds the rubric prompt for the attempt's task type, calls the
// provider, and persists the resulting report. When the provider is down the
// attempt stays unscored; a score is never fabricated.
func (s *aiScoringService) ScoreAttempt(ctx context.Context, attemptID uint) (*models.AIReport, error) {
	if s.provider == nil {
		return nil, ErrAIScoringUnavailable
	}

	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if !ai.SupportsTask(attempt.TaskType) {
		return nil, ErrTaskNotScorable
	}

	question, err := s.questions.GetByID(ctx, attempt.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	submission, err := extractSubmission(attempt)
	if err != nil {
		return nil, err
	}

	req, err := ai.BuildScoringRequest(attempt.TaskType, question.Prompt, submission)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring request: %w", err)
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.logger.Error("AI scoring failed",
			"attempt_id", attemptID,
			"task_type", attempt.TaskType,
			"error", err)
		var invalid *ai.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("%w: %s", ErrAIReportMalformed, invalid.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrAIScoringUnavailable, err.Error())
	}

	var report models.AIReport
	if err := json.Unmarshal(resp.Content, &report); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAIReportMalformed, err.Error())
	}
	report.Model = resp.Model

	if err := s.persistReport(ctx, attempt, &report); err != nil {
		return nil, err
	}

	s.publishScored(ctx, attempt)

	s.logger.Info("Attempt scored by AI",
		"attempt_id", attemptID,
		"task_type", attempt.TaskType,
		"overall", report.Overall,
		"model", report.Model)
	return &report, nil
}

func (s *aiScoringService) persistReport(ctx context.Context, attempt *models.PracticeAttempt, report *models.AIReport) error {
	reportJSON, err := marshalJSON(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	attempt.AIReport = reportJSON
	attempt.Score = percentFromOverall(report.Overall)
	attempt.Correct = attempt.Score >= 65 // rough "band 65+" pass line on the PTE scale
	attempt.ScoredBy = models.ScoredAI

	if err := s.attempts.Update(ctx, attempt); err != nil {
		return fmt.Errorf("failed to save scored attempt: %w", err)
	}
	return nil
}

func (s *aiScoringService) publishScored(ctx context.Context, attempt *models.PracticeAttempt) {
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

// extractSubmission pulls the scorable content out of the response payload.
// Speaking tasks submit a transcript in Text alongside the audio reference.
func extractSubmission(attempt *models.PracticeAttempt) (string, error) {
	resp, err := attempt.DecodeResponse()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrResponseMalformed, err.Error())
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", ErrSubmissionEmpty
	}
	return resp.Text, nil
}

// percentFromOverall maps the 10-90 PTE overall onto the 0-100 attempt score.
func percentFromOverall(overall int) int {
	if overall < 0 {
		return 0
	}
	if overall > 90 {
		return 100
	}
	return int(math.Round(float64(overall) * 100.0 / 90.0))
}
