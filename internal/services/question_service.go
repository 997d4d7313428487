package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hellowhq67/pte-practice-service/internal/cache"
	apperrors "github.com/hellowhq67/pte-practice-service/internal/errors"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	qvalidator "github.com/hellowhq67/pte-practice-service/internal/validator"
)

// QuestionService manages the question bank.
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest) (*models.Question, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error)
	GetRandom(ctx context.Context, filters repositories.RandomQuestionFilters) ([]*models.Question, error)
	GetStats(ctx context.Context, id uint) (*repositories.QuestionStats, error)
	CountByType(ctx context.Context) (map[models.TaskType]int, error)
}

type CreateQuestionRequest struct {
	Type       models.TaskType         `json:"type" validate:"required,task_type"`
	Title      string                  `json:"title" validate:"required,min=1,max=200"`
	Prompt     string                  `json:"prompt" validate:"max=10000"`
	MediaURL   *string                 `json:"media_url" validate:"omitempty,url"`
	Options    []models.QuestionOption `json:"options"`
	AnswerKey  *models.AnswerKey       `json:"answer_key"`
	Difficulty models.DifficultyLevel  `json:"difficulty" validate:"omitempty,difficulty_level"`
	TimeLimit  int                     `json:"time_limit" validate:"time_limit"`
}

type UpdateQuestionRequest struct {
	Title      *string                 `json:"title" validate:"omitempty,min=1,max=200"`
	Prompt     *string                 `json:"prompt" validate:"omitempty,max=10000"`
	MediaURL   *string                 `json:"media_url" validate:"omitempty,url"`
	Options    []models.QuestionOption `json:"options"`
	AnswerKey  *models.AnswerKey       `json:"answer_key"`
	Difficulty *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	TimeLimit  *int                    `json:"time_limit" validate:"omitempty,time_limit"`
}

const questionCacheTTL = 15 * time.Minute

type questionService struct {
	questions    repositories.QuestionRepository
	cache        cache.CacheService
	logger       *slog.Logger
	validator    *validator.Validate
	keyValidator *qvalidator.QuestionValidator
}

func NewQuestionService(
	questions repositories.QuestionRepository,
	cacheService cache.CacheService,
	logger *slog.Logger,
	validate *validator.Validate,
) QuestionService {
	return &questionService{
		questions:    questions,
		cache:        cacheService,
		logger:       logger,
		validator:    validate,
		keyValidator: qvalidator.NewQuestionValidator(),
	}
}

func questionCacheKey(id uint) string {
	return fmt.Sprintf("question:%d", id)
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.ToValidationErrors(err)
	}

	question, err := buildQuestion(req)
	if err != nil {
		return nil, err
	}
	if err := s.keyValidator.ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	if err := s.questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created",
		"question_id", question.ID,
		"type", question.Type,
		"difficulty", question.Difficulty)
	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var cached models.Question
	err := s.cache.Get(ctx, questionCacheKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache must not take question reads down with it.
		s.logger.Warn("Question cache read failed", "question_id", id, "error", err)
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if err := s.cache.Set(ctx, questionCacheKey(id), question, questionCacheTTL); err != nil {
		s.logger.Warn("Question cache write failed", "question_id", id, "error", err)
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.ToValidationErrors(err)
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if err := applyQuestionUpdate(question, req); err != nil {
		return nil, err
	}
	if err := s.keyValidator.ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	if err := s.questions.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	if err := s.cache.Delete(ctx, questionCacheKey(id)); err != nil {
		s.logger.Warn("Question cache invalidation failed", "question_id", id, "error", err)
	}

	s.logger.Info("Question updated", "question_id", id)
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.questions.GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if err := s.cache.Delete(ctx, questionCacheKey(id)); err != nil {
		s.logger.Warn("Question cache invalidation failed", "question_id", id, "error", err)
	}

	s.logger.Info("Question deleted", "question_id", id)
	return nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	return s.questions.List(ctx, filters)
}

func (s *questionService) GetRandom(ctx context.Context, filters repositories.RandomQuestionFilters) ([]*models.Question, error) {
	if filters.Count <= 0 {
		filters.Count = 1
	}
	if filters.Count > 20 {
		filters.Count = 20
	}
	return s.questions.GetRandomQuestions(ctx, filters)
}

func (s *questionService) GetStats(ctx context.Context, id uint) (*repositories.QuestionStats, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.questions.GetQuestionStats(ctx, id)
}

func (s *questionService) CountByType(ctx context.Context) (map[models.TaskType]int, error) {
	return s.questions.CountByType(ctx)
}

// buildQuestion assembles the model from a create request, serializing the
// options and answer key to their jsonb columns.
func buildQuestion(req *CreateQuestionRequest) (*models.Question, error) {
	question := &models.Question{
		Type:       req.Type,
		Title:      req.Title,
		Prompt:     req.Prompt,
		MediaURL:   req.MediaURL,
		Difficulty: req.Difficulty,
		TimeLimit:  req.TimeLimit,
	}
	if question.Difficulty == "" {
		question.Difficulty = models.DifficultyMedium
	}

	if len(req.Options) > 0 {
		raw, err := marshalJSON(req.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to encode options: %w", err)
		}
		question.Options = raw
	}
	if req.AnswerKey != nil {
		raw, err := marshalJSON(req.AnswerKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encode answer key: %w", err)
		}
		question.AnswerKey = raw
	}
	return question, nil
}

func applyQuestionUpdate(question *models.Question, req *UpdateQuestionRequest) error {
	if req.Title != nil {
		question.Title = *req.Title
	}
	if req.Prompt != nil {
		question.Prompt = *req.Prompt
	}
	if req.MediaURL != nil {
		question.MediaURL = req.MediaURL
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
	if req.TimeLimit != nil {
		question.TimeLimit = *req.TimeLimit
	}
	if len(req.Options) > 0 {
		raw, err := marshalJSON(req.Options)
		if err != nil {
			return fmt.Errorf("failed to encode options: %w", err)
		}
		question.Options = raw
	}
	if req.AnswerKey != nil {
		raw, err := marshalJSON(req.AnswerKey)
		if err != nil {
			return fmt.Errorf("failed to encode answer key: %w", err)
		}
		question.AnswerKey = raw
	}
	return nil
}
