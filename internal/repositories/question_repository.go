package repositories

import (
	"context"

	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// QuestionRepository interface for question bank operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// Bulk operations
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetBySection(ctx context.Context, section models.Section, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByType(ctx context.Context, taskType models.TaskType, filters QuestionFilters) ([]*models.Question, int64, error)
	GetRandomQuestions(ctx context.Context, filters RandomQuestionFilters) ([]*models.Question, error)

	// Statistics
	GetQuestionStats(ctx context.Context, id uint) (*QuestionStats, error)
	CountByType(ctx context.Context) (map[models.TaskType]int, error)
}
