package repositories

import (
	"context"

	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// AttemptRepository interface for practice attempt operations
type AttemptRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, attempt *models.PracticeAttempt) error
	GetByID(ctx context.Context, id uint) (*models.PracticeAttempt, error)
	GetByIDWithQuestion(ctx context.Context, id uint) (*models.PracticeAttempt, error)
	Update(ctx context.Context, attempt *models.PracticeAttempt) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters AttemptFilters) ([]*models.PracticeAttempt, int64, error)
	GetByUser(ctx context.Context, userID string, filters AttemptFilters) ([]*models.PracticeAttempt, int64, error)
	GetByQuestion(ctx context.Context, questionID uint, filters AttemptFilters) ([]*models.PracticeAttempt, int64, error)

	// Statistics
	GetUserStats(ctx context.Context, userID string) (*UserPracticeStats, error)
}
