package postgres

import (
	"context"

	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a AttemptPostgreSQL) Create(ctx context.Context, attempt *models.PracticeAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.PracticeAttempt, error) {
	var attempt models.PracticeAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) GetByIDWithQuestion(ctx context.Context, id uint) (*models.PracticeAttempt, error) {
	var attempt models.PracticeAttempt
	if err := a.db.WithContext(ctx).
		Preload("Question").
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) Update(ctx context.Context, attempt *models.PracticeAttempt) error {
	return a.db.WithContext(ctx).Save(attempt).Error
}

func (a AttemptPostgreSQL) Delete(ctx context.Context, id uint) error {
	return a.db.WithContext(ctx).Delete(&models.PracticeAttempt{}, id).Error
}

func (a AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error) {
	var attempts []*models.PracticeAttempt
	var total int64

	// apply filters first
	query := a.db.WithContext(ctx).Model(&models.PracticeAttempt{})
	query = a.helpers.ApplyAttemptFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Question").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (a AttemptPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error) {
	filters.UserID = &userID
	return a.List(ctx, filters)
}

func (a AttemptPostgreSQL) GetByQuestion(ctx context.Context, questionID uint, filters repositories.AttemptFilters) ([]*models.PracticeAttempt, int64, error) {
	filters.QuestionID = &questionID
	return a.List(ctx, filters)
}

func (a AttemptPostgreSQL) GetUserStats(ctx context.Context, userID string) (*repositories.UserPracticeStats, error) {
	var totalAttempts, correctAttempts, questionsTried int64
	var avgScore float64
	var totalTimeSpent int64

	base := func() *gorm.DB {
		return a.db.WithContext(ctx).Model(&models.PracticeAttempt{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&totalAttempts).Error; err != nil {
		return nil, err
	}
	if err := base().Where("correct = true").Count(&correctAttempts).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct("question_id").Count(&questionsTried).Error; err != nil {
		return nil, err
	}

	if totalAttempts > 0 {
		row := base().Select("AVG(score), COALESCE(SUM(time_spent), 0)").Row()
		if err := row.Scan(&avgScore, &totalTimeSpent); err != nil {
			return nil, err
		}
	}

	// Per-task-type breakdown in a single grouped query.
	type typeRow struct {
		TaskType models.TaskType
		Attempts int
		Correct  int
		AvgScore float64
	}
	var typeRows []typeRow
	if err := base().
		Select("task_type, COUNT(*) as attempts, SUM(CASE WHEN correct THEN 1 ELSE 0 END) as correct, AVG(score) as avg_score").
		Group("task_type").
		Scan(&typeRows).Error; err != nil {
		return nil, err
	}

	byType := make(map[models.TaskType]*repositories.TaskTypeStats, len(typeRows))
	for _, r := range typeRows {
		s := &repositories.TaskTypeStats{
			Attempts:     r.Attempts,
			AverageScore: r.AvgScore,
		}
		if r.Attempts > 0 {
			s.CorrectRate = float64(r.Correct) / float64(r.Attempts)
		}
		byType[r.TaskType] = s
	}

	return &repositories.UserPracticeStats{
		TotalAttempts:   int(totalAttempts),
		CorrectAttempts: int(correctAttempts),
		AverageScore:    avgScore,
		TotalTimeSpent:  int(totalTimeSpent),
		QuestionsTried:  int(questionsTried),
		ByTaskType:      byType,
	}, nil
}
