package postgres

import (
	"context"

	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (q QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Save(question).Error
}

func (q QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

func (q QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).CreateInBatches(questions, 100).Error
}

func (q QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	var questions []*models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := q.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	var questions []*models.Question
	var total int64

	// apply filters first
	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = q.helpers.ApplyQuestionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (q QuestionPostgreSQL) GetBySection(ctx context.Context, section models.Section, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters.Section = &section
	return q.List(ctx, filters)
}

func (q QuestionPostgreSQL) GetByType(ctx context.Context, taskType models.TaskType, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters.Type = &taskType
	return q.List(ctx, filters)
}

func (q QuestionPostgreSQL) GetRandomQuestions(ctx context.Context, filters repositories.RandomQuestionFilters) ([]*models.Question, error) {
	var questions []*models.Question

	count := filters.Count
	if count <= 0 {
		count = 1
	}

	query := q.db.WithContext(ctx).Model(&models.Question{})
	if filters.Section != nil {
		query = query.Where("section = ?", *filters.Section)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if len(filters.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filters.ExcludeIDs)
	}

	if err := query.Order("RANDOM()").Limit(count).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionPostgreSQL) GetQuestionStats(ctx context.Context, id uint) (*repositories.QuestionStats, error) {
	var stats repositories.QuestionStats
	var attemptCount, correctCount int64
	var avgScore, avgTimeSpent float64

	if err := q.db.WithContext(ctx).
		Model(&models.PracticeAttempt{}).
		Where("question_id = ?", id).
		Count(&attemptCount).Error; err != nil {
		return nil, err
	}

	if attemptCount > 0 {
		if err := q.db.WithContext(ctx).
			Model(&models.PracticeAttempt{}).
			Where("question_id = ? AND correct = true", id).
			Count(&correctCount).Error; err != nil {
			return nil, err
		}

		row := q.db.WithContext(ctx).
			Model(&models.PracticeAttempt{}).
			Where("question_id = ?", id).
			Select("AVG(score), AVG(time_spent)").
			Row()
		if err := row.Scan(&avgScore, &avgTimeSpent); err != nil {
			return nil, err
		}
	}

	stats = repositories.QuestionStats{
		AttemptCount:     int(attemptCount),
		AverageScore:     avgScore,
		AverageTimeSpent: int(avgTimeSpent),
	}
	if attemptCount > 0 {
		stats.CorrectRate = float64(correctCount) / float64(attemptCount)
	}
	return &stats, nil
}

func (q QuestionPostgreSQL) CountByType(ctx context.Context) (map[models.TaskType]int, error) {
	type typeCount struct {
		Type  models.TaskType
		Count int
	}

	var rows []typeCount
	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskType]int, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}
