package postgres

import (
	"fmt"

	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers holds query-building logic used by more than one repository.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"type":       true,
	"difficulty": true,
	"score":      true,
}

// ApplyPaginationAndSort appends ORDER BY / LIMIT / OFFSET clauses. Sort
// columns are whitelisted; anything else falls back to created_at desc.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// ApplyQuestionFilters applies the optional question filters to a query.
func (h *SharedHelpers) ApplyQuestionFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Section != nil {
		query = query.Where("section = ?", *filters.Section)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	return query
}

// ApplyAttemptFilters applies the optional attempt filters to a query.
func (h *SharedHelpers) ApplyAttemptFilters(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.QuestionID != nil {
		query = query.Where("question_id = ?", *filters.QuestionID)
	}
	if filters.TaskType != nil {
		query = query.Where("task_type = ?", *filters.TaskType)
	}
	if filters.ScoredBy != nil {
		query = query.Where("scored_by = ?", *filters.ScoredBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
