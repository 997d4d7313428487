package repositories

import (
	"time"

	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Section    *models.Section         `json:"section"`
	Type       *models.TaskType        `json:"type"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	SortBy     string                  `json:"sort_by"`    // "created_at", "type", "difficulty"
	SortOrder  string                  `json:"sort_order"` // "asc", "desc"
}

type RandomQuestionFilters struct {
	Section    *models.Section         `json:"section"`
	Type       *models.TaskType        `json:"type"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	ExcludeIDs []uint                  `json:"exclude_ids"`
	Count      int                     `json:"count"`
}

type AttemptFilters struct {
	UserID     *string          `json:"user_id"`
	QuestionID *uint            `json:"question_id"`
	TaskType   *models.TaskType `json:"task_type"`
	ScoredBy   *models.ScoredBy `json:"scored_by"`
	DateFrom   *time.Time       `json:"date_from"`
	DateTo     *time.Time       `json:"date_to"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	SortBy     string           `json:"sort_by"`
	SortOrder  string           `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type QuestionStats struct {
	AttemptCount     int     `json:"attempt_count"`
	CorrectRate      float64 `json:"correct_rate"`
	AverageScore     float64 `json:"average_score"`
	AverageTimeSpent int     `json:"average_time_spent"`
}

type UserPracticeStats struct {
	TotalAttempts   int                                `json:"total_attempts"`
	CorrectAttempts int                                `json:"correct_attempts"`
	AverageScore    float64                            `json:"average_score"`
	TotalTimeSpent  int                                `json:"total_time_spent"`
	QuestionsTried  int                                `json:"questions_tried"`
	ByTaskType      map[models.TaskType]*TaskTypeStats `json:"by_task_type"`
}

type TaskTypeStats struct {
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
	CorrectRate  float64 `json:"correct_rate"`
}
