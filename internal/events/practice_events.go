package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// EventType represents different types of practice events
type EventType string

const (
	// Attempt events
	EventAttemptScored EventType = "attempt.scored"

	// Content events
	EventQuestionsImported EventType = "questions.imported"
)

const eventSource = "pte-practice-service"

// PracticeEvent is the base envelope for all published events
type PracticeEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AttemptScoredEvent is emitted after every scored attempt, deterministic or AI.
type AttemptScoredEvent struct {
	AttemptID  uint            `json:"attempt_id"`
	UserID     string          `json:"user_id"`
	QuestionID uint            `json:"question_id"`
	TaskType   models.TaskType `json:"task_type"`
	Score      int             `json:"score"`
	Correct    bool            `json:"correct"`
	ScoredBy   models.ScoredBy `json:"scored_by"`
	ScoredAt   time.Time       `json:"scored_at"`
}

// QuestionsImportedEvent is emitted after an xlsx import finishes.
type QuestionsImportedEvent struct {
	ImportedBy   string `json:"imported_by"`
	TotalRows    int    `json:"total_rows"`
	SuccessCount int    `json:"success_count"`
	ErrorCount   int    `json:"error_count"`
}

// NewPracticeEvent wraps a payload in the standard envelope.
func NewPracticeEvent(eventType EventType, data interface{}) *PracticeEvent {
	return &PracticeEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}
