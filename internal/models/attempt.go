package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ScoredBy records which scorer produced an attempt's score.
type ScoredBy string

const (
	ScoredDeterministic ScoredBy = "deterministic"
	ScoredAI            ScoredBy = "ai"
)

// PracticeAttempt is the persisted history record of one submission against
// one question.
type PracticeAttempt struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	UserID     string   `json:"user_id" gorm:"not null;size:255;index" validate:"required"`
	QuestionID uint     `json:"question_id" gorm:"not null;index" validate:"required"`
	TaskType   TaskType `json:"task_type" gorm:"not null;size:50;index"`

	// Response is the submitted ResponsePayload, kept verbatim so history can
	// re-render what the user answered.
	Response datatypes.JSON `json:"response" gorm:"type:jsonb"`

	Score    int      `json:"score" gorm:"not null" validate:"min=0,max=100"`
	Correct  bool     `json:"correct"`
	ScoredBy ScoredBy `json:"scored_by" gorm:"size:20;default:deterministic"`

	// AIReport holds the external scorer's report (AIReport) for essay and
	// speaking tasks. Null for deterministically scored attempts.
	AIReport datatypes.JSON `json:"ai_report,omitempty" gorm:"type:jsonb"`

	TimeSpent int       `json:"time_spent" validate:"min=0"` // seconds
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Relations
	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (PracticeAttempt) TableName() string {
	return "practice_attempts"
}

// ResponsePayload is the transient per-attempt response state collected while
// one question is displayed. Only the fields relevant to the task type are
// populated; the whole value is owned by a single submission and never shared.
type ResponsePayload struct {
	// Selected holds the chosen option id(s) for choice-based tasks.
	Selected []string `json:"selected,omitempty"`
	// Order is the user's arrangement of item ids (reorder paragraphs).
	Order []string `json:"order,omitempty"`
	// Blanks maps blank id to the typed or chosen value.
	Blanks map[string]string `json:"blanks,omitempty"`
	// Text is free-typed text (dictation, summaries, essays).
	Text string `json:"text,omitempty"`
	// Positions are the zero-based transcript positions the user highlighted.
	Positions []int `json:"positions,omitempty"`
	// AudioURL references a recorded speaking response. The recording itself
	// is uploaded elsewhere; the scorer only ever sees the reference.
	AudioURL string `json:"audio_url,omitempty"`
}

// DecodeResponse decodes the stored response payload.
func (a *PracticeAttempt) DecodeResponse() (*ResponsePayload, error) {
	if len(a.Response) == 0 {
		return nil, nil
	}
	var resp ResponsePayload
	if err := json.Unmarshal(a.Response, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AIReport is the external AI scorer's output for essay and speaking tasks.
// Overall follows the PTE 10-90 scale.
type AIReport struct {
	Overall  int              `json:"overall" validate:"min=0,max=90"`
	Criteria []CriterionScore `json:"criteria"`
	Feedback []string         `json:"feedback"`
	Model    string           `json:"model,omitempty"`
}

// CriterionScore is one rubric criterion's sub-score.
type CriterionScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Max     int    `json:"max"`
	Comment string `json:"comment,omitempty"`
}
