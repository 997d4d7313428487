package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Section string

const (
	SectionSpeaking  Section = "speaking"
	SectionWriting   Section = "writing"
	SectionReading   Section = "reading"
	SectionListening Section = "listening"
)

// TaskType identifies one of the PTE practice task types.
type TaskType string

const (
	// Speaking
	ReadAloud           TaskType = "read_aloud"
	RepeatSentence      TaskType = "repeat_sentence"
	DescribeImage       TaskType = "describe_image"
	RetellLecture       TaskType = "retell_lecture"
	AnswerShortQuestion TaskType = "answer_short_question"

	// Writing
	SummarizeWrittenText TaskType = "summarize_written_text"
	WriteEssay           TaskType = "write_essay"

	// Reading
	ReadingMCSingle          TaskType = "reading_mc_single"
	ReadingMCMultiple        TaskType = "reading_mc_multiple"
	ReorderParagraphs        TaskType = "reorder_paragraphs"
	ReadingFillBlanks        TaskType = "reading_fill_blanks"
	ReadingWritingFillBlanks TaskType = "reading_writing_fill_blanks"

	// Listening
	SummarizeSpokenText     TaskType = "summarize_spoken_text"
	ListeningMCSingle       TaskType = "listening_mc_single"
	ListeningMCMultiple     TaskType = "listening_mc_multiple"
	ListeningFillBlanks     TaskType = "listening_fill_blanks"
	HighlightCorrectSummary TaskType = "highlight_correct_summary"
	SelectMissingWord       TaskType = "select_missing_word"
	HighlightIncorrectWords TaskType = "highlight_incorrect_words"
	WriteFromDictation      TaskType = "write_from_dictation"
)

// AllTaskTypes lists every supported task type, grouped by section.
var AllTaskTypes = []TaskType{
	ReadAloud, RepeatSentence, DescribeImage, RetellLecture, AnswerShortQuestion,
	SummarizeWrittenText, WriteEssay,
	ReadingMCSingle, ReadingMCMultiple, ReorderParagraphs, ReadingFillBlanks, ReadingWritingFillBlanks,
	SummarizeSpokenText, ListeningMCSingle, ListeningMCMultiple, ListeningFillBlanks,
	HighlightCorrectSummary, SelectMissingWord, HighlightIncorrectWords, WriteFromDictation,
}

var taskSections = map[TaskType]Section{
	ReadAloud:           SectionSpeaking,
	RepeatSentence:      SectionSpeaking,
	DescribeImage:       SectionSpeaking,
	RetellLecture:       SectionSpeaking,
	AnswerShortQuestion: SectionSpeaking,

	SummarizeWrittenText: SectionWriting,
	WriteEssay:           SectionWriting,

	ReadingMCSingle:          SectionReading,
	ReadingMCMultiple:        SectionReading,
	ReorderParagraphs:        SectionReading,
	ReadingFillBlanks:        SectionReading,
	ReadingWritingFillBlanks: SectionReading,

	SummarizeSpokenText:     SectionListening,
	ListeningMCSingle:       SectionListening,
	ListeningMCMultiple:     SectionListening,
	ListeningFillBlanks:     SectionListening,
	HighlightCorrectSummary: SectionListening,
	SelectMissingWord:       SectionListening,
	HighlightIncorrectWords: SectionListening,
	WriteFromDictation:      SectionListening,
}

func (t TaskType) Section() Section {
	return taskSections[t]
}

func (t TaskType) Valid() bool {
	_, ok := taskSections[t]
	return ok
}

// aiScoredTasks are the open-ended tasks whose content quality cannot be
// scored deterministically; they go through the external AI scorer instead.
var aiScoredTasks = map[TaskType]bool{
	ReadAloud:            true,
	RepeatSentence:       true,
	DescribeImage:        true,
	RetellLecture:        true,
	AnswerShortQuestion:  true,
	SummarizeWrittenText: true,
	WriteEssay:           true,
}

func (t TaskType) IsAIScored() bool {
	return aiScoredTasks[t]
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

// Question is a single practice item. Immutable at practice time; created
// by content seeding (xlsx import or the admin API).
type Question struct {
	ID      uint     `json:"id" gorm:"primaryKey"`
	Type    TaskType `json:"type" gorm:"not null;size:50;index" validate:"required,task_type"`
	Section Section  `json:"section" gorm:"not null;size:20;index" validate:"omitempty,section"`
	Title   string   `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Prompt  string   `json:"prompt" gorm:"type:text" validate:"max=10000"`

	// MediaURL points at the audio clip or image the task is built around,
	// for listening/speaking/describe-image tasks.
	MediaURL *string `json:"media_url" gorm:"size:500" validate:"omitempty,url"`

	// Options holds the selectable choices ([]QuestionOption) for
	// choice-based tasks, or the draggable paragraphs for reordering.
	Options datatypes.JSON `json:"options" gorm:"type:jsonb"`

	// AnswerKey is the type-dependent reference data (AnswerKey). Absent for
	// AI-scored tasks, which carry no deterministic key.
	AnswerKey datatypes.JSON `json:"-" gorm:"type:jsonb"`

	Difficulty DifficultyLevel `json:"difficulty" gorm:"default:Medium;size:10" validate:"omitempty,difficulty_level"`
	TimeLimit  int             `json:"time_limit" gorm:"default:0" validate:"time_limit"` // seconds, 0 = untimed

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// BeforeSave keeps the section column consistent with the task type.
func (q *Question) BeforeSave(_ *gorm.DB) error {
	if q.Type.Valid() {
		q.Section = q.Type.Section()
	}
	return nil
}

// QuestionOption is one selectable choice or one reorderable paragraph.
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// AnswerKey is the type-dependent reference data defining what counts as a
// correct response. Only the fields relevant to the question's task type are
// populated.
type AnswerKey struct {
	// Option is the single correct option id (single-choice family).
	Option string `json:"option,omitempty"`
	// Options is the set of correct option ids (multiple-choice family).
	Options []string `json:"options,omitempty"`
	// Order is the correct sequence of item ids (reorder paragraphs).
	Order []string `json:"order,omitempty"`
	// Blanks maps blank id to its correct value (fill-in-the-blanks family).
	Blanks map[string]string `json:"blanks,omitempty"`
	// Text is the exact reference sentence (write from dictation).
	Text string `json:"text,omitempty"`
	// Positions are the zero-based transcript positions of the incorrect
	// words (highlight incorrect words).
	Positions []int `json:"positions,omitempty"`
	// MinWords/MaxWords define the target word-count band for length-banded
	// free text (summarize spoken text).
	MinWords int `json:"min_words,omitempty"`
	MaxWords int `json:"max_words,omitempty"`
}

// Key decodes the stored answer key. Returns (nil, nil) when no key is
// configured, which callers must treat as "score zero", not as an error.
func (q *Question) Key() (*AnswerKey, error) {
	if len(q.AnswerKey) == 0 {
		return nil, nil
	}
	var key AnswerKey
	if err := json.Unmarshal(q.AnswerKey, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// DecodeOptions decodes the stored option list. Empty when the task has no
// selectable choices.
func (q *Question) DecodeOptions() ([]QuestionOption, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []QuestionOption
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
