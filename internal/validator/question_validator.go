package validator

import (
	"fmt"

	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// QuestionValidator checks that a question's answer key and options are
// consistent with its task type before the question enters the bank. A key
// that passes here can always be scored.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates the key/options shape for the question's type.
// AI-scored tasks carry no key and are accepted as-is.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if !question.Type.Valid() {
		return fmt.Errorf("unsupported task type: %s", question.Type)
	}
	if question.Type.IsAIScored() {
		return nil
	}

	key, err := question.Key()
	if err != nil {
		return fmt.Errorf("answer key is not valid JSON: %w", err)
	}
	if key == nil {
		// Summarize spoken text falls back to the standard 50-70 word band.
		if question.Type == models.SummarizeSpokenText {
			return nil
		}
		return fmt.Errorf("answer key is required for task type %s", question.Type)
	}

	options, err := question.DecodeOptions()
	if err != nil {
		return fmt.Errorf("options are not valid JSON: %w", err)
	}

	switch question.Type {
	case models.ReadingMCSingle, models.ListeningMCSingle,
		models.HighlightCorrectSummary, models.SelectMissingWord:
		return v.validateSingleChoice(key, options)
	case models.ReadingMCMultiple, models.ListeningMCMultiple:
		return v.validateMultipleChoice(key, options)
	case models.ReorderParagraphs:
		return v.validateOrdering(key, options)
	case models.ReadingFillBlanks, models.ReadingWritingFillBlanks, models.ListeningFillBlanks:
		return v.validateBlanks(key)
	case models.HighlightIncorrectWords:
		return v.validatePositions(key)
	case models.WriteFromDictation:
		return v.validateDictation(key)
	case models.SummarizeSpokenText:
		return v.validateWordBand(key)
	default:
		return fmt.Errorf("no key validation rule for task type %s", question.Type)
	}
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}
	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}
	return nil
}

func optionIDs(options []models.QuestionOption) map[string]bool {
	ids := make(map[string]bool, len(options))
	for _, o := range options {
		ids[o.ID] = true
	}
	return ids
}

func (v *QuestionValidator) validateSingleChoice(key *models.AnswerKey, options []models.QuestionOption) error {
	if key.Option == "" {
		return fmt.Errorf("single-choice key must name the correct option")
	}
	if len(options) < 2 {
		return fmt.Errorf("single-choice questions need at least two options")
	}
	if !optionIDs(options)[key.Option] {
		return fmt.Errorf("correct option %q is not among the question's options", key.Option)
	}
	return nil
}

func (v *QuestionValidator) validateMultipleChoice(key *models.AnswerKey, options []models.QuestionOption) error {
	if len(key.Options) == 0 {
		return fmt.Errorf("multiple-choice key must list the correct options")
	}
	ids := optionIDs(options)
	for _, id := range key.Options {
		if !ids[id] {
			return fmt.Errorf("correct option %q is not among the question's options", id)
		}
	}
	if len(key.Options) >= len(options) {
		return fmt.Errorf("multiple-choice questions need at least one distractor")
	}
	return nil
}

func (v *QuestionValidator) validateOrdering(key *models.AnswerKey, options []models.QuestionOption) error {
	if len(key.Order) < 2 {
		return fmt.Errorf("ordering key must list at least two items")
	}
	ids := optionIDs(options)
	seen := make(map[string]bool, len(key.Order))
	for _, id := range key.Order {
		if !ids[id] {
			return fmt.Errorf("ordered item %q is not among the question's paragraphs", id)
		}
		if seen[id] {
			return fmt.Errorf("ordered item %q appears twice", id)
		}
		seen[id] = true
	}
	if len(key.Order) != len(options) {
		return fmt.Errorf("ordering key must cover every paragraph")
	}
	return nil
}

func (v *QuestionValidator) validateBlanks(key *models.AnswerKey) error {
	if len(key.Blanks) == 0 {
		return fmt.Errorf("fill-blanks key must define at least one blank")
	}
	for id, value := range key.Blanks {
		if value == "" {
			return fmt.Errorf("blank %q has an empty correct value", id)
		}
	}
	return nil
}

func (v *QuestionValidator) validatePositions(key *models.AnswerKey) error {
	if len(key.Positions) == 0 {
		return fmt.Errorf("highlight key must list the incorrect word positions")
	}
	seen := make(map[int]bool, len(key.Positions))
	for _, p := range key.Positions {
		if p < 0 {
			return fmt.Errorf("word position %d is negative", p)
		}
		if seen[p] {
			return fmt.Errorf("word position %d appears twice", p)
		}
		seen[p] = true
	}
	return nil
}

func (v *QuestionValidator) validateDictation(key *models.AnswerKey) error {
	if key.Text == "" {
		return fmt.Errorf("dictation key must carry the reference sentence")
	}
	return nil
}

func (v *QuestionValidator) validateWordBand(key *models.AnswerKey) error {
	if key.MinWords < 0 || key.MaxWords < 0 {
		return fmt.Errorf("word-count band cannot be negative")
	}
	if key.MaxWords > 0 && key.MinWords > key.MaxWords {
		return fmt.Errorf("min_words %d exceeds max_words %d", key.MinWords, key.MaxWords)
	}
	return nil
}
