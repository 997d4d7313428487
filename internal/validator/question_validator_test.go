package validator

import (
	"testing"

	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func question(taskType models.TaskType, options, key string) *models.Question {
	q := &models.Question{Type: taskType, Title: "Sample"}
	if options != "" {
		q.Options = datatypes.JSON(options)
	}
	if key != "" {
		q.AnswerKey = datatypes.JSON(key)
	}
	return q
}

const twoOptions = `[{"id":"a","text":"First"},{"id":"b","text":"Second"}]`

func TestValidateQuestion(t *testing.T) {
	v := NewQuestionValidator()

	tests := []struct {
		name    string
		q       *models.Question
		wantErr string
	}{
		{
			name: "single choice ok",
			q:    question(models.ReadingMCSingle, twoOptions, `{"option":"b"}`),
		},
		{
			name:    "single choice key not among options",
			q:       question(models.ReadingMCSingle, twoOptions, `{"option":"z"}`),
			wantErr: "not among the question's options",
		},
		{
			name:    "single choice needs distractor",
			q:       question(models.ListeningMCSingle, `[{"id":"a","text":"Only"}]`, `{"option":"a"}`),
			wantErr: "at least two options",
		},
		{
			name: "multiple choice ok",
			q: question(models.ReadingMCMultiple,
				`[{"id":"a","text":"A"},{"id":"b","text":"B"},{"id":"c","text":"C"}]`,
				`{"options":["a","c"]}`),
		},
		{
			name:    "multiple choice every option correct",
			q:       question(models.ReadingMCMultiple, twoOptions, `{"options":["a","b"]}`),
			wantErr: "at least one distractor",
		},
		{
			name: "ordering ok",
			q: question(models.ReorderParagraphs,
				`[{"id":"p1","text":"One"},{"id":"p2","text":"Two"},{"id":"p3","text":"Three"}]`,
				`{"order":["p2","p1","p3"]}`),
		},
		{
			name: "ordering must cover every paragraph",
			q: question(models.ReorderParagraphs,
				`[{"id":"p1","text":"One"},{"id":"p2","text":"Two"},{"id":"p3","text":"Three"}]`,
				`{"order":["p2","p1"]}`),
			wantErr: "cover every paragraph",
		},
		{
			name: "ordering rejects duplicates",
			q: question(models.ReorderParagraphs,
				`[{"id":"p1","text":"One"},{"id":"p2","text":"Two"}]`,
				`{"order":["p1","p1"]}`),
			wantErr: "appears twice",
		},
		{
			name: "blanks ok",
			q:    question(models.ReadingFillBlanks, "", `{"blanks":{"b1":"economy","b2":"growth"}}`),
		},
		{
			name:    "blank with empty value",
			q:       question(models.ListeningFillBlanks, "", `{"blanks":{"b1":""}}`),
			wantErr: "empty correct value",
		},
		{
			name: "highlight positions ok",
			q:    question(models.HighlightIncorrectWords, "", `{"positions":[3,7,12]}`),
		},
		{
			name:    "highlight negative position",
			q:       question(models.HighlightIncorrectWords, "", `{"positions":[-1]}`),
			wantErr: "negative",
		},
		{
			name: "dictation ok",
			q:    question(models.WriteFromDictation, "", `{"text":"The lecture starts at nine."}`),
		},
		{
			name:    "dictation without reference sentence",
			q:       question(models.WriteFromDictation, "", `{"blanks":{}}`),
			wantErr: "reference sentence",
		},
		{
			name: "summarize spoken text custom band",
			q:    question(models.SummarizeSpokenText, "", `{"min_words":40,"max_words":60}`),
		},
		{
			name: "summarize spoken text without key uses default band",
			q:    question(models.SummarizeSpokenText, "", ""),
		},
		{
			name:    "inverted word band",
			q:       question(models.SummarizeSpokenText, "", `{"min_words":80,"max_words":60}`),
			wantErr: "exceeds max_words",
		},
		{
			name: "ai scored task needs no key",
			q:    question(models.WriteEssay, "", ""),
		},
		{
			name:    "deterministic task without key",
			q:       question(models.ReadingMCSingle, twoOptions, ""),
			wantErr: "answer key is required",
		},
		{
			name:    "unknown task type",
			q:       question(models.TaskType("karaoke"), "", `{"text":"x"}`),
			wantErr: "unsupported task type",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateQuestion(tc.q)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateBatch(t *testing.T) {
	v := NewQuestionValidator()

	err := v.ValidateBatch(nil)
	require.Error(t, err)

	err = v.ValidateBatch([]*models.Question{
		question(models.WriteFromDictation, "", `{"text":"ok"}`),
		question(models.ReadingMCSingle, twoOptions, `{"option":"z"}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question 2")
}
