package scoring

import (
	"testing"

	"github.com/hellowhq67/pte-practice-service/internal/models"
)

func TestScore_SingleChoice(t *testing.T) {
	key := &models.AnswerKey{Option: "b"}

	tests := []struct {
		name     string
		taskType models.TaskType
		resp     *models.ResponsePayload
		correct  bool
		score    int
	}{
		{name: "correct selection", taskType: models.ReadingMCSingle, resp: &models.ResponsePayload{Selected: []string{"b"}}, correct: true, score: 100},
		{name: "wrong selection", taskType: models.ReadingMCSingle, resp: &models.ResponsePayload{Selected: []string{"a"}}, correct: false, score: 0},
		{name: "empty selection is incorrect", taskType: models.ReadingMCSingle, resp: &models.ResponsePayload{}, correct: false, score: 0},
		{name: "two selections are incorrect", taskType: models.ReadingMCSingle, resp: &models.ResponsePayload{Selected: []string{"a", "b"}}, correct: false, score: 0},
		{name: "highlight summary uses same rule", taskType: models.HighlightCorrectSummary, resp: &models.ResponsePayload{Selected: []string{"b"}}, correct: true, score: 100},
		{name: "select missing word uses same rule", taskType: models.SelectMissingWord, resp: &models.ResponsePayload{Selected: []string{"c"}}, correct: false, score: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertResult(t, Score(tc.taskType, key, tc.resp), tc.correct, tc.score)
		})
	}
}

func TestScore_MultipleChoice(t *testing.T) {
	key := &models.AnswerKey{Options: []string{"a", "c"}}

	tests := []struct {
		name    string
		resp    *models.ResponsePayload
		correct bool
		score   int
	}{
		{name: "exact set scores full", resp: &models.ResponsePayload{Selected: []string{"c", "a"}}, correct: true, score: 100},
		{name: "one of two", resp: &models.ResponsePayload{Selected: []string{"a"}}, correct: false, score: 50},
		{name: "one extra cancels one hit", resp: &models.ResponsePayload{Selected: []string{"a", "b", "c"}}, correct: false, score: 50},
		{name: "all wrong floors at zero", resp: &models.ResponsePayload{Selected: []string{"b", "d", "e"}}, correct: false, score: 0},
		{name: "superset never beats exact subset", resp: &models.ResponsePayload{Selected: []string{"a", "b", "c", "d"}}, correct: false, score: 0},
		{name: "nothing selected", resp: &models.ResponsePayload{}, correct: false, score: 0},
		{name: "duplicate ids count once", resp: &models.ResponsePayload{Selected: []string{"a", "a"}}, correct: false, score: 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertResult(t, Score(models.ReadingMCMultiple, key, tc.resp), tc.correct, tc.score)
		})
	}
}

func TestScore_FillBlanks(t *testing.T) {
	key := &models.AnswerKey{Blanks: map[string]string{"b1": "Paris", "b2": "Seine"}}

	tests := []struct {
		name    string
		resp    *models.ResponsePayload
		correct bool
		score   int
	}{
		{name: "all blanks match", resp: &models.ResponsePayload{Blanks: map[string]string{"b1": "Paris", "b2": "Seine"}}, correct: true, score: 100},
		{name: "comparison is case-insensitive and trimmed", resp: &models.ResponsePayload{Blanks: map[string]string{"b1": " paris ", "b2": "SEINE"}}, correct: true, score: 100},
		{name: "one of two", resp: &models.ResponsePayload{Blanks: map[string]string{"b1": "Paris", "b2": "Thames"}}, correct: false, score: 50},
		{name: "missing blank counts incorrect", resp: &models.ResponsePayload{Blanks: map[string]string{"b1": "Paris"}}, correct: false, score: 50},
		{name: "no blanks filled", resp: &models.ResponsePayload{}, correct: false, score: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertResult(t, Score(models.ReadingFillBlanks, key, tc.resp), tc.correct, tc.score)
		})
	}
}

func TestScore_Ordering(t *testing.T) {
	key := &models.AnswerKey{Order: []string{"p1", "p2", "p3", "p4"}}

	tests := []struct {
		name    string
		key     *models.AnswerKey
		resp    *models.ResponsePayload
		correct bool
		score   int
	}{
		{name: "correct order scores full", key: key, resp: &models.ResponsePayload{Order: []string{"p1", "p2", "p3", "p4"}}, correct: true, score: 100},
		{name: "fully reversed has no correct pairs", key: key, resp: &models.ResponsePayload{Order: []string{"p4", "p3", "p2", "p1"}}, correct: false, score: 0},
		{name: "one adjacent pair preserved", key: key, resp: &models.ResponsePayload{Order: []string{"p2", "p3", "p1", "p4"}}, correct: false, score: 33},
		{name: "two adjacent pairs preserved", key: key, resp: &models.ResponsePayload{Order: []string{"p4", "p1", "p2", "p3"}}, correct: false, score: 67},
		{name: "single item list scores full", key: &models.AnswerKey{Order: []string{"p1"}}, resp: &models.ResponsePayload{Order: []string{"p1"}}, correct: true, score: 100},
		{name: "empty response", key: key, resp: &models.ResponsePayload{}, correct: false, score: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertResult(t, Score(models.ReorderParagraphs, tc.key, tc.resp), tc.correct, tc.score)
		})
	}
}

func TestScore_HighlightIncorrectWords(t *testing.T) {
	key := &models.AnswerKey{Positions: []int{3, 7, 12}}

	tests := []struct {
		name    string
		resp    *models.ResponsePayload
		correct bool
		score   int
	}{
		{name: "all and only the incorrect words", resp: &models.ResponsePayload{Positions: []int{3, 7, 12}}, correct: true, score: 100},
		{name: "two of three", resp: &models.ResponsePayload{Positions: []int{3, 7}}, correct: false, score: 67},
		{name: "over-highlighting is penalized", resp: &models.ResponsePayload{Positions: []int{3, 7, 12, 5}}, correct: false, score: 67},
		{name: "penalty floors at zero", resp: &models.ResponsePayload{Positions: []int{1, 2, 4, 5, 6}}, correct: false, score: 0},
		{name: "nothing highlighted", resp: &models.ResponsePayload{}, correct: false, score: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertResult(t, Score(models.HighlightIncorrectWords, key, tc.resp), tc.correct, tc.score)
		})
	}
}

func TestScore_Dictation(t *testing.T) {
	key := &models.AnswerKey{Text: "The lecture covers climate change in detail."}

	tests := []struct {
		name    string
		resp    *models.ResponsePayload
		correct bool
		score   int
	}{
		{name: "exact text scores full", resp: &models.ResponsePayload{Text: "The lecture covers climate change in detail."}, correct: true, score: 100},
		{name: "punctuation and case are ignored", resp: &models.ResponsePayload{Text: "the lecture covers climate change in detail"}, correct: true, score: 100},
		{name: "empty text scores zero", resp: &models.ResponsePayload{Text: ""}, correct: false, score: 0},
		{name: "one wrong word", resp: &models.ResponsePayload{Text: "The lecture covers climate policy in detail."}, correct: false, score: 86},
		{name: "six of seven stays below the threshold", resp: &models.ResponsePayload{Text: "A lecture covers climate change in detail."}, correct: false, score: 86},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertResult(t, Score(models.WriteFromDictation, key, tc.resp), tc.correct, tc.score)
		})
	}
}

// TestScore_DictationPositionalCascade pins the index-by-index comparison: a
// single omitted word shifts every later word and the score collapses even
// though the transcription is otherwise right. Replacing this with a real
// sequence alignment would be a behavior change, not a refactor.
func TestScore_DictationPositionalCascade(t *testing.T) {
	key := &models.AnswerKey{Text: "the quick brown fox jumps over the lazy dog"}

	// "quick" omitted: only index 0 still lines up, 1/9 rounds to 11.
	got := Score(models.WriteFromDictation, key, &models.ResponsePayload{
		Text: "the brown fox jumps over the lazy dog",
	})
	assertResult(t, got, false, 11)

	// One word inserted up front: nothing lines up.
	got = Score(models.WriteFromDictation, key, &models.ResponsePayload{
		Text: "so the quick brown fox jumps over the lazy dog",
	})
	assertResult(t, got, false, 0)
}

func TestScore_LengthBand(t *testing.T) {
	tests := []struct {
		name    string
		words   int
		correct bool
		score   int
	}{
		{name: "inside the band", words: 60, correct: true, score: 70},
		{name: "lower bound inclusive", words: 50, correct: true, score: 70},
		{name: "upper bound inclusive", words: 70, correct: true, score: 70},
		{name: "slightly short", words: 45, correct: false, score: 50},
		{name: "slightly long", words: 78, correct: false, score: 50},
		{name: "far too short", words: 10, correct: false, score: 30},
		{name: "far too long", words: 120, correct: false, score: 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := &models.ResponsePayload{Text: words(tc.words)}
			assertResult(t, Score(models.SummarizeSpokenText, nil, resp), tc.correct, tc.score)
		})
	}
}

func TestScore_LengthBandCustomKey(t *testing.T) {
	key := &models.AnswerKey{MinWords: 200, MaxWords: 300}
	assertResult(t, Score(models.SummarizeSpokenText, key, &models.ResponsePayload{Text: words(250)}), true, 70)
	assertResult(t, Score(models.SummarizeSpokenText, key, &models.ResponsePayload{Text: words(195)}), false, 50)
	assertResult(t, Score(models.SummarizeSpokenText, key, &models.ResponsePayload{Text: words(60)}), false, 30)
}

// TestScore_MissingKeyDegradesToZero: scoring never fails hard. A question
// with no configured key is a content-authoring bug and scores zero, it does
// not panic or error.
func TestScore_MissingKeyDegradesToZero(t *testing.T) {
	resp := &models.ResponsePayload{
		Selected:  []string{"a"},
		Order:     []string{"p1", "p2"},
		Blanks:    map[string]string{"b1": "x"},
		Text:      "some words here",
		Positions: []int{1},
	}

	for _, taskType := range []models.TaskType{
		models.ReadingMCSingle,
		models.ReadingMCMultiple,
		models.ReadingFillBlanks,
		models.ReorderParagraphs,
		models.HighlightIncorrectWords,
		models.WriteFromDictation,
	} {
		t.Run(string(taskType), func(t *testing.T) {
			assertResult(t, Score(taskType, nil, resp), false, 0)
			assertResult(t, Score(taskType, &models.AnswerKey{}, resp), false, 0)
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	key := &models.AnswerKey{Options: []string{"a", "c"}}
	resp := &models.ResponsePayload{Selected: []string{"a", "b", "c"}}

	first := Score(models.ReadingMCMultiple, key, resp)
	for i := 0; i < 5; i++ {
		if got := Score(models.ReadingMCMultiple, key, resp); got != first {
			t.Fatalf("call %d: expected %+v, got %+v", i, first, got)
		}
	}
	assertResult(t, first, false, 50)
}

func TestScore_NilResponse(t *testing.T) {
	key := &models.AnswerKey{Option: "a"}
	assertResult(t, Score(models.ReadingMCSingle, key, nil), false, 0)
}

func TestScorable(t *testing.T) {
	if !Scorable(models.WriteFromDictation) {
		t.Fatal("write_from_dictation should have a deterministic rule")
	}
	if Scorable(models.WriteEssay) {
		t.Fatal("write_essay is AI-scored, not deterministic")
	}
	// AI-scored types fall through to a zero result rather than panicking.
	assertResult(t, Score(models.WriteEssay, nil, &models.ResponsePayload{Text: "essay"}), false, 0)
}

func assertResult(t *testing.T, got Result, correct bool, score int) {
	t.Helper()
	if got.Correct != correct {
		t.Fatalf("expected correct=%v, got=%v (score=%d)", correct, got.Correct, got.Score)
	}
	if got.Score != score {
		t.Fatalf("expected score=%d, got=%d", score, got.Score)
	}
	if got.Score < 0 || got.Score > 100 {
		t.Fatalf("score %d outside [0,100]", got.Score)
	}
}

func words(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += " "
		}
		s += "word"
	}
	return s
}
