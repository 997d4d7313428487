package scoring

import (
	"math"

	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// Result is the outcome of scoring one submission. Score is always in
// [0, 100]. Correct is derived from each rule's own perfect condition, not
// from the score alone: dictation passes at >= 90 and the length-banded rule
// caps below 100 by design.
type Result struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
}

// rule scores one task family. Rules are pure: same inputs, same Result, no
// errors. A missing or empty answer key degrades to zero matches.
type rule func(key *models.AnswerKey, resp *models.ResponsePayload) Result

var rules = map[models.TaskType]rule{
	models.ReadingMCSingle:         scoreSingleChoice,
	models.ListeningMCSingle:       scoreSingleChoice,
	models.HighlightCorrectSummary: scoreSingleChoice,
	models.SelectMissingWord:       scoreSingleChoice,

	models.ReadingMCMultiple:   scoreMultipleChoice,
	models.ListeningMCMultiple: scoreMultipleChoice,

	models.ReadingFillBlanks:        scoreFillBlanks,
	models.ReadingWritingFillBlanks: scoreFillBlanks,
	models.ListeningFillBlanks:      scoreFillBlanks,

	models.ReorderParagraphs:        scoreOrdering,
	models.HighlightIncorrectWords:  scoreHighlightIncorrect,
	models.WriteFromDictation:       scoreDictation,
	models.SummarizeSpokenText:      scoreLengthBand,
}

// Scorable reports whether the task type has a deterministic rule. The
// remaining types (essays, speaking) are scored by the external AI
// collaborator instead.
func Scorable(t models.TaskType) bool {
	_, ok := rules[t]
	return ok
}

// Score evaluates a submitted response against a question's answer key.
// It is a one-shot, stateless computation: nothing is retained between
// calls and identical inputs always yield identical results.
func Score(t models.TaskType, key *models.AnswerKey, resp *models.ResponsePayload) Result {
	r, ok := rules[t]
	if !ok {
		return Result{}
	}
	if resp == nil {
		resp = &models.ResponsePayload{}
	}
	return r(key, resp)
}

// ===== PER-TYPE RULES =====

// scoreSingleChoice covers MC single, highlight-correct-summary and
// select-missing-word: all or nothing, exactly one selection expected.
func scoreSingleChoice(key *models.AnswerKey, resp *models.ResponsePayload) Result {
	correct := singleChoiceSet(key)
	if len(correct) == 0 || len(resp.Selected) != 1 {
		return Result{}
	}
	if _, ok := correct[resp.Selected[0]]; ok {
		return Result{Correct: true, Score: 100}
	}
	return Result{}
}

// scoreMultipleChoice applies the PTE penalty formula: each wrong selection
// cancels one right selection, floored at zero.
func scoreMultipleChoice(key *models.AnswerKey, resp *models.ResponsePayload) Result {
	if key == nil || len(key.Options) == 0 {
		return Result{}
	}
	correctSet := make(map[string]struct{}, len(key.Options))
	for _, id := range key.Options {
		correctSet[id] = struct{}{}
	}

	var correctSelected, incorrectSelected int
	seen := make(map[string]struct{}, len(resp.Selected))
	for _, id := range resp.Selected {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := correctSet[id]; ok {
			correctSelected++
		} else {
			incorrectSelected++
		}
	}

	score := penalizedPercentage(correctSelected, incorrectSelected, len(correctSet))
	return Result{Correct: score == 100, Score: score}
}

// scoreFillBlanks awards partial credit per blank. Comparison is
// case-insensitive and whitespace-trimmed; a missing blank answer counts as
// incorrect, not as an error.
func scoreFillBlanks(key *models.AnswerKey, resp *models.ResponsePayload) Result {
	if key == nil || len(key.Blanks) == 0 {
		return Result{}
	}
	matched := 0
	for blankID, want := range key.Blanks {
		if Normalize(resp.Blanks[blankID]) == Normalize(want) {
			matched++
		}
	}
	score := percentage(matched, len(key.Blanks))
	return Result{Correct: matched == len(key.Blanks), Score: score}
}

// scoreOrdering awards credit per correctly-ordered neighboring pair rather
// than per absolute position: a user-adjacent pair counts when the two items
// are adjacent and in the same relative order in the key.
func scoreOrdering(key *models.AnswerKey, resp *models.ResponsePayload) Result {
	if key == nil || len(key.Order) == 0 {
		return Result{}
	}
	n := len(key.Order)
	// A single paragraph has no pairs to order; the only arrangement is the
	// correct one.
	if n == 1 {
		return Result{Correct: true, Score: 100}
	}

	position := make(map[string]int, n)
	for i, id := range key.Order {
		position[id] = i
	}

	matched := 0
	for i := 0; i+1 < len(resp.Order); i++ {
		a, okA := position[resp.Order[i]]
		b, okB := position[resp.Order[i+1]]
		if okA && okB && b == a+1 {
			matched++
		}
	}

	score := percentage(matched, n-1)
	return Result{Correct: matched == n-1, Score: score}
}

// scoreHighlightIncorrect penalizes over-highlighting: each correct-word
// position the user highlights cancels one true hit, floored at zero.
func scoreHighlightIncorrect(key *models.AnswerKey, resp *models.ResponsePayload) Result {
	if key == nil || len(key.Positions) == 0 {
		return Result{}
	}
	incorrectSet := make(map[int]struct{}, len(key.Positions))
	for _, p := range key.Positions {
		incorrectSet[p] = struct{}{}
	}

	var hits, misses int
	seen := make(map[int]struct{}, len(resp.Positions))
	for _, p := range resp.Positions {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if _, ok := incorrectSet[p]; ok {
			hits++
		} else {
			misses++
		}
	}

	score := penalizedPercentage(hits, misses, len(key.Positions))
	return Result{Correct: hits == len(key.Positions) && misses == 0, Score: score}
}

// scoreDictation compares each written word to the expected word at the same
// index after normalization. An inserted or omitted word shifts every
// following comparison, so a single slip cascades into mismatches; this
// positional behavior is deliberate and pinned by tests, not replaced with a
// sequence alignment.
func scoreDictation(key *models.AnswerKey, resp *models.ResponsePayload) Result {
	if key == nil {
		return Result{}
	}
	expected := Tokenize(key.Text)
	if len(expected) == 0 {
		return Result{}
	}
	written := Tokenize(resp.Text)

	matched := 0
	for i, want := range expected {
		if i < len(written) && written[i] == want {
			matched++
		}
	}

	score := percentage(matched, len(expected))
	return Result{Correct: score >= 90, Score: score}
}

// scoreLengthBand scores form only: 70 inside the target band, 50 within ten
// words of it, 30 otherwise. Content quality is the AI scorer's job.
func scoreLengthBand(key *models.AnswerKey, resp *models.ResponsePayload) Result {
	minWords, maxWords := 50, 70
	if key != nil && key.MinWords > 0 && key.MaxWords >= key.MinWords {
		minWords, maxWords = key.MinWords, key.MaxWords
	}

	wc := WordCount(resp.Text)
	switch {
	case wc >= minWords && wc <= maxWords:
		return Result{Correct: true, Score: 70}
	case wc >= minWords-10 && wc <= maxWords+10:
		return Result{Score: 50}
	default:
		return Result{Score: 30}
	}
}

// ===== AGGREGATION =====

// percentage converts a raw tally into a 0-100 integer, rounded to nearest.
func percentage(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return clamp(int(math.Round(float64(matched) / float64(total) * 100)))
}

// penalizedPercentage applies the "wrong selections cancel right ones"
// policy with a floor at zero before converting to a percentage.
func penalizedPercentage(correct, incorrect, total int) int {
	if total <= 0 {
		return 0
	}
	raw := float64(correct-incorrect) / float64(total)
	if raw < 0 {
		raw = 0
	}
	return clamp(int(math.Round(raw * 100)))
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func singleChoiceSet(key *models.AnswerKey) map[string]struct{} {
	if key == nil {
		return nil
	}
	set := make(map[string]struct{}, len(key.Options)+1)
	for _, id := range key.Options {
		set[id] = struct{}{}
	}
	if key.Option != "" {
		set[key.Option] = struct{}{}
	}
	return set
}
