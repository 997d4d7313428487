package ai

import (
	"fmt"
	"strings"

	"github.com/hellowhq67/pte-practice-service/internal/models"
)

// Rubrics for the AI-scored task types. Each rubric names the criteria the
// model must score; the overall score follows the PTE 10-90 scale.

const scorerSystemPrompt = `You are a strict PTE Academic examiner. Score the submission against the rubric.
Award integer sub-scores per criterion and an overall score on the 10-90 PTE scale.
Base every judgment only on the submission text; do not invent content. Respond with JSON only.`

type rubric struct {
	task     string
	criteria []rubricCriterion
}

type rubricCriterion struct {
	name string
	max  int
	desc string
}

var rubrics = map[models.TaskType]rubric{
	models.WriteEssay: {
		task: "a 200-300 word argumentative essay",
		criteria: []rubricCriterion{
			{name: "content", max: 3, desc: "addresses the prompt fully with relevant, developed ideas"},
			{name: "form", max: 2, desc: "length within 200-300 words, paragraphed prose"},
			{name: "grammar", max: 2, desc: "consistent grammatical control, few errors"},
			{name: "vocabulary", max: 2, desc: "appropriate range and precision of vocabulary"},
			{name: "spelling", max: 2, desc: "correct spelling throughout"},
		},
	},
	models.SummarizeWrittenText: {
		task: "a one-sentence (5-75 word) summary of a written passage",
		criteria: []rubricCriterion{
			{name: "content", max: 2, desc: "captures the main point of the passage"},
			{name: "form", max: 1, desc: "exactly one sentence of 5-75 words"},
			{name: "grammar", max: 2, desc: "correct grammatical structure"},
			{name: "vocabulary", max: 2, desc: "appropriate word choice"},
		},
	},
	models.ReadAloud: {
		task: "a read-aloud transcript compared to the printed text",
		criteria: []rubricCriterion{
			{name: "content", max: 5, desc: "every word of the text read, nothing inserted"},
			{name: "fluency", max: 5, desc: "smooth phrasing without hesitations or restarts"},
		},
	},
	models.RepeatSentence: {
		task: "a repeated-sentence transcript compared to the heard sentence",
		criteria: []rubricCriterion{
			{name: "content", max: 3, desc: "all words repeated in the original order"},
			{name: "fluency", max: 5, desc: "natural rhythm and phrasing"},
		},
	},
	models.DescribeImage: {
		task: "a transcript describing an image",
		criteria: []rubricCriterion{
			{name: "content", max: 5, desc: "describes the key elements, trends and conclusions"},
			{name: "fluency", max: 5, desc: "connected speech without long pauses"},
		},
	},
	models.RetellLecture: {
		task: "a transcript retelling a lecture",
		criteria: []rubricCriterion{
			{name: "content", max: 5, desc: "covers the lecture's main points and relationships"},
			{name: "fluency", max: 5, desc: "coherent, connected delivery"},
		},
	},
	models.AnswerShortQuestion: {
		task: "a one-or-few-word answer to a factual question",
		criteria: []rubricCriterion{
			{name: "content", max: 1, desc: "the answer is factually the one the question asks for"},
		},
	},
}

// SupportsTask reports whether a scoring rubric exists for the task type.
func SupportsTask(t models.TaskType) bool {
	_, ok := rubrics[t]
	return ok
}

// BuildScoringRequest assembles the prompt and response schema for scoring
// one submission. Prompt and submission are kept in separate sections so the
// model cannot confuse instructions with user text.
func BuildScoringRequest(t models.TaskType, questionPrompt, submission string) (Request, error) {
	r, ok := rubrics[t]
	if !ok {
		return Request{}, fmt.Errorf("no scoring rubric for task type %q", t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task: score %s.\n\nRubric:\n", r.task)
	for _, c := range r.criteria {
		fmt.Fprintf(&b, "- %s (0-%d): %s\n", c.name, c.max, c.desc)
	}
	fmt.Fprintf(&b, "\nQuestion prompt:\n%s\n\nSubmission:\n%s\n", questionPrompt, submission)

	return Request{
		System:      scorerSystemPrompt,
		User:        b.String(),
		Schema:      ReportSchema(),
		MaxTokens:   1024,
		Temperature: 0,
	}, nil
}

// ReportSchema is the JSON Schema every scoring response must satisfy.
func ReportSchema() *Schema {
	return &Schema{
		Name: "pte-score-report",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"overall", "criteria", "feedback"},
			"properties": map[string]any{
				"overall": map[string]any{
					"type":    "integer",
					"minimum": 0,
					"maximum": 90,
				},
				"criteria": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []any{"name", "score", "max"},
						"properties": map[string]any{
							"name":    map[string]any{"type": "string"},
							"score":   map[string]any{"type": "integer", "minimum": 0},
							"max":     map[string]any{"type": "integer", "minimum": 1},
							"comment": map[string]any{"type": "string"},
						},
					},
				},
				"feedback": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
	}
}
