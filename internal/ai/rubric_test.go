package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScoringRequest(t *testing.T) {
	req, err := BuildScoringRequest(models.WriteEssay, "Do advantages of city life outweigh the disadvantages?", "My essay text.")
	require.NoError(t, err)

	assert.NotEmpty(t, req.System)
	assert.Contains(t, req.User, "content (0-3)")
	assert.Contains(t, req.User, "My essay text.")
	assert.Contains(t, req.User, "city life")
	assert.NotNil(t, req.Schema)
	assert.Zero(t, req.Temperature)
}

func TestBuildScoringRequest_UnknownTask(t *testing.T) {
	_, err := BuildScoringRequest(models.ReadingMCSingle, "p", "s")
	require.Error(t, err)
}

func TestSupportsTask(t *testing.T) {
	assert.True(t, SupportsTask(models.WriteEssay))
	assert.True(t, SupportsTask(models.ReadAloud))
	assert.False(t, SupportsTask(models.WriteFromDictation))
}

func TestReportSchema_AcceptsWellFormedReport(t *testing.T) {
	report := `{
		"overall": 72,
		"criteria": [
			{"name": "content", "score": 2, "max": 3, "comment": "mostly on topic"},
			{"name": "form", "score": 2, "max": 2}
		],
		"feedback": ["Develop the second argument further."]
	}`

	mock := &MockProvider{Responses: []json.RawMessage{json.RawMessage(report)}}
	resp, err := mock.Generate(context.Background(), Request{Schema: ReportSchema()})
	require.NoError(t, err)

	var decoded models.AIReport
	require.NoError(t, json.Unmarshal(resp.Content, &decoded))
	assert.Equal(t, 72, decoded.Overall)
	assert.Len(t, decoded.Criteria, 2)
}

func TestReportSchema_RejectsMalformedReport(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "overall out of range", body: `{"overall": 120, "criteria": [], "feedback": []}`},
		{name: "missing feedback", body: `{"overall": 70, "criteria": []}`},
		{name: "not json", body: `overall: seventy`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &MockProvider{Responses: []json.RawMessage{json.RawMessage(tc.body)}}
			_, err := mock.Generate(context.Background(), Request{Schema: ReportSchema()})
			require.Error(t, err)

			var inv *ErrInvalidResponse
			assert.True(t, errors.As(err, &inv))
		})
	}
}
