package ai

import (
	"context"
	"encoding/json"
)

// Provider is the boundary to the externally hosted scoring model. It is
// network-bound and fallible; callers must treat every Generate call as one
// that can time out or fail, and must never substitute a fabricated score.
type Provider interface {
	// Generate sends a prompt and returns structured JSON. When the request
	// carries a Schema, the response Content is validated against it before
	// being returned.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes one scoring call to the model.
type Request struct {
	// System sets the scorer's role and constraints.
	System string

	// User is the submission-specific prompt: rubric plus the user's text or
	// audio transcript reference.
	User string

	// Schema is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness; scoring runs at 0 for repeatability.
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the validated JSON object when a Schema was set.
	Content json.RawMessage

	// Model is the model that actually served the request.
	Model string

	// Usage reports token consumption.
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
