package ai

import "context"

// Analysis is the raw structured output of the model for one article.
// Validation and clamping happen in the extraction adapter.
type Analysis struct {
	Polarity  string   `json:"polarity"`
	Magnitude float64  `json:"magnitude"`
	EventTags []string `json:"event_tags"`
	Reasoning string   `json:"reasoning"`
}

// Analyzer represents the structured-analysis capability. Analyze returns a
// decoded record or an error when the model output is malformed.
type Analyzer interface {
	// GetName returns provider name
	GetName() string

	// Analyze runs one model call over the prompt and decodes the result
	Analyze(ctx context.Context, prompt string) (*Analysis, error)
}
