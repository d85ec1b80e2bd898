package models

import "time"

// Polarity represents directional sentiment classification
type Polarity string

const (
	PolarityBullish Polarity = "bullish"
	PolarityBearish Polarity = "bearish"
	PolarityNeutral Polarity = "neutral"
)

// Sign returns +1 for bullish, -1 for bearish, 0 for neutral
func (p Polarity) Sign() int {
	switch p {
	case PolarityBullish:
		return 1
	case PolarityBearish:
		return -1
	}
	return 0
}

// Valid reports whether p is a known polarity value
func (p Polarity) Valid() bool {
	switch p {
	case PolarityBullish, PolarityBearish, PolarityNeutral:
		return true
	}
	return false
}

// SentimentRecord is the structured extraction result for one article.
// Produced exactly once per successfully extracted article; Timestamp is
// inherited from the source article.
type SentimentRecord struct {
	ArticleID string    `json:"article_id"`
	Polarity  Polarity  `json:"polarity"`
	Magnitude float64   `json:"magnitude"` // 0..1
	EventTags []string  `json:"event_tags"`
	Reasoning string    `json:"reasoning"`
	Timestamp time.Time `json:"timestamp"`
}

// FailedExtraction records an article dropped from the sentiment set
type FailedExtraction struct {
	ArticleID string `json:"article_id"`
	Reason    string `json:"reason"`
}
