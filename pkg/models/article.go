package models

import (
	"strings"
	"time"
)

// NewsArticle represents one raw news article fetched for a ticker.
// Immutable once fetched.
type NewsArticle struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary"`
	FullText    string    `json:"full_text"`
}

// Text returns the best available body text for analysis
func (a *NewsArticle) Text() string {
	if strings.TrimSpace(a.FullText) != "" {
		return a.FullText
	}
	return a.Summary
}

// timestampFormats are the published-at layouts seen across news APIs
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a published-at string in any of the known formats
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
