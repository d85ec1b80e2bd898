package models

import "fmt"

// FetchError wraps a news or price retrieval failure
type FetchError struct {
	Source string // "news" or "prices"
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError is a per-article, non-fatal extraction failure
type ExtractionError struct {
	ArticleID string
	Reason    string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extracting article %s: %s: %v", e.ArticleID, e.Reason, e.Err)
	}
	return fmt.Sprintf("extracting article %s: %s", e.ArticleID, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InsufficientDataError means a required input is empty, which is run-fatal
type InsufficientDataError struct {
	Resource string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: no %s available", e.Resource)
}

// ConfigurationError means a window or threshold value is invalid.
// Configuration errors abort before any stage executes.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}
