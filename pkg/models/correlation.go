package models

// CorrelationRecord links one sentiment record to one technical pattern
// that occurred within the correlation window.
type CorrelationRecord struct {
	Sentiment SentimentRecord  `json:"sentiment"`
	Pattern   TechnicalPattern `json:"pattern"`

	// OffsetDays = pattern anchor date - sentiment date, in days.
	// Positive means the pattern followed the news.
	OffsetDays int     `json:"offset_days"`
	Confidence float64 `json:"confidence"`

	// DirectionalAgreement is true when sentiment polarity sign matches
	// pattern direction sign (neutral never agrees).
	DirectionalAgreement bool `json:"directional_agreement"`
}
