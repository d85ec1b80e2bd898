package models

import "time"

// ReportSection is one narrative block derived from a correlation record
type ReportSection struct {
	Date        time.Time         `json:"date"`
	Title       string            `json:"title"`
	Narrative   string            `json:"narrative"`
	Correlation CorrelationRecord `json:"correlation"`
}

// ReportSummary aggregates run-level statistics
type ReportSummary struct {
	Articles          int `json:"articles"`
	Extracted         int `json:"extracted"`
	FailedExtractions int `json:"failed_extractions"`
	Patterns          int `json:"patterns"`
	Correlations      int `json:"correlations"`

	// AgreementRate is the share of correlation records where sentiment
	// polarity matched pattern direction.
	AgreementRate    float64            `json:"agreement_rate"`
	DominantPolarity Polarity           `json:"dominant_polarity"`
	MarketTone       Direction          `json:"market_tone"`
	StrongestLink    *CorrelationRecord `json:"strongest_link,omitempty"`
}

// Report is the final human-readable output of one pipeline run
type Report struct {
	Ticker      string    `json:"ticker"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary  ReportSummary   `json:"summary"`
	Sections []ReportSection `json:"sections"`

	// Appendix: items that matched nothing, retained for completeness
	UncorrelatedSentiments []SentimentRecord  `json:"uncorrelated_sentiments"`
	UncorrelatedPatterns   []TechnicalPattern `json:"uncorrelated_patterns"`

	Warnings []string `json:"warnings"`
}
