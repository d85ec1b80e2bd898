package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dsokolov/newslens/internal/correlation"
	"github.com/dsokolov/newslens/pkg/models"
)

// Stage identifies a position in the run state machine. Transitions are
// strictly forward; StageFailed is terminal and reachable from any
// non-terminal stage.
type Stage int

const (
	StageInit Stage = iota
	StageNewsFetched
	StageSentimentExtracted
	StagePricesFetched
	StagePatternsDetected
	StageCorrelated
	StageReported
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageInit:               "INIT",
	StageNewsFetched:        "NEWS_FETCHED",
	StageSentimentExtracted: "SENTIMENT_EXTRACTED",
	StagePricesFetched:      "PRICES_FETCHED",
	StagePatternsDetected:   "PATTERNS_DETECTED",
	StageCorrelated:         "CORRELATED",
	StageReported:           "REPORTED",
	StageDone:               "DONE",
	StageFailed:             "FAILED",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STAGE(%d)", int(s))
}

// MarshalText makes stages readable in snapshots
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transitions are allowed
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// RunState holds everything one pipeline run accumulates. It is owned
// exclusively by the Orchestrator for the duration of the run and is never
// shared across runs; workers return values, they do not mutate it.
type RunState struct {
	RunID     string    `json:"run_id"`
	Ticker    string    `json:"ticker"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	StartedAt time.Time `json:"started_at"`

	Stage         Stage  `json:"stage"`
	FailedStage   Stage  `json:"failed_stage,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`

	Articles          []models.NewsArticle      `json:"articles"`
	Sentiments        []models.SentimentRecord  `json:"sentiments"`
	FailedExtractions []models.FailedExtraction `json:"failed_extractions"`
	Prices            models.PriceSeries        `json:"prices"`
	Patterns          []models.TechnicalPattern `json:"patterns"`
	Correlation       correlation.Result        `json:"correlation"`
	Report            *models.Report            `json:"report,omitempty"`

	Warnings []string `json:"warnings"`
}

func newRunState(ticker string, start, end time.Time) *RunState {
	return &RunState{
		RunID:     uuid.NewString(),
		Ticker:    ticker,
		Start:     start,
		End:       end,
		StartedAt: time.Now().UTC(),
		Stage:     StageInit,
	}
}

// advance moves the run to the next stage. Only the exact successor is
// legal; anything else is a programming error surfaced to the caller.
func (s *RunState) advance(next Stage) error {
	if s.Stage.Terminal() {
		return fmt.Errorf("run %s already terminal in %s", s.RunID, s.Stage)
	}
	if next != s.Stage+1 || next == StageFailed {
		return fmt.Errorf("illegal transition %s -> %s", s.Stage, next)
	}
	s.Stage = next
	return nil
}

// fail moves the run to the FAILED terminal state, recording the stage
// whose requirement was not met and the reason.
func (s *RunState) fail(stage Stage, reason error) {
	if s.Stage.Terminal() {
		return
	}
	s.FailedStage = stage
	s.FailureReason = reason.Error()
	s.Stage = StageFailed
}

// warn records a degraded-mode warning surfaced in the final report
func (s *RunState) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}
