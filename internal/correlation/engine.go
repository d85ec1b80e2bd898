package correlation

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dsokolov/newslens/pkg/logger"
	"github.com/dsokolov/newslens/pkg/models"
)

const (
	// agreementBoost rewards pairs whose sentiment polarity sign matches
	// the pattern direction sign; disagreementPenalty punishes conflicts.
	agreementBoost      = 1.2
	disagreementPenalty = 0.6
)

// Result partitions the inputs: every sentiment record and every pattern
// appears either in at least one Record or in exactly one uncorrelated
// list, never both and never neither.
type Result struct {
	Records                []models.CorrelationRecord `json:"records"`
	UncorrelatedSentiments []models.SentimentRecord   `json:"uncorrelated_sentiments"`
	UncorrelatedPatterns   []models.TechnicalPattern  `json:"uncorrelated_patterns"`
}

// Engine aligns sentiment records against detected patterns by time
// proximity. Identical inputs always yield identical output ordering and
// scores.
type Engine struct {
	windowDays int
	floor      float64
}

// NewEngine creates a correlation engine with the given window (days each
// side of the event) and minimum confidence floor.
func NewEngine(windowDays int, floor float64) *Engine {
	return &Engine{
		windowDays: windowDays,
		floor:      floor,
	}
}

// Correlate pairs each sentiment record with every pattern whose anchor
// date lies within [eventDate-window, eventDate+window]. Both inputs are
// sorted by date (stable, insertion order breaks ties) so a single linear
// sweep suffices instead of an all-pairs scan. Pairs scoring below the
// confidence floor are dropped.
func (e *Engine) Correlate(sentiments []models.SentimentRecord, patterns []models.TechnicalPattern) Result {
	sortedSentiments := make([]models.SentimentRecord, len(sentiments))
	copy(sortedSentiments, sentiments)
	sort.SliceStable(sortedSentiments, func(i, j int) bool {
		return dayNumber(sortedSentiments[i].Timestamp) < dayNumber(sortedSentiments[j].Timestamp)
	})

	sortedPatterns := make([]models.TechnicalPattern, len(patterns))
	copy(sortedPatterns, patterns)
	sort.SliceStable(sortedPatterns, func(i, j int) bool {
		return dayNumber(sortedPatterns[i].Anchor) < dayNumber(sortedPatterns[j].Anchor)
	})

	result := Result{}
	patternMatched := make([]bool, len(sortedPatterns))

	lo := 0
	for _, s := range sortedSentiments {
		eventDay := dayNumber(s.Timestamp)

		// Skip patterns that fell out of every future window
		for lo < len(sortedPatterns) && dayNumber(sortedPatterns[lo].Anchor) < eventDay-e.windowDays {
			lo++
		}

		matched := false
		for j := lo; j < len(sortedPatterns); j++ {
			offset := dayNumber(sortedPatterns[j].Anchor) - eventDay
			if offset > e.windowDays {
				break
			}

			confidence, agreement := e.score(s, sortedPatterns[j], offset)
			if confidence < e.floor {
				continue
			}

			result.Records = append(result.Records, models.CorrelationRecord{
				Sentiment:            s,
				Pattern:              sortedPatterns[j],
				OffsetDays:           offset,
				Confidence:           confidence,
				DirectionalAgreement: agreement,
			})
			matched = true
			patternMatched[j] = true
		}

		if !matched {
			result.UncorrelatedSentiments = append(result.UncorrelatedSentiments, s)
		}
	}

	for j, p := range sortedPatterns {
		if !patternMatched[j] {
			result.UncorrelatedPatterns = append(result.UncorrelatedPatterns, p)
		}
	}

	logger.Info("correlation complete",
		zap.Int("sentiments", len(sentiments)),
		zap.Int("patterns", len(patterns)),
		zap.Int("records", len(result.Records)),
		zap.Int("uncorrelated_sentiments", len(result.UncorrelatedSentiments)),
		zap.Int("uncorrelated_patterns", len(result.UncorrelatedPatterns)),
	)

	return result
}

// score computes pair confidence: closer in time means higher confidence,
// scaled by sentiment magnitude, boosted on directional agreement and
// penalized on disagreement.
func (e *Engine) score(s models.SentimentRecord, p models.TechnicalPattern, offset int) (float64, bool) {
	if offset < 0 {
		offset = -offset
	}
	proximity := 1 - float64(offset)/float64(e.windowDays+1)

	confidence := proximity * (0.5 + 0.5*s.Magnitude)

	sentSign := s.Polarity.Sign()
	patSign := p.Direction.Sign()
	agreement := sentSign != 0 && patSign != 0 && sentSign == patSign

	switch {
	case agreement:
		confidence *= agreementBoost
		if confidence > 1 {
			confidence = 1
		}
	case sentSign != 0 && patSign != 0:
		confidence *= disagreementPenalty
	}

	return confidence, agreement
}

// dayNumber maps a timestamp to a calendar day ordinal so that offsets are
// whole days regardless of time-of-day.
func dayNumber(t time.Time) int {
	y, m, d := t.UTC().Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
