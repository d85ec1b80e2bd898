package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dsokolov/newslens/internal/correlation"
	"github.com/dsokolov/newslens/pkg/models"
)

// Input is everything the generator needs from a finished run. The
// generator is a pure transformation over it: no external calls, no state
// mutation beyond the returned Report.
type Input struct {
	Ticker      string
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time

	Articles          []models.NewsArticle
	Sentiments        []models.SentimentRecord
	FailedExtractions []models.FailedExtraction
	Patterns          []models.TechnicalPattern
	Correlation       correlation.Result
	Warnings          []string
}

// Generator renders correlation results into a structured report
type Generator struct{}

// NewGenerator creates report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the final report: one narrative section per correlation
// record (ordered by date, confidence descending for same-date ties), an
// aggregate summary, and an appendix of uncorrelated items.
func (g *Generator) Generate(in Input) *models.Report {
	titles := make(map[string]string, len(in.Articles))
	for _, a := range in.Articles {
		titles[a.ID] = a.Title
	}

	sections := make([]models.ReportSection, 0, len(in.Correlation.Records))
	for _, rec := range in.Correlation.Records {
		sections = append(sections, models.ReportSection{
			Date:        rec.Sentiment.Timestamp,
			Title:       sectionTitle(rec, titles),
			Narrative:   narrative(rec),
			Correlation: rec,
		})
	}
	sort.SliceStable(sections, func(i, j int) bool {
		di, dj := day(sections[i].Date), day(sections[j].Date)
		if di != dj {
			return di < dj
		}
		return sections[i].Correlation.Confidence > sections[j].Correlation.Confidence
	})

	report := &models.Report{
		Ticker:      in.Ticker,
		Start:       in.Start,
		End:         in.End,
		GeneratedAt: in.GeneratedAt,
		Summary:     g.summarize(in, sections),
		Sections:    sections,

		UncorrelatedSentiments: in.Correlation.UncorrelatedSentiments,
		UncorrelatedPatterns:   in.Correlation.UncorrelatedPatterns,

		Warnings: append([]string(nil), in.Warnings...),
	}

	return report
}

func (g *Generator) summarize(in Input, sections []models.ReportSection) models.ReportSummary {
	summary := models.ReportSummary{
		Articles:          len(in.Articles),
		Extracted:         len(in.Sentiments),
		FailedExtractions: len(in.FailedExtractions),
		Patterns:          len(in.Patterns),
		Correlations:      len(in.Correlation.Records),
		DominantPolarity:  dominantPolarity(in.Sentiments),
		MarketTone:        marketTone(in.Patterns),
	}

	if len(in.Correlation.Records) > 0 {
		agreed := 0
		for _, rec := range in.Correlation.Records {
			if rec.DirectionalAgreement {
				agreed++
			}
		}
		summary.AgreementRate = float64(agreed) / float64(len(in.Correlation.Records))

		// Strongest link: highest confidence, earliest section order on ties
		best := -1
		for i := range sections {
			if best < 0 || sections[i].Correlation.Confidence > sections[best].Correlation.Confidence {
				best = i
			}
		}
		link := sections[best].Correlation
		summary.StrongestLink = &link
	}

	return summary
}

func sectionTitle(rec models.CorrelationRecord, titles map[string]string) string {
	title := titles[rec.Sentiment.ArticleID]
	if title == "" {
		title = "Article " + rec.Sentiment.ArticleID
	}
	return title
}

func narrative(rec models.CorrelationRecord) string {
	tags := "no event tags"
	if len(rec.Sentiment.EventTags) > 0 {
		tags = strings.Join(rec.Sentiment.EventTags, ", ")
	}

	var timing string
	switch {
	case rec.OffsetDays > 0:
		timing = fmt.Sprintf("%d day(s) before", rec.OffsetDays)
	case rec.OffsetDays < 0:
		timing = fmt.Sprintf("%d day(s) after", -rec.OffsetDays)
	default:
		timing = "the same day as"
	}

	agreement := "directions conflict"
	if rec.DirectionalAgreement {
		agreement = "directions agree"
	}

	return fmt.Sprintf(
		"%s news (%s) on %s landed %s a %s %s anchored %s (magnitude %.1f%%). Confidence %.2f, %s.",
		capitalize(string(rec.Sentiment.Polarity)),
		tags,
		rec.Sentiment.Timestamp.Format("2006-01-02"),
		timing,
		rec.Pattern.Direction,
		rec.Pattern.Kind,
		rec.Pattern.Anchor.Format("2006-01-02"),
		rec.Pattern.Magnitude*100,
		rec.Confidence,
		agreement,
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dominantPolarity(sentiments []models.SentimentRecord) models.Polarity {
	counts := map[models.Polarity]int{}
	for _, s := range sentiments {
		counts[s.Polarity]++
	}
	bullish, bearish, neutral := counts[models.PolarityBullish], counts[models.PolarityBearish], counts[models.PolarityNeutral]
	switch {
	case bullish > bearish && bullish > neutral:
		return models.PolarityBullish
	case bearish > bullish && bearish > neutral:
		return models.PolarityBearish
	}
	return models.PolarityNeutral
}

func marketTone(patterns []models.TechnicalPattern) models.Direction {
	bullish, bearish := 0, 0
	for _, p := range patterns {
		switch p.Direction {
		case models.DirectionBullish:
			bullish++
		case models.DirectionBearish:
			bearish++
		}
	}
	switch {
	case bullish > bearish:
		return models.DirectionBullish
	case bearish > bullish:
		return models.DirectionBearish
	}
	return models.DirectionNeutral
}

func day(t time.Time) int {
	y, m, d := t.UTC().Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
