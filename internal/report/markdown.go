package report

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/dsokolov/newslens/pkg/models"
)

var markdownFuncs = template.FuncMap{
	"fdate": func(t time.Time) string {
		return t.UTC().Format("2006-01-02")
	},
	"pct": func(f float64) string {
		return fmt.Sprintf("%.0f%%", f*100)
	},
}

const markdownTemplate = `# News-Pattern Intelligence Report: {{ .Ticker }}

**Date range:** {{ fdate .Start }} → {{ fdate .End }}

## Summary

- Articles analyzed: {{ .Summary.Articles }} ({{ .Summary.Extracted }} extracted, {{ .Summary.FailedExtractions }} failed)
- Patterns detected: {{ .Summary.Patterns }}
- Correlations: {{ .Summary.Correlations }}{{ if .Summary.Correlations }} (directional agreement {{ pct .Summary.AgreementRate }}){{ end }}
- News tone: {{ .Summary.DominantPolarity }}
- Market tone: {{ .Summary.MarketTone }}
{{- with .Summary.StrongestLink }}
- Strongest link: article {{ .Sentiment.ArticleID }} → {{ .Pattern.Kind }} (confidence {{ printf "%.2f" .Confidence }}, offset {{ .OffsetDays }} day(s))
{{- end }}
{{ if .Warnings }}
## Warnings
{{ range .Warnings }}
- {{ . }}
{{- end }}
{{ end }}
## Correlated Events
{{ if not .Sections }}
_No correlations within the window._
{{ end }}
{{- range .Sections }}
### {{ .Title }} ({{ fdate .Date }})

{{ .Narrative }}
{{ end }}
## Appendix: Uncorrelated Items
{{ if .UncorrelatedSentiments }}
News without matching patterns:
{{ range .UncorrelatedSentiments }}
- {{ fdate .Timestamp }} article {{ .ArticleID }}: {{ .Polarity }} (magnitude {{ printf "%.2f" .Magnitude }})
{{- end }}
{{ end }}
{{- if .UncorrelatedPatterns }}
Patterns without matching news:
{{ range .UncorrelatedPatterns }}
- {{ fdate .Anchor }} {{ .Kind }} ({{ .Direction }}, {{ pct .Magnitude }})
{{- end }}
{{ end }}`

var markdownTmpl = template.Must(template.New("report").Funcs(markdownFuncs).Parse(markdownTemplate))

// RenderMarkdown renders the report as human-readable markdown
func RenderMarkdown(r *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
