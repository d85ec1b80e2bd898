package extraction

import (
	"fmt"
	"strings"
)

const userPromptTemplate = `Analyze the following news article about stock "%s".

Return a JSON object with:
  - polarity: "bullish", "bearish", or "neutral" toward the stock
  - magnitude: a number between 0 and 1 for how strongly this news is likely to affect the price
  - event_tags: list of short tags like ["earnings", "acquisition", "lawsuit"]
  - reasoning: a short explanation in plain English

Article metadata:
  - Title: %s
  - Source: %s
  - Published at: %s

Article text:
---
%s
---`

// buildPrompt fills the user prompt for one article
func buildPrompt(ticker, title, source, publishedAt, text string) string {
	return fmt.Sprintf(userPromptTemplate,
		ticker,
		orUnknown(title),
		orUnknown(source),
		publishedAt,
		text,
	)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
