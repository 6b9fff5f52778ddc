package chart

import (
	"regexp"
	"strings"

	"gwi.com/globallaunch-advisor/internal/logger"
)

// Placeholder marks where a decomposed chart belongs in the narrative.
const Placeholder = "[[CHART_PLACEHOLDER]]"

// Sentinel is the info string of the fenced block carrying a chart.
const Sentinel = "json_chart"

var blockPattern = regexp.MustCompile("(?s)```" + Sentinel + `\s*(.*?)\s*` + "```")

// Decompose extracts the first chart block from a model reply. A valid block is
// replaced in place by Placeholder; an invalid one is removed and no chart is
// returned. Without a block the text is returned unchanged.
func Decompose(raw string) (string, *Payload) {
	loc := blockPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return raw, nil
	}
	start, end := loc[0], loc[1]
	content := raw[loc[2]:loc[3]]

	payload, err := Parse(content)
	if err != nil {
		logger.Warn("Discarding malformed chart block", "error", err)
		return raw[:start] + raw[end:], nil
	}
	return raw[:start] + Placeholder + raw[end:], payload
}

// Split cuts text at the first placeholder. When found is false the caller
// should render any chart after the whole text.
func Split(text string) (before, after string, found bool) {
	return strings.Cut(text, Placeholder)
}

// StripPlaceholder removes the placeholder, for plain-text copies of a reply.
func StripPlaceholder(text string) string {
	return strings.Replace(text, Placeholder, "", 1)
}
