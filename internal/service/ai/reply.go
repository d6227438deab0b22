package ai

import "strings"

const suggestionsMarker = "SUGGESTIONS:"

// SplitSuggestions separates the trailing SUGGESTIONS line from the
// model's raw text. The marker carries a comma-separated list of short
// follow-up prompts; each item is trimmed and stripped of surrounding
// quotes. Raw text without the marker passes through unchanged.
func SplitSuggestions(raw string) (string, []string) {
	idx := strings.Index(raw, suggestionsMarker)
	if idx < 0 {
		return strings.TrimSpace(raw), nil
	}

	text := strings.TrimSpace(raw[:idx])
	tail := raw[idx+len(suggestionsMarker):]

	var suggestions []string
	for _, part := range strings.Split(tail, ",") {
		item := strings.TrimSpace(part)
		item = strings.TrimPrefix(item, `"`)
		item = strings.TrimSuffix(item, `"`)
		if item == "" {
			continue
		}
		suggestions = append(suggestions, item)
	}
	return text, suggestions
}
