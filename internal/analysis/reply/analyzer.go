// Package reply extracts the out-of-band markers the assistant embeds
// in its text: a leading [EMOTION:<label>] tag and a [CARD] flag for
// knowledge-card rendering. Stored message content keeps the markers
// verbatim; this view is computed at display time.
package reply

import (
	"regexp"
	"strings"
)

var emotionPattern = regexp.MustCompile(`\[EMOTION:(.*?)\]`)

const cardMarker = "[CARD]"

// View is the structured presentation of one assistant message.
type View struct {
	Text          string `json:"text"`
	Emotion       string `json:"emotion,omitempty"`
	KnowledgeCard bool   `json:"knowledgeCard,omitempty"`
}

// Analyze strips the first emotion tag and the card marker from the
// content and reports what was found. Content without markers passes
// through with only whitespace trimmed.
func Analyze(content string) View {
	view := View{}

	if match := emotionPattern.FindStringSubmatch(content); match != nil {
		view.Emotion = match[1]
	}
	view.KnowledgeCard = strings.Contains(content, cardMarker)

	text := content
	if loc := emotionPattern.FindStringIndex(content); loc != nil {
		text = content[:loc[0]] + content[loc[1]:]
	}
	text = strings.Replace(text, cardMarker, "", 1)
	view.Text = strings.TrimSpace(text)
	return view
}
