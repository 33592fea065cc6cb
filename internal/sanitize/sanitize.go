// Package sanitize cleans raw model output into a postable caption.
//
// The rules below are tuned to the phrasing the backend produces for the
// caption instruction. They are heuristics, revisit them if the model drifts.
package sanitize

import (
	"regexp"
	"strings"
)

var rules = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^(Berikut beberapa|Hook|Isi|Closing|Caption|Berikut|Pilihan):\s*`),
	regexp.MustCompile(`\*\*.*?\*\*`),
	regexp.MustCompile(`(?m)^\d+\.\s*`),
	regexp.MustCompile(`(?m)^[-*]\s*`),
	regexp.MustCompile(`\(.*?\)`),
	regexp.MustCompile(`(?is)Surga tersembunyi.*$`),
	regexp.MustCompile(`(?m)^\s*-\s*`),
}

// DefaultHashtags are appended when hashtags were asked for but the model gave none.
var DefaultHashtags = []string{"#fyp", "#viral", "#trending"}

// Caption strips labels, markdown, list markers and asides from raw and, when
// withHashtags is set, guarantees the result carries at least one hashtag.
// Applying it to its own output changes nothing.
func Caption(raw string, withHashtags bool) string {
	text := clean(raw)

	if withHashtags && !strings.Contains(text, "#") {
		tags := strings.Join(DefaultHashtags, " ")
		if text == "" {
			return tags
		}
		text += "\n" + tags
	}
	return text
}

// clean runs the rules until a full pass leaves the text unchanged.
// Every rule only deletes text, so this terminates.
func clean(text string) string {
	for {
		next := text
		for _, re := range rules {
			next = re.ReplaceAllString(next, "")
		}
		next = strings.TrimSpace(next)
		if next == text {
			return next
		}
		text = next
	}
}
