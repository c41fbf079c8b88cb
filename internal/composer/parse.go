package composer

import (
	"regexp"
	"strings"
)

// listItem matches "1. text", "2) text", "3: text" and "- text" / "* text",
// optionally opened by bold markers as in "**1. text**".
var listItem = regexp.MustCompile(`^(?:\*\*|__)?\s*(?:\d+\s*[.):]|[-*•]\s)\s*(.*)$`)

// nestedNumber matches a number left after a bullet, as in "- 1. text".
var nestedNumber = regexp.MustCompile(`^\d+[.)]\s+`)

// ParseQuestions extracts list items from free text. Lines that are not
// numbered or bulleted are treated as commentary and dropped, as are items
// with nothing after the marker.
func ParseQuestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := listItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := strings.TrimSpace(strings.TrimLeft(m[1], "- "))
		item = nestedNumber.ReplaceAllString(item, "")
		item = strings.TrimSpace(strings.Trim(item, "*_ "))
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
