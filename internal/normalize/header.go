package normalize

import (
	"regexp"
	"strings"
)

var headerNoise = regexp.MustCompile(`[\s]+`)

// Header canonicalizes column-header text for alias matching: lowercase,
// newlines and runs of whitespace collapsed to a single space, surrounding
// punctuation trimmed. "Posted\nDate" and "posted date " resolve alike.
func Header(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = headerNoise.ReplaceAllString(s, " ")
	return strings.Trim(s, " :.*")
}
