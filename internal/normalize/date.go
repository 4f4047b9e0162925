package normalize

import (
	"regexp"
	"strings"
	"time"
)

// Date templates tried in order. Statement layouts favour day-first forms;
// the US month-first layouts sit last so they only catch input nothing
// else matched.
var dateLayouts = []string{
	"2-Jan-2006",
	"2-Jan-06",
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2006-01-02",
	"2 Jan 2006",
	"2.1.2006",
	"2.1.06",
	"2 January 2006",
	"2-January-2006",
	"Jan 2, 2006",
	"2 Jan, 2006",
	"2/Jan/2006",
	"2/January/2006",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
}

// Cells that look like section footers, never dates.
var nonDatePrefixes = []string{"total", "closing", "opening", "subtotal"}

// Date parses heterogeneous statement date text into ISO YYYY-MM-DD.
//
// Summary-row prefixes ("Total", "Closing balance", ...) normalize to the
// empty string. Two-digit years always land in the 2000s. On template
// mismatch the original text comes back unchanged with ok=false so the
// caller can log a warning; dates are best-effort and never abort a parse.
func Date(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", true
	}

	lower := strings.ToLower(s)
	for _, prefix := range nonDatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", true
		}
	}

	// time.Parse matches month names case-sensitively; statements print
	// them every which way ("JAN", "jan", "Jan").
	s = titleCaseMonths(s)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Go resolves "69".."99" to the 1900s; statements only ever mean
		// the 2000s for a two-digit year.
		if t.Year() < 2000 && strings.Contains(layout, "06") && !strings.Contains(layout, "2006") {
			t = t.AddDate(100, 0, 0)
		}
		return t.Format("2006-01-02"), true
	}

	return text, false
}

var alphaRun = regexp.MustCompile(`[A-Za-z]+`)

func titleCaseMonths(s string) string {
	return alphaRun.ReplaceAllStringFunc(s, func(word string) string {
		lower := strings.ToLower(word)
		return strings.ToUpper(lower[:1]) + lower[1:]
	})
}

var innerDateBreak = regexp.MustCompile(`\s*([-/.])\s*`)

// JoinDateFragments collapses the whitespace and newlines that appear when
// a date wraps across a visual line inside one logical cell, e.g.
// "03-FEB-\n25" -> "03-FEB-25". Applied before Date.
func JoinDateFragments(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	return innerDateBreak.ReplaceAllString(s, "$1")
}

var (
	yearOnlyPattern      = regexp.MustCompile(`^\s*(\d{2}|\d{4})\s*$`)
	monthDashTailPattern = regexp.MustCompile(`^\s*\d{1,2}[-/][A-Za-z]{3,9}[-/]\s*$`)
)

// IsYearOnly reports whether the cell contains nothing but a bare two- or
// four-digit year, the hallmark of a date split across a page break.
func IsYearOnly(text string) bool {
	return yearOnlyPattern.MatchString(text)
}

// EndsWithMonthDash reports whether raw date text was truncated after the
// month, e.g. "30-JAN-" — the front half of a cross-page date split.
func EndsWithMonthDash(text string) bool {
	return monthDashTailPattern.MatchString(text)
}
