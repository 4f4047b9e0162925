package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is the canonical zero amount.
const Zero = "0.00"

var (
	currencyGlyphs  = strings.NewReplacer("₦", "", "£", "", "$", "", "€", "", ",", "", " ", "", " ", "", "​", "")
	allDashes       = regexp.MustCompile(`^[-—–]+$`)
	nonAmountRunes  = regexp.MustCompile(`[^0-9.\-]`)
	twoDigitDecimal = regexp.MustCompile(`^-?\d+\.\d{2}$`)
)

// Money parses heterogeneous statement amount text into a decimal string
// with exactly two fraction digits.
//
// Currency glyphs, thousands separators and whitespace are stripped. A
// fully parenthesized value is negative. A trailing CR suffix marks the
// value positive, DR/DB negative. Placeholder cells ("-", "—", empty,
// all-dash) are zero. Unparsable input yields "0.00" with ok=false so the
// caller can log a warning; Money never fails hard.
func Money(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" || allDashes.MatchString(s) {
		return Zero, true
	}

	s = currencyGlyphs.Replace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "CR"):
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(upper, "DR"), strings.HasSuffix(upper, "DB"):
		negative = true
		s = strings.TrimSpace(s[:len(s)-2])
	}

	s = nonAmountRunes.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		// Non-placeholder input with nothing numeric in it is garbage,
		// not a blank cell.
		return Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(2).StringFixed(2), true
}

// Abs returns the magnitude of a normalized amount string.
func Abs(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Zero
	}
	return d.Abs().StringFixed(2)
}

// IsTwoDigitDecimal reports whether s is already a canonical amount string.
func IsTwoDigitDecimal(s string) bool {
	return twoDigitDecimal.MatchString(s)
}
