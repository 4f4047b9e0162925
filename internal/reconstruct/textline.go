package reconstruct

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/normalize"
)

// Date-start patterns for text-line mode. A line opens a new transaction
// only when it begins with one of these; everything else is narration
// wrap. The set is fixed — text layouts that need more belong in an
// issuer-specific pre-hook.
var lineStartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\b`),
	regexp.MustCompile(`^(\d{1,2}[-/][A-Za-z]{3,9}[-/]\d{2,4})\b`),
	regexp.MustCompile(`^(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4})\b`),
	regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\b`),
}

var amountTokenPattern = regexp.MustCompile(
	`\(?-?[₦£$€]?\s?-?[\d,]+\.\d{2}\)?(?:\s?(?:CR|DR|DB)\b)?`)

func leadingDate(line string) (string, bool) {
	t := strings.TrimSpace(line)
	for _, p := range lineStartPatterns {
		if m := p.FindStringSubmatch(t); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func (r *Reconstructor) consumeLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	token, starts := leadingDate(line)

	// Text mode needs no header row: columns are positional, so the
	// first dated line flips the machine straight to accumulating.
	if r.st == seekingHeader {
		if !starts {
			return
		}
		r.st = accumulating
	}

	if !starts {
		if r.current != nil && !isSummaryText(line) {
			r.current.appendRemarks(line)
		}
		return
	}

	r.flush()
	r.openFromLine(line, token)
}

// openFromLine dissects a dated text line: leading date token(s), trailing
// amount tokens, narration in between.
func (r *Reconstructor) openFromLine(line, dateToken string) {
	b := &recordBuilder{rawTxnDate: dateToken, rawValDate: dateToken}

	if v, ok := normalize.Date(normalize.JoinDateFragments(dateToken)); ok {
		b.txnDate = v
	} else {
		r.log.Warn().Str("text", dateToken).Msg("unparsable transaction date")
	}

	rest := strings.TrimSpace(line[len(dateToken):])

	// A second date token right after the first is the value date.
	if second, ok := leadingDate(rest); ok {
		if v, okDate := normalize.Date(normalize.JoinDateFragments(second)); okDate && v != "" {
			b.valDate = v
			b.rawValDate = second
			rest = strings.TrimSpace(rest[len(second):])
		}
	}

	// Amounts are read from the right: the last token is the balance,
	// whatever precedes it is the movement.
	matches := amountTokenPattern.FindAllStringIndex(rest, -1)
	amounts := trailingAmounts(rest, matches)

	narrationEnd := len(rest)
	if n := len(amounts); n > 0 {
		narrationEnd = matches[len(matches)-n][0]
	}
	b.appendRemarks(rest[:narrationEnd])

	switch len(amounts) {
	case 0:
		// No money on the line; a continuation may backfill it.
	case 1:
		b.balance = r.money(amounts[0])
	case 2:
		b.amount = r.money(amounts[0])
		b.balance = r.money(amounts[1])
	default:
		b.debit = r.money(amounts[len(amounts)-3])
		b.credit = r.money(amounts[len(amounts)-2])
		b.balance = r.money(amounts[len(amounts)-1])
	}

	r.current = b
}

// trailingAmounts keeps only the run of amount tokens that ends the line;
// figures buried inside narration (e.g. "REF 1,234.00 TRANSFER") stay
// part of the remarks.
func trailingAmounts(rest string, matches [][]int) []string {
	var amounts []string
	end := len(rest)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		between := strings.TrimSpace(rest[m[1]:end])
		if between != "" {
			break
		}
		amounts = append([]string{rest[m[0]:m[1]]}, amounts...)
		end = m[0]
	}
	return amounts
}

var summaryTextPrefixes = []string{
	"total", "closing balance", "opening balance", "subtotal",
	"balance brought forward", "balance carried forward", "page ",
}

func isSummaryText(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, p := range summaryTextPrefixes {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return false
}
