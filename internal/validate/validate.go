// Package validate checks the balance-chain invariant over a
// reconstructed ledger: each stated balance must equal the previous
// stated balance minus the debit plus the credit, within tolerance.
package validate

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/normalize"
)

// DefaultTolerance is the allowed absolute mismatch between an expected
// and a stated balance, in currency units.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Options configures a validation pass.
type Options struct {
	// Tolerance for balance mismatches; DefaultTolerance when zero.
	Tolerance decimal.Decimal
	// OpeningBalance optionally seeds the chain so the first record is
	// checked instead of trivially accepted. Empty means unseeded.
	OpeningBalance string
}

// Check walks the ledger in order, stamps Consistent/Discrepancy on every
// record and returns the aggregate score. The ledger is mutated in place;
// records are immutable afterwards.
//
// The statement's stated balance is ground truth going forward: even when
// a record mismatches, its stated balance (not the computed one) seeds
// the next comparison. The validator reports source arithmetic errors, it
// never repairs them.
func Check(ledger models.Ledger, opts Options) models.ValidityScore {
	tolerance := opts.Tolerance
	if tolerance.IsZero() {
		tolerance = DefaultTolerance
	}

	var prev *decimal.Decimal
	if opts.OpeningBalance != "" {
		if d, err := decimal.NewFromString(opts.OpeningBalance); err == nil {
			prev = &d
		}
	}

	accepted := 0
	checked := 0
	for i := range ledger {
		rec := &ledger[i]

		balance, err := decimal.NewFromString(rec.Balance)
		if rec.Balance == "" || err != nil {
			// Unverifiable, not invalid. Does not advance the chain.
			rec.Consistent = true
			rec.Discrepancy = normalize.Zero
			continue
		}
		checked++

		if prev == nil {
			rec.Consistent = true
			rec.Discrepancy = normalize.Zero
			accepted++
			b := balance
			prev = &b
			continue
		}

		expected := prev.Sub(amountOrZero(rec.Debit)).Add(amountOrZero(rec.Credit)).Round(2)
		actual := balance.Round(2)
		diff := expected.Sub(actual).Abs()

		if diff.LessThanOrEqual(tolerance) {
			rec.Consistent = true
			rec.Discrepancy = normalize.Zero
			accepted++
		} else {
			rec.Consistent = false
			rec.Discrepancy = diff.StringFixed(2)
		}

		b := actual
		prev = &b
	}

	score := models.ValidityScore{Accepted: accepted, Checked: checked}
	switch {
	case checked > 0:
		score.Rate = float64(accepted) / float64(checked)
	case len(ledger) > 0:
		// No record stated a balance: every record was trivially
		// consistent, so the ledger scores perfect over all records.
		score.Checked = len(ledger)
		score.Accepted = len(ledger)
		score.Rate = 1.0
	}
	return score
}

func amountOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
