// Package direction decides whether a monetary movement is a debit or a
// credit when the source statement does not say so unambiguously, using
// the running balance carried across the whole document.
package direction

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/normalize"
)

// Narration terms that mark money leaving the account.
var defaultDebitKeywords = []string{
	"fee", "charge", "charges", "vat", "commission", "tax", "levy",
	"stamp duty", "sms alert", "pos", "transfer to",
}

// Narration terms that mark money arriving.
var defaultCreditKeywords = []string{
	"transfer in", "nip trf from", "trf from", "reversal", "refund",
	"deposit", "lodgement", "credit",
}

// Observation is what one reconstructed row tells us about a movement,
// all amounts already normalized.
type Observation struct {
	Debit   string // "" when the layout has no debit column
	Credit  string // "" when the layout has no credit column
	Amount  string // signed, "" when the layout has no amount column
	Balance string // "" when the row stated no balance
	Remarks string
}

// Inferencer classifies movements row by row. It carries the previous
// stated balance across the whole reconstruction pass — balance
// continuity spans page boundaries, so one Inferencer serves one
// document and must not be shared.
type Inferencer struct {
	log            zerolog.Logger
	tolerance      decimal.Decimal
	prevBalance    *decimal.Decimal
	debitKeywords  []string
	creditKeywords []string
}

// New returns an Inferencer with the default keyword tables. The
// tolerance matches the validator's balance tolerance.
func New(log zerolog.Logger, tolerance decimal.Decimal) *Inferencer {
	return &Inferencer{
		log:            log,
		tolerance:      tolerance,
		debitKeywords:  defaultDebitKeywords,
		creditKeywords: defaultCreditKeywords,
	}
}

// SeedBalance primes the carried balance from an externally known opening
// balance, so the very first record can be classified by delta.
func (inf *Inferencer) SeedBalance(balance string) {
	if d, err := decimal.NewFromString(balance); err == nil {
		inf.prevBalance = &d
	}
}

// Infer returns the (debit, credit) pair for one observation and advances
// the carried balance. Exactly one of the returned values is non-zero
// whenever the observation carried any movement at all.
func (inf *Inferencer) Infer(o Observation) (string, string) {
	defer inf.advance(o.Balance)

	// Source already separates the directions: trust it.
	debit := parseOrZero(o.Debit)
	credit := parseOrZero(o.Credit)
	if !debit.IsZero() || !credit.IsZero() {
		if !debit.IsZero() && !credit.IsZero() {
			// Both columns populated is a malformed row; keep the larger
			// movement and let the validator surface the damage.
			if debit.Abs().GreaterThanOrEqual(credit.Abs()) {
				return debit.Abs().StringFixed(2), normalize.Zero
			}
			return normalize.Zero, credit.Abs().StringFixed(2)
		}
		return debit.Abs().StringFixed(2), credit.Abs().StringFixed(2)
	}

	amount := parseOrZero(o.Amount)
	if amount.IsZero() {
		return normalize.Zero, normalize.Zero
	}
	magnitude := amount.Abs()

	// Single amount column: classify by balance delta when we can.
	if inf.prevBalance != nil && o.Balance != "" {
		if balance, err := decimal.NewFromString(o.Balance); err == nil {
			delta := balance.Sub(*inf.prevBalance)
			switch {
			case delta.Sign() < 0:
				if !delta.Abs().Sub(magnitude).Abs().LessThanOrEqual(inf.tolerance) {
					inf.log.Debug().
						Str("delta", delta.StringFixed(2)).
						Str("amount", magnitude.StringFixed(2)).
						Msg("balance delta magnitude disagrees with amount; trusting delta sign")
				}
				return magnitude.StringFixed(2), normalize.Zero
			case delta.Sign() > 0:
				return normalize.Zero, magnitude.StringFixed(2)
			default:
				// Same-balance reversal: delta is zero but the row moved
				// money. Narration keywords break the tie, debit by default.
				if matchesAny(o.Remarks, inf.creditKeywords) {
					return normalize.Zero, magnitude.StringFixed(2)
				}
				return magnitude.StringFixed(2), normalize.Zero
			}
		}
	}

	// No prior balance to compare against (first record, no seeded
	// opening balance). A signed amount still tells us the direction.
	if amount.Sign() < 0 {
		return magnitude.StringFixed(2), normalize.Zero
	}
	if matchesAny(o.Remarks, inf.debitKeywords) {
		return magnitude.StringFixed(2), normalize.Zero
	}
	if matchesAny(o.Remarks, inf.creditKeywords) {
		return normalize.Zero, magnitude.StringFixed(2)
	}
	// Default policy: debit. Revisit against more statement samples.
	return magnitude.StringFixed(2), normalize.Zero
}

func (inf *Inferencer) advance(balance string) {
	if balance == "" {
		return
	}
	if d, err := decimal.NewFromString(balance); err == nil {
		inf.prevBalance = &d
	}
}

func parseOrZero(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func matchesAny(narration string, keywords []string) bool {
	n := strings.ToLower(narration)
	for _, k := range keywords {
		if strings.Contains(n, k) {
			return true
		}
	}
	return false
}
