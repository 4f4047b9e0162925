package strategy

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// DefaultThreshold is the validity rate a candidate ledger must reach to
// be accepted.
const DefaultThreshold = 0.70

// Sentinel failures callers distinguish with errors.Is. ErrNoPages means
// the extraction collaborator produced nothing to parse at all;
// ErrNoViableStrategy means candidates parsed something but none reached
// the threshold — the best attempt may still be useful for human review.
var (
	ErrNoPages          = errors.New("no pages extracted from document")
	ErrNoViableStrategy = errors.New("no strategy produced a sufficiently consistent ledger")
)

// Attempt records the outcome of one candidate for diagnostics.
type Attempt struct {
	Strategy string               `json:"strategy"`
	Score    models.ValidityScore `json:"score"`
	Err      string               `json:"error,omitempty"`
}

// Result is an accepted dispatch: the winning ledger, its score, and the
// trail of attempts that led to it.
type Result struct {
	Strategy string               `json:"strategy"`
	Issuer   string               `json:"issuer,omitempty"`
	Ledger   models.Ledger        `json:"ledger"`
	Score    models.ValidityScore `json:"score"`
	Attempts []Attempt            `json:"attempts"`
}

// Dispatcher tries candidate strategies in specificity order and accepts
// the first whose validity rate clears the threshold.
type Dispatcher struct {
	log       zerolog.Logger
	registry  *Registry
	threshold float64
	tolerance decimal.Decimal
}

// NewDispatcher wires a dispatcher over a registry. Threshold and
// tolerance fall back to their defaults when zero.
func NewDispatcher(log zerolog.Logger, registry *Registry, threshold float64, tolerance decimal.Decimal) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Dispatcher{log: log, registry: registry, threshold: threshold, tolerance: tolerance}
}

// Dispatch runs the strategy trial loop for one document. The issuer key
// may be supplied by the caller; when empty it is sniffed from page
// content. The loop is sequential by design: candidates are tried in
// confidence order, not raced, and the first acceptance wins without
// running the remaining strategies.
//
// On failure the returned Result is non-nil when any candidate produced a
// ledger: the best attempt is kept, with per-record consistency flags,
// so "parsed but balance-inconsistent" stays distinguishable from "no
// candidate could parse this layout".
func (d *Dispatcher) Dispatch(pages []models.Page, issuer string, opts RunOptions) (*Result, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	if issuer == "" {
		issuer = d.registry.Detect(pages)
		if issuer != "" {
			d.log.Info().Str("issuer", issuer).Msg("issuer detected from page content")
		}
	}

	var attempts []Attempt
	var best *Result

	for _, s := range d.registry.Candidates(issuer) {
		ledger, score, err := s.Run(d.log, pages, opts)
		if err != nil {
			d.log.Warn().Err(err).Str("strategy", s.Name).Msg("strategy failed")
			attempts = append(attempts, Attempt{Strategy: s.Name, Err: err.Error()})
			continue
		}

		attempts = append(attempts, Attempt{Strategy: s.Name, Score: score})
		d.log.Debug().
			Str("strategy", s.Name).
			Int("records", len(ledger)).
			Float64("rate", score.Rate).
			Msg("strategy attempted")

		if len(ledger) > 0 && score.Rate >= d.threshold {
			d.log.Info().Str("strategy", s.Name).Float64("rate", score.Rate).Msg("strategy accepted")
			return &Result{
				Strategy: s.Name,
				Issuer:   issuer,
				Ledger:   ledger,
				Score:    score,
				Attempts: attempts,
			}, nil
		}

		if len(ledger) > 0 && (best == nil || score.Rate > best.Score.Rate) {
			best = &Result{Strategy: s.Name, Issuer: issuer, Ledger: ledger, Score: score}
		}
	}

	if best != nil {
		best.Attempts = attempts
		return best, fmt.Errorf("%w: best attempt %s reached rate %.2f (threshold %.2f)",
			ErrNoViableStrategy, best.Strategy, best.Score.Rate, d.threshold)
	}
	return nil, fmt.Errorf("%w: %d candidate(s) tried, none parsed any transactions",
		ErrNoViableStrategy, len(attempts))
}
