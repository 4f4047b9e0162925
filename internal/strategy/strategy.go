// Package strategy orchestrates competing reconstruction strategies for a
// document and accepts the first whose ledger clears the validity
// threshold. A strategy is one complete pipeline configuration: a field
// map, reconstruction options and optional issuer hooks.
package strategy

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/fieldmap"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/reconstruct"
	"github.com/insightdelivered/statement-ledger/internal/validate"
)

// PreHook transforms the page stream before reconstruction (issuer-specific
// cleanup: footer stripping, cell re-splitting).
type PreHook func(pages []models.Page) []models.Page

// PostHook transforms the reconstructed ledger before validation.
type PostHook func(ledger models.Ledger) models.Ledger

// Strategy is one candidate reconstruction pipeline.
type Strategy struct {
	// Name identifies the strategy in logs and dispatch results,
	// e.g. "access/table-01" or "generic".
	Name string
	// FieldMap for header resolution; fieldmap.Default() when nil.
	FieldMap fieldmap.FieldMap
	// MinHeaderFields and ContinuationJoin tune the reconstructor;
	// zero values fall back to its defaults.
	MinHeaderFields  int
	ContinuationJoin string
	Pre              PreHook
	Post             PostHook
}

// RunOptions carries the per-dispatch knobs shared by every candidate.
type RunOptions struct {
	Tolerance      decimal.Decimal
	OpeningBalance string
}

// Run executes the full pipeline for one document under this strategy and
// returns the scored ledger. A panicking hook is converted into an error
// so the dispatcher can fall through to the next candidate.
func (s Strategy) Run(log zerolog.Logger, pages []models.Page, opts RunOptions) (ledger models.Ledger, score models.ValidityScore, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name, rec)
		}
	}()

	if s.Pre != nil {
		pages = s.Pre(pages)
	}

	r := reconstruct.New(log, reconstruct.Options{
		FieldMap:         s.FieldMap,
		MinHeaderFields:  s.MinHeaderFields,
		ContinuationJoin: s.ContinuationJoin,
		OpeningBalance:   opts.OpeningBalance,
		Tolerance:        opts.Tolerance,
	})
	for _, p := range pages {
		r.ConsumePage(p)
	}
	ledger = r.Finish()

	if s.Post != nil {
		ledger = s.Post(ledger)
	}

	score = validate.Check(ledger, validate.Options{
		Tolerance:      opts.Tolerance,
		OpeningBalance: opts.OpeningBalance,
	})
	return ledger, score, nil
}

// DropDatelessRecords is a shared post-hook removing records that ended up
// with neither date — stray summary rows that slipped past header gating.
func DropDatelessRecords(ledger models.Ledger) models.Ledger {
	out := ledger[:0]
	for _, rec := range ledger {
		if rec.TxnDate != "" || rec.ValDate != "" {
			out = append(out, rec)
		}
	}
	return out
}
