// Package reconstruct turns the ordered fragment stream of one document
// into logical transaction records: it finds the header row, stitches
// continuation lines onto the open record, repairs dates split across
// page breaks, and hands each finished row to direction inference.
package reconstruct

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/direction"
	"github.com/insightdelivered/statement-ledger/internal/fieldmap"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/normalize"
	"github.com/insightdelivered/statement-ledger/internal/validate"
)

type state int

const (
	seekingHeader state = iota
	accumulating
	done
)

// DefaultMinHeaderFields is how many cells of a row must resolve to
// canonical fields before the row counts as a header.
const DefaultMinHeaderFields = 2

// Options configures one reconstruction pass.
type Options struct {
	// FieldMap resolves header aliases; Default() when nil.
	FieldMap fieldmap.FieldMap
	// MinHeaderFields overrides DefaultMinHeaderFields when > 0.
	MinHeaderFields int
	// ContinuationJoin separates stitched narration parts; " " when empty.
	ContinuationJoin string
	// OpeningBalance optionally seeds direction inference.
	OpeningBalance string
	// Tolerance for balance-delta matching; validate.DefaultTolerance when zero.
	Tolerance decimal.Decimal
}

// Reconstructor is the per-document state machine. It is single-owner,
// single-pass: feed fragments in document order, then call Finish once.
type Reconstructor struct {
	log     zerolog.Logger
	opts    Options
	st      state
	headers []string // canonical field per column, "" for unmapped
	current *recordBuilder
	ledger  models.Ledger
	inf     *direction.Inferencer
}

// New returns a Reconstructor for one document.
func New(log zerolog.Logger, opts Options) *Reconstructor {
	if opts.FieldMap == nil {
		opts.FieldMap = fieldmap.Default()
	}
	if opts.MinHeaderFields <= 0 {
		opts.MinHeaderFields = DefaultMinHeaderFields
	}
	if opts.ContinuationJoin == "" {
		opts.ContinuationJoin = " "
	}
	tol := opts.Tolerance
	if tol.IsZero() {
		tol = validate.DefaultTolerance
	}
	inf := direction.New(log, tol)
	if opts.OpeningBalance != "" {
		inf.SeedBalance(opts.OpeningBalance)
	}
	return &Reconstructor{log: log, opts: opts, inf: inf}
}

// ConsumePage feeds every fragment of a page, in order.
func (r *Reconstructor) ConsumePage(p models.Page) {
	for _, f := range p.Fragments() {
		r.Consume(f)
	}
}

// Consume advances the state machine by one fragment.
func (r *Reconstructor) Consume(f models.RawFragment) {
	if r.st == done {
		return
	}
	if f.IsTextLine() {
		r.consumeLine(f.Line)
		return
	}
	r.consumeRow(f.Cells)
}

// Finish flushes any open buffer and returns the ledger. The
// Reconstructor is spent afterwards.
func (r *Reconstructor) Finish() models.Ledger {
	r.flush()
	r.st = done
	return r.ledger
}

func (r *Reconstructor) consumeRow(cells []string) {
	if r.st == seekingHeader {
		if fields, ok := r.detectHeader(cells); ok {
			r.headers = fields
			r.st = accumulating
			r.log.Debug().Strs("columns", fields).Msg("header row mapped")
		}
		return
	}

	// Repeated page header: same canonical mapping again is chrome, not data.
	if fields, ok := r.detectHeader(cells); ok {
		if equalColumns(fields, r.headers) {
			r.log.Debug().Msg("repeated page header discarded")
			return
		}
		// A different header mid-document is treated as data; issuers
		// occasionally print summary tables whose cells happen to match.
	}

	row := r.mapRow(cells)
	rawTxn := strings.TrimSpace(firstNonEmpty(row[models.FieldTxnDate], row[models.FieldValDate]))
	rawVal := strings.TrimSpace(firstNonEmpty(row[models.FieldValDate], row[models.FieldTxnDate]))

	txnDate, txnOK := normalize.Date(normalize.JoinDateFragments(rawTxn))
	if !txnOK {
		r.log.Warn().Str("text", rawTxn).Msg("unparsable transaction date")
		txnDate = ""
	}

	if (txnOK && txnDate != "") || looksDateLike(rawTxn) {
		r.flush()
		r.openFromRow(row, rawTxn, rawVal, txnDate)
		return
	}

	if r.isCrossPageArtifact(row, rawTxn, rawVal) {
		r.repairCrossPageDate(rawTxn)
		return
	}

	r.continueRow(row)
}

// detectHeader resolves each cell against the field map; the row is a
// header when enough cells map to canonical fields.
func (r *Reconstructor) detectHeader(cells []string) ([]string, bool) {
	fields := make([]string, len(cells))
	resolved := 0
	for i, cell := range cells {
		if field, ok := r.opts.FieldMap.Resolve(cell); ok {
			fields[i] = field
			resolved++
		}
	}
	if resolved < r.opts.MinHeaderFields {
		return nil, false
	}
	return fields, true
}

// mapRow pads the row to the header width and maps cells to canonical
// fields. The first column wins when an issuer repeats a field.
func (r *Reconstructor) mapRow(cells []string) map[string]string {
	row := make(map[string]string, len(r.headers))
	for i, field := range r.headers {
		if field == "" {
			continue
		}
		if _, seen := row[field]; seen {
			continue
		}
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		row[field] = cell
	}
	return row
}

func (r *Reconstructor) openFromRow(row map[string]string, rawTxn, rawVal, txnDate string) {
	b := &recordBuilder{
		rawTxnDate: rawTxn,
		rawValDate: rawVal,
		txnDate:    txnDate,
		reference:  collapseSpaces(row[models.FieldReference]),
	}

	valDate, ok := normalize.Date(normalize.JoinDateFragments(rawVal))
	if ok {
		b.valDate = valDate
	} else {
		r.log.Warn().Str("text", rawVal).Msg("unparsable value date")
	}

	b.appendRemarks(row[models.FieldRemarks])

	b.debit = r.normalizeMoneyCell(row, models.FieldDebit)
	b.credit = r.normalizeMoneyCell(row, models.FieldCredit)
	b.amount = r.normalizeMoneyCell(row, models.FieldAmount)
	if cell, present := row[models.FieldBalance]; present && strings.TrimSpace(cell) != "" {
		b.balance = r.money(cell)
	}

	r.current = b
}

// normalizeMoneyCell distinguishes an absent column (field not mapped,
// "") from a blank cell in a present column (explicit zero).
func (r *Reconstructor) normalizeMoneyCell(row map[string]string, field string) string {
	cell, present := row[field]
	if !present {
		return ""
	}
	return r.money(cell)
}

func (r *Reconstructor) money(cell string) string {
	v, ok := normalize.Money(cell)
	if !ok {
		r.log.Warn().Str("text", cell).Msg("unparsable amount")
	}
	return v
}

// continueRow stitches a non-transaction row onto the open buffer:
// narration is appended, and monetary fields that arrived on this later
// physical line backfill the buffer if still unset.
func (r *Reconstructor) continueRow(row map[string]string) {
	if r.current == nil {
		return
	}
	r.current.appendRemarks(row[models.FieldRemarks])

	var debit, credit, balance, valDate string
	if cell := strings.TrimSpace(row[models.FieldDebit]); cell != "" {
		if v, ok := normalize.Money(cell); ok && v != normalize.Zero {
			debit = v
		}
	}
	if cell := strings.TrimSpace(row[models.FieldCredit]); cell != "" {
		if v, ok := normalize.Money(cell); ok && v != normalize.Zero {
			credit = v
		}
	}
	if cell := strings.TrimSpace(row[models.FieldBalance]); cell != "" {
		if v, ok := normalize.Money(cell); ok {
			balance = v
		}
	}
	if cell := strings.TrimSpace(row[models.FieldValDate]); cell != "" {
		if v, ok := normalize.Date(normalize.JoinDateFragments(cell)); ok && v != "" {
			valDate = v
		}
	}
	r.current.backfill(debit, credit, balance, valDate)
}

// isCrossPageArtifact recognizes the trailing near-empty row left when a
// date splits across a page boundary: both date cells hold only a bare
// year, and the row carries no narration, no movement and no balance.
func (r *Reconstructor) isCrossPageArtifact(row map[string]string, rawTxn, rawVal string) bool {
	if !normalize.IsYearOnly(rawTxn) || !normalize.IsYearOnly(rawVal) {
		return false
	}
	if strings.TrimSpace(row[models.FieldRemarks]) != "" {
		return false
	}
	for _, field := range []string{models.FieldDebit, models.FieldCredit, models.FieldAmount} {
		cell := strings.TrimSpace(row[field])
		if cell != "" {
			if v, _ := normalize.Money(cell); v != normalize.Zero {
				return false
			}
		}
	}
	return strings.TrimSpace(row[models.FieldBalance]) == ""
}

// repairCrossPageDate concatenates the orphaned year onto the preceding
// record's truncated raw date text ("30-JAN-" + "25"), re-normalizes and
// drops the artifact fragment entirely.
func (r *Reconstructor) repairCrossPageDate(year string) {
	year = strings.TrimSpace(year)

	if r.current != nil && normalize.EndsWithMonthDash(r.current.rawTxnDate) {
		r.current.rawTxnDate += year
		r.current.rawValDate = mergeYear(r.current.rawValDate, year)
		if v, ok := normalize.Date(normalize.JoinDateFragments(r.current.rawTxnDate)); ok {
			r.current.txnDate = v
		}
		if v, ok := normalize.Date(normalize.JoinDateFragments(r.current.rawValDate)); ok {
			r.current.valDate = v
		}
		r.log.Debug().Str("date", r.current.txnDate).Msg("cross-page date fragment repaired")
		return
	}

	// Nothing to repair against; the artifact is dropped regardless —
	// it must never become a transaction of its own.
	r.log.Debug().Str("year", year).Msg("orphan year fragment discarded")
}

func mergeYear(raw, year string) string {
	if normalize.EndsWithMonthDash(raw) {
		return raw + year
	}
	return raw
}

func (r *Reconstructor) flush() {
	if r.current == nil {
		return
	}
	rec := r.current.finalize(r.inf, r.opts.ContinuationJoin)
	r.ledger = append(r.ledger, rec)
	r.current = nil
}

var dateLikePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}[-/.][A-Za-z]{3,9}[-/.]?`),
	regexp.MustCompile(`^\d{1,2}[-/.]\d{1,2}[-/.]`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4}`),
}

// looksDateLike catches date cells too damaged to parse — most
// importantly a "30-JAN-" truncated before a page break — so the row
// still opens a record instead of bleeding into the previous one.
func looksDateLike(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	for _, p := range dateLikePatterns {
		if p.MatchString(t) {
			return true
		}
	}
	return false
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
