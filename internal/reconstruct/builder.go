package reconstruct

import (
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/direction"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/normalize"
)

// recordBuilder is the single mutable "current record" buffer. Exactly one
// builder is open at a time during reconstruction; continuation fragments
// mutate it, and it only becomes an immutable TransactionRecord at flush.
type recordBuilder struct {
	rawTxnDate string // kept verbatim for cross-page date repair
	rawValDate string
	txnDate    string
	valDate    string
	reference  string
	remarks    []string
	debit      string // normalized or "" when the column is absent/blank
	credit     string
	amount     string
	balance    string
}

func (b *recordBuilder) appendRemarks(text string) {
	t := strings.TrimSpace(text)
	if t != "" {
		b.remarks = append(b.remarks, collapseSpaces(t))
	}
}

// backfill fills still-unset monetary and value-date fields from a
// continuation fragment that happens to carry them.
func (b *recordBuilder) backfill(debit, credit, balance, valDate string) {
	if b.debit == "" && debit != "" {
		b.debit = debit
	}
	if b.credit == "" && credit != "" {
		b.credit = credit
	}
	if b.balance == "" && balance != "" {
		b.balance = balance
	}
	if b.valDate == "" && valDate != "" {
		b.valDate = valDate
	}
}

// finalize converts the buffer into an immutable record, running direction
// inference over whatever movement the buffer accumulated.
func (b *recordBuilder) finalize(inf *direction.Inferencer, joiner string) models.TransactionRecord {
	remarks := strings.Join(b.remarks, joiner)

	debit, credit := inf.Infer(direction.Observation{
		Debit:   b.debit,
		Credit:  b.credit,
		Amount:  b.amount,
		Balance: b.balance,
		Remarks: remarks,
	})

	valDate := b.valDate
	if valDate == "" {
		valDate = b.txnDate
	}
	txnDate := b.txnDate
	if txnDate == "" {
		txnDate = b.valDate
	}

	return models.TransactionRecord{
		TxnDate:     txnDate,
		ValDate:     valDate,
		Reference:   b.reference,
		Remarks:     remarks,
		Debit:       debit,
		Credit:      credit,
		Balance:     b.balance,
		Discrepancy: normalize.Zero,
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
