package models

// Canonical field names a statement column can resolve to.
const (
	FieldTxnDate   = "TXN_DATE"
	FieldValDate   = "VAL_DATE"
	FieldReference = "REFERENCE"
	FieldRemarks   = "REMARKS"
	FieldDebit     = "DEBIT"
	FieldCredit    = "CREDIT"
	FieldBalance   = "BALANCE"
	FieldAmount    = "AMOUNT"
)

// CanonicalFields lists every recognized field name, in output column order.
var CanonicalFields = []string{
	FieldTxnDate, FieldValDate, FieldReference, FieldRemarks,
	FieldDebit, FieldCredit, FieldBalance, FieldAmount,
}

// TransactionRecord is one reconstructed statement transaction.
//
// Monetary fields are decimal strings with exactly two fraction digits
// ("1234.56"), never floats. At most one of Debit/Credit is non-zero.
// Dates are ISO YYYY-MM-DD, or empty when the source text never parsed.
type TransactionRecord struct {
	TxnDate     string `json:"txnDate"`
	ValDate     string `json:"valDate"`
	Reference   string `json:"reference"`
	Remarks     string `json:"remarks"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Balance     string `json:"balance"`
	Consistent  bool   `json:"consistent"`
	Discrepancy string `json:"discrepancy"`
}

// Ledger is the ordered sequence of finalized records for one document,
// in document order. The core never reorders it; issuers differ on
// ascending vs descending chronology.
type Ledger []TransactionRecord

// ValidityScore summarizes a consistency-validation pass over a ledger.
type ValidityScore struct {
	Accepted int     `json:"accepted"` // records marked consistent
	Checked  int     `json:"checked"`  // records the rate is computed over
	Rate     float64 `json:"rate"`
}
