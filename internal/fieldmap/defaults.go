package fieldmap

import "github.com/insightdelivered/statement-ledger/internal/models"

// Alias tables collected from real statement samples across the supported
// issuers. Aliases are stored pre-normalized (lowercase, single spaces).
var defaultAliases = map[string][]string{
	models.FieldTxnDate: {
		"txn date", "trans date", "transaction date", "date",
		"post date", "posted date", "trans. date", "create date",
	},
	models.FieldValDate: {
		"val date", "value date", "effective date", "value. date", "valuedate",
	},
	models.FieldReference: {
		"reference", "ref", "transaction id", "txn id", "ref. number",
		"reference number", "check no", "channel", "instrument no",
	},
	models.FieldRemarks: {
		"remarks", "description", "narration", "comment",
		"transaction details", "details", "descr", "description/payee/memo",
	},
	models.FieldDebit: {
		"debit", "withdrawal", "dr", "withdrawal(dr)", "debits", "money out",
		"debit (ngn)", "debit amount", "pay out", "paid out", "withdrawals",
	},
	models.FieldCredit: {
		"credit", "deposit", "cr", "deposit(cr)", "credits", "money in",
		"credit(₦)", "credit (ngn)", "credit amount", "pay in", "paid in",
		"lodgements",
	},
	models.FieldBalance: {
		"balance", "bal", "account balance", "balance(₦)", "balance (ngn)",
		"running balance",
	},
	models.FieldAmount: {
		"amount", "txn amount", "transaction amount", "amount (ngn)",
	},
}

// Default returns a fresh copy of the builtin alias tables.
func Default() FieldMap {
	m := make(FieldMap, len(defaultAliases))
	for field, aliases := range defaultAliases {
		m[field] = append([]string(nil), aliases...)
	}
	return m
}
