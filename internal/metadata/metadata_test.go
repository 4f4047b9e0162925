package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func TestExtractFromTextLines(t *testing.T) {
	pages := []models.Page{{
		Number: 1,
		Lines: []string{
			"ACCESS BANK PLC",
			"Account Name: ADAEZE OKONKWO",
			"Account Number: 0123456789",
			"Statement Period: 01-Jan-2025 to 31-Jan-2025",
			"Opening Balance: ₦1,000.00",
			"Closing Balance: ₦950.00",
		},
	}}

	info := Extract(pages)

	assert.Equal(t, "ADAEZE OKONKWO", info.AccountName)
	assert.Equal(t, "0123456789", info.AccountNumber)
	assert.Equal(t, "01-Jan-2025 to 31-Jan-2025", info.Period)
	assert.Equal(t, "1000.00", info.OpeningBalance)
	assert.Equal(t, "950.00", info.ClosingBalance)
}

func TestExtractFromTableRows(t *testing.T) {
	pages := []models.Page{{
		Number: 1,
		Tables: []models.Table{{Rows: [][]string{
			{"Account Name", "CHUKWUDI EZE"},
			{"Account No", "9876543210"},
		}}},
	}}

	info := Extract(pages)
	assert.Equal(t, "CHUKWUDI EZE", info.AccountName)
	assert.Equal(t, "9876543210", info.AccountNumber)
}

func TestExtractAccountNumberFallback(t *testing.T) {
	pages := []models.Page{{
		Number: 1,
		Lines:  []string{"Statement of Account", "NUBAN 0011223344 Current"},
	}}

	info := Extract(pages)
	assert.Equal(t, "0011223344", info.AccountNumber)
}

func TestExtractValueOnFollowingLine(t *testing.T) {
	pages := []models.Page{{
		Number: 1,
		Lines:  []string{"Account Name:", "BOLANLE ADEYEMI"},
	}}

	info := Extract(pages)
	assert.Equal(t, "BOLANLE ADEYEMI", info.AccountName)
}

func TestExtractEmpty(t *testing.T) {
	assert.Equal(t, Info{}, Extract(nil))
	assert.Equal(t, Info{}, Extract([]models.Page{{Number: 1}}))
}
