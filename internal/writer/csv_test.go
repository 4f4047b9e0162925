package writer

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/metadata"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

func sampleLedger() models.Ledger {
	return models.Ledger{
		{
			TxnDate: "2025-01-01", ValDate: "2025-01-01",
			Remarks: "OPENING", Debit: "0.00", Credit: "0.00",
			Balance: "1000.00", Consistent: true, Discrepancy: "0.00",
		},
		{
			TxnDate: "2025-01-02", ValDate: "2025-01-02",
			Reference: "TRF/001", Remarks: "ATM WITHDRAWAL, IKEJA",
			Debit: "50.00", Credit: "0.00",
			Balance: "940.00", Consistent: false, Discrepancy: "10.00",
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleLedger(), metadata.Info{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{
		"2025-01-01", "2025-01-01", "", "OPENING",
		"0.00", "0.00", "1000.00", "true", "0.00",
	}, rows[1])
	assert.Equal(t, []string{
		"2025-01-02", "2025-01-02", "TRF/001", "ATM WITHDRAWAL, IKEJA",
		"50.00", "0.00", "940.00", "false", "10.00",
	}, rows[2])
}

func TestWriteMetadataHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	meta := metadata.Info{
		AccountName:    "ADAEZE OKONKWO",
		AccountNumber:  "0123456789",
		Period:         "01-Jan-2025 to 31-Jan-2025",
		OpeningBalance: "1000.00",
	}
	require.NoError(t, w.Write(&buf, sampleLedger(), meta))

	out := buf.String()
	assert.Contains(t, out, "# Account Name,ADAEZE OKONKWO")
	assert.Contains(t, out, "# Account Number,0123456789")
	assert.Contains(t, out, "# Statement Period,01-Jan-2025 to 31-Jan-2025")
	assert.Contains(t, out, "# Opening Balance,1000.00")

	// Data layout is unchanged below the comment block.
	assert.Contains(t, out, strings.Join(Columns, ","))
}

func TestWriteMetadataHeaderSkipsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, nil, metadata.Info{AccountNumber: "0123456789"}))

	out := buf.String()
	assert.Contains(t, out, "# Account Number")
	assert.NotContains(t, out, "# Account Name")
	assert.NotContains(t, out, "# Statement Period")
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	w := &CSVWriter{}
	require.NoError(t, w.WriteToFile(path, sampleLedger(), metadata.Info{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(Columns, ",")))
}
