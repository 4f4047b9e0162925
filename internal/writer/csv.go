package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/statement-ledger/internal/metadata"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Columns is the stable output field order, identical across all issuer
// strategies.
var Columns = []string{
	"TXN_DATE", "VAL_DATE", "REFERENCE", "REMARKS",
	"DEBIT", "CREDIT", "BALANCE", "CONSISTENT", "DISCREPANCY",
}

// CSVWriter serializes a scored ledger, one record per row.
type CSVWriter struct {
	// IncludeHeader prepends advisory account metadata as comment rows.
	IncludeHeader bool
}

// WriteToFile writes the ledger to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, ledger models.Ledger, meta metadata.Info) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, ledger, meta)
}

// Write writes the ledger in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, ledger models.Ledger, meta metadata.Info) error {
	cw := csv.NewWriter(out)

	if w.IncludeHeader {
		if meta.AccountName != "" {
			cw.Write([]string{"# Account Name", meta.AccountName})
		}
		if meta.AccountNumber != "" {
			cw.Write([]string{"# Account Number", meta.AccountNumber})
		}
		if meta.Period != "" {
			cw.Write([]string{"# Statement Period", meta.Period})
		}
		if meta.OpeningBalance != "" {
			cw.Write([]string{"# Opening Balance", meta.OpeningBalance})
		}
	}

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, rec := range ledger {
		row := []string{
			rec.TxnDate,
			rec.ValDate,
			rec.Reference,
			rec.Remarks,
			rec.Debit,
			rec.Credit,
			rec.Balance,
			strconv.FormatBool(rec.Consistent),
			rec.Discrepancy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
