package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// documentJSON is the wire form of pre-extracted collaborator output: a
// client that already ran table extraction posts pages as cell grids
// and/or text lines instead of uploading the PDF again.
type documentJSON struct {
	Pages []pageJSON `json:"pages"`
}

type pageJSON struct {
	Number int          `json:"number,omitempty"`
	Tables [][][]string `json:"tables,omitempty"`
	Lines  []string     `json:"lines,omitempty"`
	Text   string       `json:"text,omitempty"`
}

// ParseDocumentJSON decodes pre-extracted pages. Missing cells arrive as
// empty strings; a page may carry tables, lines, or a single text blob
// which is split into lines.
func ParseDocumentJSON(raw []byte) ([]models.Page, error) {
	var doc documentJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode extracted document: %w", err)
	}

	pages := make([]models.Page, 0, len(doc.Pages))
	for i, pj := range doc.Pages {
		p := models.Page{Number: pj.Number}
		if p.Number == 0 {
			p.Number = i + 1
		}
		for _, rows := range pj.Tables {
			p.Tables = append(p.Tables, models.Table{Rows: rows})
		}
		p.Lines = pj.Lines
		if pj.Text != "" {
			for _, line := range strings.Split(pj.Text, "\n") {
				if strings.TrimSpace(line) != "" {
					p.Lines = append(p.Lines, line)
				}
			}
		}
		pages = append(pages, p)
	}
	return pages, nil
}
