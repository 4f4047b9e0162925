// Package extractor adapts the external page-extraction collaborator: it
// turns a statement document into the per-page fragment streams the
// reconstruction pipeline consumes. All document I/O lives here — the
// core stages never touch a file.
package extractor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// ExtractPages reads a PDF file and returns one Page of text lines per
// document page. Two extraction methods are tried in order; whichever
// first yields readable text wins. Garbage from identity-encoded fonts is
// never returned.
func ExtractPages(filePath string) ([]models.Page, error) {
	texts, err := extractWithLibrary(filePath)
	if err != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w. The PDF may use custom fonts or be image-based/scanned", err)
	}
	if !isReadableText(texts) {
		return nil, fmt.Errorf("no readable text could be extracted from PDF; the file may be image-based/scanned or use custom font encodings")
	}

	pages := make([]models.Page, 0, len(texts))
	for i, t := range texts {
		p := models.Page{Number: i + 1}
		for _, line := range strings.Split(t, "\n") {
			if strings.TrimSpace(line) != "" {
				p.Lines = append(p.Lines, line)
			}
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// extractWithLibrary uses the ledongthuc/pdf library, trying row-based
// extraction first and coordinate-based reconstruction second.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	return pages, nil
}

// extractByRow uses GetTextByRow — best for well-structured PDFs.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent reads raw text objects and reconstructs rows by Y
// coordinate, sorting each row by X. Large X gaps become double-space
// column separators so downstream line parsing can still find columns.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y runs bottom-to-top.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// textQuality returns the ratio of basic readable characters to total.
// Strict ASCII plus statement punctuation — unicode.IsLetter is too broad
// and matches the accented garbage identity-encoded fonts produce.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"%&@#!?+=*`, r) ||
				r == '₦' || r == '£' || r == '$' || r == '€' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually every bank statement; text containing
// none of them is likely garbage.
var commonWords = []string{
	"bank", "account", "balance", "date", "statement", "total", "amount",
	"credit", "debit", "transaction", "narration", "withdrawal", "deposit",
	"opening", "closing", "transfer", "reference", "page", "period",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires >50 chars, >60% readable characters and at
// least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
