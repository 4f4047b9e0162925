// Package metadata pulls advisory account details off the first page of a
// statement: holder, account number, period, opening balance. It is a
// cross-check aid only — parsing never gates on any of it.
package metadata

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/normalize"
)

// Info is what the first page volunteers about the account.
type Info struct {
	AccountName    string `json:"accountName,omitempty"`
	AccountNumber  string `json:"accountNumber,omitempty"`
	Period         string `json:"period,omitempty"`
	OpeningBalance string `json:"openingBalance,omitempty"`
	ClosingBalance string `json:"closingBalance,omitempty"`
}

var (
	moneyPattern   = regexp.MustCompile(`₦?\s?\(?-?[\d,]+\.\d{2}\)?`)
	acctNoPattern  = regexp.MustCompile(`\b\d{10}\b`)
	datePattern    = regexp.MustCompile(`\b\d{1,2}[-/ ](?:[A-Za-z]{3,9}|\d{1,2})[-/ ]\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	labelDelimiter = regexp.MustCompile(`\s*[:\-]\s*`)
)

// Extract scans the first page's text for labeled metadata.
func Extract(pages []models.Page) Info {
	if len(pages) == 0 {
		return Info{}
	}
	lines := firstPageLines(pages[0])

	info := Info{
		AccountName:   firstAfterLabel(lines, "account name", "account holder", "customer name"),
		AccountNumber: firstAfterLabel(lines, "account number", "account no", "acct no"),
	}
	if info.AccountNumber == "" {
		for _, l := range lines {
			if m := acctNoPattern.FindString(l); m != "" {
				info.AccountNumber = m
				break
			}
		}
	}

	info.Period = extractPeriod(lines)

	if raw := firstMoneyAfterLabel(lines, "opening balance", "opening bal"); raw != "" {
		if v, ok := normalize.Money(raw); ok {
			info.OpeningBalance = v
		}
	}
	if raw := firstMoneyAfterLabel(lines, "closing balance", "closing bal"); raw != "" {
		if v, ok := normalize.Money(raw); ok {
			info.ClosingBalance = v
		}
	}
	return info
}

func firstPageLines(p models.Page) []string {
	if len(p.Lines) > 0 {
		return p.Lines
	}
	var lines []string
	for _, t := range p.Tables {
		for _, row := range t.Rows {
			lines = append(lines, strings.Join(row, " "))
		}
	}
	return lines
}

func firstAfterLabel(lines []string, labels ...string) string {
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, label := range labels {
			idx := strings.Index(lower, label)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line[idx+len(label):])
			rest = labelDelimiter.ReplaceAllString(rest, " ")
			rest = strings.TrimSpace(rest)
			if rest != "" {
				// Values often sit before a second label on the same line.
				if cut := strings.Index(rest, "  "); cut > 0 {
					rest = rest[:cut]
				}
				return strings.TrimSpace(rest)
			}
			// Value may sit on the following line.
			if i+1 < len(lines) {
				if next := strings.TrimSpace(lines[i+1]); next != "" {
					return next
				}
			}
		}
	}
	return ""
}

func firstMoneyAfterLabel(lines []string, labels ...string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, label := range labels {
			if idx := strings.Index(lower, label); idx >= 0 {
				if m := moneyPattern.FindString(line[idx:]); m != "" {
					return m
				}
			}
		}
	}
	return ""
}

func extractPeriod(lines []string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "period") && !strings.Contains(lower, " from ") {
			continue
		}
		dates := datePattern.FindAllString(line, 2)
		if len(dates) == 2 {
			return dates[0] + " to " + dates[1]
		}
	}
	return ""
}
