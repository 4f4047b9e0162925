package strategy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/fieldmap"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Entry binds an issuer key to its detection substrings and its ordered
// strategy list, most specific variant first.
type Entry struct {
	Issuer     string
	Sniff      []string // lowercase substrings that identify the issuer
	Strategies []Strategy
}

// Registry holds issuer entries in registration order plus the global
// last-resort strategy. It is built once and read-only afterwards.
type Registry struct {
	entries []Entry
	generic Strategy
}

// NewRegistry returns a registry seeded with the builtin issuer entries.
func NewRegistry() *Registry {
	return &Registry{
		entries: builtinEntries(),
		generic: Strategy{Name: "generic", Post: DropDatelessRecords},
	}
}

// Register appends an issuer entry. Later entries lose detection ties.
func (r *Registry) Register(e Entry) {
	r.entries = append(r.entries, e)
}

// Detect sniffs the combined page text for an issuer identifier and
// returns the issuer key, or "" when nothing matched.
func (r *Registry) Detect(pages []models.Page) string {
	var sb strings.Builder
	for _, p := range pages {
		for _, t := range p.Tables {
			for _, row := range t.Rows {
				sb.WriteString(strings.Join(row, " "))
				sb.WriteByte('\n')
			}
		}
		for _, l := range p.Lines {
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}
	text := strings.ToLower(sb.String())

	for _, e := range r.entries {
		for _, needle := range e.Sniff {
			if strings.Contains(text, needle) {
				return e.Issuer
			}
		}
	}
	return ""
}

// Candidates returns the ordered strategy list for a dispatch: the
// issuer's own variants (most specific first), then the global generic
// last resort. An unknown issuer key yields just the generic strategy.
func (r *Registry) Candidates(issuer string) []Strategy {
	var out []Strategy
	for _, e := range r.entries {
		if e.Issuer == issuer {
			out = append(out, e.Strategies...)
			break
		}
	}
	return append(out, r.generic)
}

// ApplyConfig layers configuration onto the registered strategies:
// per-issuer field-map alias overrides (the key "generic" targets the
// last-resort strategy) and a global header-detection minimum for
// strategies that don't set their own.
func (r *Registry) ApplyConfig(minHeaderFields int, overrides map[string]map[string][]string) error {
	apply := func(s *Strategy, extra map[string][]string) error {
		if minHeaderFields > 0 && s.MinHeaderFields == 0 {
			s.MinHeaderFields = minHeaderFields
		}
		if extra == nil {
			return nil
		}
		base := s.FieldMap
		if base == nil {
			base = fieldmap.Default()
		}
		merged, err := base.Merge(extra)
		if err != nil {
			return fmt.Errorf("field map override for %s: %w", s.Name, err)
		}
		s.FieldMap = merged
		return nil
	}

	for i := range r.entries {
		e := &r.entries[i]
		for j := range e.Strategies {
			if err := apply(&e.Strategies[j], overrides[e.Issuer]); err != nil {
				return err
			}
		}
	}
	return apply(&r.generic, overrides["generic"])
}

// Issuers lists the registered issuer keys in order.
func (r *Registry) Issuers() []string {
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Issuer)
	}
	return out
}

func mustMerge(extra map[string][]string) fieldmap.FieldMap {
	m, err := fieldmap.Default().Merge(extra)
	if err != nil {
		panic(err)
	}
	return m
}

var pageFooterPattern = regexp.MustCompile(`(?i)^\s*(page \d+ of \d+|generated on .*|\d+ of \d+)\s*$`)

// stripPageFooters removes pagination chrome from text-line pages.
func stripPageFooters(pages []models.Page) []models.Page {
	out := make([]models.Page, len(pages))
	for i, p := range pages {
		q := p
		q.Lines = nil
		for _, l := range p.Lines {
			if pageFooterPattern.MatchString(l) {
				continue
			}
			q.Lines = append(q.Lines, l)
		}
		out[i] = q
	}
	return out
}

// builtinEntries mirrors the statement layouts collected from real issuer
// samples. Order within an entry is a monotonically decreasing confidence
// ordering: variant-specific first, issuer-generic last.
func builtinEntries() []Entry {
	return []Entry{
		{
			Issuer: "access",
			Sniff:  []string{"access bank", "accessbankplc"},
			Strategies: []Strategy{
				{
					// Full-grid tables: date columns print dd-MMM-yy and
					// wrap across page breaks, so remarks join with
					// newlines to keep narration audit-friendly.
					Name: "access/table-01",
					FieldMap: mustMerge(map[string][]string{
						models.FieldRemarks: {"transaction remarks"},
					}),
					MinHeaderFields:  3,
					ContinuationJoin: "\n",
				},
				{Name: "access/universal"},
			},
		},
		{
			Issuer: "gtb",
			Sniff:  []string{"guaranty trust", "gtbank", "gtworld"},
			Strategies: []Strategy{
				{
					Name: "gtb/table-01",
					FieldMap: mustMerge(map[string][]string{
						models.FieldRemarks:   {"remarks/description"},
						models.FieldReference: {"reference no"},
					}),
				},
				{Name: "gtb/universal"},
			},
		},
		{
			Issuer: "fidelity",
			Sniff:  []string{"fidelity bank"},
			Strategies: []Strategy{
				{
					Name: "fidelity/table-01",
					FieldMap: mustMerge(map[string][]string{
						models.FieldCredit: {"lodgement"},
						models.FieldDebit:  {"withdrawal amount"},
					}),
					Post: DropDatelessRecords,
				},
				{Name: "fidelity/universal"},
			},
		},
		{
			Issuer: "zenith",
			Sniff:  []string{"zenith bank", "zenithbank"},
			Strategies: []Strategy{
				{
					// Single signed-amount column; direction comes from the
					// running balance.
					Name: "zenith/table-01",
					FieldMap: mustMerge(map[string][]string{
						models.FieldAmount:  {"withdrawal/deposit", "debit/credit"},
						models.FieldRemarks: {"transaction description"},
					}),
				},
				{Name: "zenith/universal"},
			},
		},
		{
			Issuer: "kuda",
			Sniff:  []string{"kuda microfinance", "kuda bank", "kuda."},
			Strategies: []Strategy{
				{
					// Kuda exports rarely carry a table grid; lines arrive
					// as positioned text with pagination chrome.
					Name: "kuda/text-01",
					Pre:  stripPageFooters,
					Post: DropDatelessRecords,
				},
				{Name: "kuda/universal"},
			},
		},
	}
}
