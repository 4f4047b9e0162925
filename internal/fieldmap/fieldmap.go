// Package fieldmap maps the column headers an issuer prints to the
// canonical transaction fields the reconstruction pipeline understands.
package fieldmap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/normalize"
)

// FieldMap maps a canonical field name to the set of header aliases
// recognized for it. Aliases are stored lowercase and whitespace-normalized;
// Resolve applies the same normalization to incoming header text.
// Immutable once built — issuers get their own copies via Merge.
type FieldMap map[string][]string

// Resolve returns the canonical field a header cell maps to. Canonical
// fields are tried in declaration order, so a shared alias like "date"
// resolves to TXN_DATE before VAL_DATE, matching how issuers print
// single-date layouts.
func (m FieldMap) Resolve(header string) (string, bool) {
	h := normalize.Header(header)
	if h == "" {
		return "", false
	}
	for _, field := range models.CanonicalFields {
		for _, alias := range m[field] {
			if h == alias {
				return field, true
			}
		}
	}
	return "", false
}

// Merge returns a copy of m with extra aliases appended per field.
// Unknown field names in extra are rejected.
func (m FieldMap) Merge(extra map[string][]string) (FieldMap, error) {
	out := make(FieldMap, len(m))
	for field, aliases := range m {
		out[field] = append([]string(nil), aliases...)
	}
	for field, aliases := range extra {
		if !isCanonical(field) {
			return nil, fmt.Errorf("unknown canonical field %q in field map override", field)
		}
		for _, a := range aliases {
			out[field] = append(out[field], normalize.Header(a))
		}
	}
	return out, nil
}

func isCanonical(field string) bool {
	for _, f := range models.CanonicalFields {
		if f == field {
			return true
		}
	}
	return false
}

// LoadFile reads per-field alias overrides from a YAML file and merges
// them over the builtin defaults.
func LoadFile(path string) (FieldMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field map %q: %w", path, err)
	}
	var extra map[string][]string
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("parse field map %q: %w", path, err)
	}
	return Default().Merge(extra)
}
