package models

// RawFragment is one extracted table row or text line, exactly as delivered
// by the extraction collaborator. Cells may be shorter than the header row;
// the reconstructor pads them. For text-line input, Line is set and Cells is
// nil. Fragments are ephemeral: they live for a single reconstruction pass.
type RawFragment struct {
	Cells []string
	Line  string
	Page  int
	Index int
}

// IsTextLine reports whether the fragment came from plain-text extraction
// rather than a table grid.
func (f RawFragment) IsTextLine() bool {
	return f.Cells == nil
}

// Table is one extracted table: an ordered sequence of rows.
type Table struct {
	Rows [][]string
}

// Page is the extraction collaborator's output for one document page:
// zero or more tables, plus the page text split into lines for sources
// where no table grid was recoverable.
type Page struct {
	Number int
	Tables []Table
	Lines  []string
}

// Fragments flattens a page into the ordered fragment stream the
// reconstructor consumes: table rows first (in table order), then text
// lines when no tables were found on the page.
func (p Page) Fragments() []RawFragment {
	var frags []RawFragment
	for _, t := range p.Tables {
		for i, row := range t.Rows {
			frags = append(frags, RawFragment{Cells: row, Page: p.Number, Index: i})
		}
	}
	if len(p.Tables) == 0 {
		for i, line := range p.Lines {
			frags = append(frags, RawFragment{Line: line, Page: p.Number, Index: i})
		}
	}
	return frags
}
