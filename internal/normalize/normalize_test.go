package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"dash abbreviated month", "30-Jan-2025", "2025-01-30", true},
		{"dash upper month", "30-JAN-25", "2025-01-30", true},
		{"dash lower month", "3-feb-25", "2025-02-03", true},
		{"slash numeric", "02/01/2025", "2025-01-02", true},
		{"slash two-digit year", "02/01/25", "2025-01-02", true},
		{"dash numeric", "15-03-2024", "2024-03-15", true},
		{"iso passthrough", "2025-01-30", "2025-01-30", true},
		{"spaced month", "15 Jan 2024", "2024-01-15", true},
		{"dotted", "15.01.2024", "2024-01-15", true},
		{"full month", "15 January 2024", "2024-01-15", true},
		{"dash full month", "15-January-2024", "2024-01-15", true},
		{"us month-first", "Jan 15, 2024", "2024-01-15", true},
		{"empty", "", "", true},
		{"total row", "Total", "", true},
		{"closing row", "Closing Balance", "", true},
		{"opening row", "opening balance", "", true},
		{"subtotal row", "Subtotal", "", true},
		{"garbage returns original", "not a date", "not a date", false},
		{"bare year", "25", "25", false},
		{"truncated month dash", "30-JAN-", "30-JAN-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDateIdempotent(t *testing.T) {
	// Normalizing an already-ISO date must be a no-op.
	for _, iso := range []string{"2024-01-01", "2025-12-31", "2023-06-15"} {
		got, ok := Date(iso)
		assert.True(t, ok)
		assert.Equal(t, iso, got)
	}
}

func TestDateTwoDigitYearsMapTo2000s(t *testing.T) {
	got, ok := Date("01-Jan-99")
	assert.True(t, ok)
	assert.Equal(t, "2099-01-01", got)
}

func TestJoinDateFragments(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"03-FEB-\n25", "03-FEB-25"},
		{"03 - FEB - 25", "03-FEB-25"},
		{"30-JAN-2025", "30-JAN-2025"},
		{"15  Jan  2024", "15 Jan 2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinDateFragments(tt.in))
	}
}

func TestJoinThenDate(t *testing.T) {
	got, ok := Date(JoinDateFragments("03-FEB-\n25"))
	assert.True(t, ok)
	assert.Equal(t, "2025-02-03", got)
}

func TestMoney(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"plain", "1234.56", "1234.56", true},
		{"thousands", "1,234.56", "1234.56", true},
		{"naira glyph", "₦1,234.56", "1234.56", true},
		{"pound glyph", "£50.00", "50.00", true},
		{"nbsp", "1 234.50", "1234.50", true},
		{"parenthesized negative", "(1,234.56)", "-1234.56", true},
		{"cr suffix positive", "1,234.56 CR", "1234.56", true},
		{"dr suffix negative", "1,234.56 DR", "-1234.56", true},
		{"db suffix negative", "500.00DB", "-500.00", true},
		{"signed negative", "-50.00", "-50.00", true},
		{"placeholder dash", "-", "0.00", true},
		{"placeholder em dash", "—", "0.00", true},
		{"placeholder all dash", "---", "0.00", true},
		{"empty", "", "0.00", true},
		{"integer gets fraction", "1000", "1000.00", true},
		{"three decimals rounded", "10.005", "10.01", true},
		{"garbage", "abc", "0.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Money(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	// Canonical two-fraction-digit strings map to themselves.
	for _, s := range []string{"0.00", "1.00", "950.00", "1234.56", "-50.00", "99999999.99"} {
		got, ok := Money(s)
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestYearFragmentHelpers(t *testing.T) {
	assert.True(t, IsYearOnly("25"))
	assert.True(t, IsYearOnly(" 2025 "))
	assert.False(t, IsYearOnly("253"))
	assert.False(t, IsYearOnly("30-JAN-25"))
	assert.False(t, IsYearOnly(""))

	assert.True(t, EndsWithMonthDash("30-JAN-"))
	assert.True(t, EndsWithMonthDash("3-Feb- "))
	assert.False(t, EndsWithMonthDash("30-JAN-25"))
	assert.False(t, EndsWithMonthDash("JAN-"))
}

func TestHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Posted\nDate", "posted date"},
		{"  TXN  DATE  ", "txn date"},
		{"Balance:", "balance"},
		{"Trans. Date", "trans. date"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Header(tt.in))
	}
}
