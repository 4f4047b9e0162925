package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func TestResolve(t *testing.T) {
	m := Default()

	tests := []struct {
		header string
		want   string
		wantOK bool
	}{
		{"Txn Date", models.FieldTxnDate, true},
		{"TRANSACTION DATE", models.FieldTxnDate, true},
		{"Posted\nDate", models.FieldTxnDate, true},
		{"Value Date", models.FieldValDate, true},
		{"Narration", models.FieldRemarks, true},
		{"Money Out", models.FieldDebit, true},
		{"Paid In", models.FieldCredit, true},
		{"Balance (NGN)", models.FieldBalance, true},
		{"Txn Amount", models.FieldAmount, true},
		{"Reference Number", models.FieldReference, true},
		{"Random Column", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := m.Resolve(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSharedAliasPrefersTxnDate(t *testing.T) {
	// "date" is an alias of both date fields; canonical order wins.
	got, ok := Default().Resolve("Date")
	require.True(t, ok)
	assert.Equal(t, models.FieldTxnDate, got)
}

func TestMerge(t *testing.T) {
	m, err := Default().Merge(map[string][]string{
		models.FieldRemarks: {"Story Line"},
	})
	require.NoError(t, err)

	got, ok := m.Resolve("story line")
	require.True(t, ok)
	assert.Equal(t, models.FieldRemarks, got)

	// The base map is untouched.
	_, ok = Default().Resolve("story line")
	assert.False(t, ok)
}

func TestMergeRejectsUnknownField(t *testing.T) {
	_, err := Default().Merge(map[string][]string{"NOT_A_FIELD": {"x"}})
	assert.Error(t, err)
}
