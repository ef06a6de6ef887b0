package main

import (
	"testing"
	"time"

	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(status string, nftID string) *ledger.Entry {
	e := &ledger.Entry{
		Signature:        "sig-1",
		Timestamp:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:           status,
		RecipientAddress: "6rAKkowi3d6BUtFV1DxyDxNQE75nkZdfJhhPswdXAJL6",
		Amount:           0.1,
	}
	if nftID != "" {
		e.NFTID = &nftID
	}
	return e
}

func TestCompileJQFilters_Invalid(t *testing.T) {
	_, err := compileJQFilters([]string{".status =="})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse jq filter")
}

func TestMatchesJQFilters(t *testing.T) {
	cases := []struct {
		name    string
		filters []string
		entry   *ledger.Entry
		want    bool
	}{
		{
			name:    "no filters matches everything",
			filters: nil,
			entry:   testEntry(ledger.StatusCompleted, "parchita-mermaid"),
			want:    true,
		},
		{
			name:    "status match",
			filters: []string{`.status == "completed"`},
			entry:   testEntry(ledger.StatusCompleted, "parchita-mermaid"),
			want:    true,
		},
		{
			name:    "status mismatch",
			filters: []string{`.status == "completed"`},
			entry:   testEntry(ledger.StatusFailed, "parchita-mermaid"),
			want:    false,
		},
		{
			name:    "all filters must match",
			filters: []string{`.status == "completed"`, `.amount > 1`},
			entry:   testEntry(ledger.StatusCompleted, "parchita-mermaid"),
			want:    false,
		},
		{
			name:    "wire field names are visible",
			filters: []string{`.nftId == "parchita-mermaid"`},
			entry:   testEntry(ledger.StatusCompleted, "parchita-mermaid"),
			want:    true,
		},
		{
			name:    "null nftId",
			filters: []string{`.nftId == null`},
			entry:   testEntry(ledger.StatusFailed, ""),
			want:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			compiled, err := compileJQFilters(tc.filters)
			require.NoError(t, err)

			got, err := matchesJQFilters(compiled, tc.entry)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, isTruthy(true))
	assert.True(t, isTruthy("x"))
	assert.True(t, isTruthy(1.5))
	assert.True(t, isTruthy(map[string]any{}))
	assert.False(t, isTruthy(false))
	assert.False(t, isTruthy(nil))
	assert.False(t, isTruthy(""))
	assert.False(t, isTruthy(0.0))
}
