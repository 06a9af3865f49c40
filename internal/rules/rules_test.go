package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
)

func txn(desc, typ, amount string) model.CanonicalTransaction {
	return model.CanonicalTransaction{
		Description: desc,
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCategorize_MatchTypes(t *testing.T) {
	rs, err := New([]Rule{
		{Priority: 10, Category: "Exact", Match: "exact", Pattern: "acme ltd"},
		{Priority: 20, Category: "Starts", Match: "startswith", Pattern: "card payment"},
		{Priority: 30, Category: "Ends", Match: "endswith", Pattern: "coffee"},
		{Priority: 40, Category: "Regex", Match: "regex", Pattern: `uber\s+\d+`},
		{Priority: 50, Category: "Contains", Pattern: "rent"},
	})
	require.NoError(t, err)

	tests := []struct {
		desc string
		want string
	}{
		{"ACME LTD", "Exact"},
		{"Card Payment To Shop", "Starts"},
		{"MORNING COFFEE", "Ends"},
		{"UBER 12345 TRIP", "Regex"},
		{"MONTHLY RENT DUE", "Contains"},
		{"UNMATCHED THING", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rs.Categorize(txn(tt.desc, "", "-10.00")), "desc %q", tt.desc)
	}
}

func TestCategorize_PriorityOrderFirstMatchWins(t *testing.T) {
	rs, err := New([]Rule{
		{Priority: 90, Category: "Late", Pattern: "shop"},
		{Priority: 10, Category: "Early", Pattern: "shop"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Early", rs.Categorize(txn("CORNER SHOP", "", "-5.00")))
}

func TestCategorize_DirectionFilter(t *testing.T) {
	rs, err := New([]Rule{
		{Priority: 10, Category: "Income", Pattern: "acme", Direction: "credit"},
		{Priority: 20, Category: "Refund", Pattern: "acme", Direction: "debit"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Income", rs.Categorize(txn("ACME LTD", "", "150.00")))
	assert.Equal(t, "Refund", rs.Categorize(txn("ACME LTD", "", "-150.00")))
}

func TestCategorize_TypeContainsFilter(t *testing.T) {
	rs, err := New([]Rule{
		{Priority: 10, Category: "Transfers", Pattern: "savings", TypeContains: "bac"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Transfers", rs.Categorize(txn("TO SAVINGS", "BAC", "-20.00")))
	assert.Empty(t, rs.Categorize(txn("TO SAVINGS", "CHG", "-20.00")))
}

func TestNew_DropsInactiveAndIncompleteRules(t *testing.T) {
	rs, err := New([]Rule{
		{Priority: 10, Category: "Off", Pattern: "x", Active: boolPtr(false)},
		{Priority: 20, Category: "", Pattern: "x"},
		{Priority: 30, Category: "NoPattern", Pattern: ""},
	})
	require.NoError(t, err)
	assert.Empty(t, rs.Categorize(txn("x", "", "-1.00")))
}

func TestNew_BadRegexIsError(t *testing.T) {
	_, err := New([]Rule{{Priority: 10, Category: "Bad", Match: "regex", Pattern: "("}})
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `rules:
  - priority: 10
    category: Software
    match: contains
    pattern: github
  - priority: 20
    category: Disabled
    pattern: something
    active: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Software", rs.Categorize(txn("GITHUB INC", "", "-10.00")))
	assert.Empty(t, rs.Categorize(txn("SOMETHING", "", "-10.00")))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEmpty(t *testing.T) {
	assert.Empty(t, Empty().Categorize(txn("ANYTHING", "", "-1.00")))
}
