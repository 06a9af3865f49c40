// Package assemble finalizes a reconciled ledger for export: it echoes
// every transaction the continuity engine produced, annotates categories,
// and renders the CSV and continuity report surfaces.
package assemble

import (
	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/rules"
)

// Export is the structure handed to presentation and file-writing
// collaborators. Rows contains every ledger transaction exactly once, in
// ledger order; issues are surfaced through the report, never by filtering
// rows.
type Export struct {
	Account string
	Rows    []model.CanonicalTransaction
	Report  model.ContinuityReport
	Sources map[string]string // period ID -> source document name
}

// Assemble builds the export from a ledger. Categorisation runs here,
// strictly after reconciliation, and touches only the Category field.
func Assemble(ledger model.Ledger, rs *rules.RuleSet) Export {
	rows := make([]model.CanonicalTransaction, len(ledger.Transactions))
	copy(rows, ledger.Transactions)
	for i := range rows {
		rows[i].Category = rs.Categorize(rows[i])
	}

	sources := make(map[string]string, len(ledger.Report.Periods))
	for _, p := range ledger.Report.Periods {
		sources[p.PeriodID] = p.SourceName
	}

	return Export{
		Account: ledger.Account,
		Rows:    rows,
		Report:  ledger.Report,
		Sources: sources,
	}
}
