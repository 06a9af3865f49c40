package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalTransaction is one normalized statement row. Amount and Balance
// carry the values exactly as extracted; after normalization nothing in the
// pipeline may alter them, only flag them in the continuity report.
type CanonicalTransaction struct {
	Date        time.Time       // calendar date, no time component
	Type        string          // bank transaction type as printed, may be empty
	Description string          // verbatim extracted text, never rewritten
	Amount      decimal.Decimal // negative = debit, positive = credit
	Balance     decimal.NullDecimal
	PeriodID    string // opaque reference to the producing StatementPeriod
	Seq         int    // row order within the source document, starting at 0
	Category    string // set by the categorisation rules, after reconciliation
}
