package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status summarizes the continuity of a reconciled ledger.
type Status string

const (
	// StatusContinuous means every checkable boundary and row chained exactly.
	StatusContinuous Status = "continuous"
	// StatusGapsDetected means at least one date range has no covering period.
	StatusGapsDetected Status = "gaps_detected"
	// StatusBalanceMismatch means a boundary or row-level balance check failed.
	StatusBalanceMismatch Status = "balance_mismatch"
	// StatusUnchecked means no balance evidence was available at all. It is a
	// failure state for downstream consumers, never success.
	StatusUnchecked Status = "unchecked"
)

// Unchecked reasons, surfaced verbatim in reports.
const (
	UncheckedBalancesNotFound  = "statement balances not found"
	UncheckedPeriodsUnorderable = "periods unorderable (missing start date)"
)

// PeriodSummary is the per-period slice of a ContinuityReport.
type PeriodSummary struct {
	PeriodID         string
	SourceName       string
	Start            *time.Time
	End              *time.Time
	Opening          decimal.NullDecimal
	Closing          decimal.NullDecimal
	ExtractorVersion string
	Rows             int
}

// DateRange is a closed day range with no covering period.
type DateRange struct {
	From time.Time
	To   time.Time
}

// BalanceMismatch records a failed balance assertion. For boundary checks
// PeriodID names the later period whose opening did not match the previous
// closing; for period-sum checks it names the inconsistent period itself.
type BalanceMismatch struct {
	PeriodID string
	Expected decimal.Decimal
	Actual   decimal.Decimal
	Delta    decimal.Decimal // Actual - Expected
}

// RowMismatch records a row whose reported balance does not equal the
// previous balance plus the row amount. The row stays in the ledger.
type RowMismatch struct {
	PeriodID string
	Seq      int
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

// TxnRef points at one transaction by period and source row order.
type TxnRef struct {
	PeriodID string
	Seq      int
}

// DuplicatePair is a pair of transactions sharing date, amount, and exact
// description. Candidates are reported, never removed.
type DuplicatePair struct {
	A TxnRef
	B TxnRef
}

// ContinuityReport is the full findings set for one account's reconciliation.
type ContinuityReport struct {
	Account             string
	Periods             []PeriodSummary // chronological
	Gaps                []DateRange
	Mismatches          []BalanceMismatch // boundary checks between chained periods
	SumMismatches       []BalanceMismatch // opening + sum(amounts) vs closing, per period
	RowMismatches       []RowMismatch
	Duplicates          []DuplicatePair
	DuplicateStatements [][]string // groups of period IDs with equal fingerprints
	MixedVersions       []string   // distinct extractor versions when more than one
	Unordered           []string   // period IDs that could not be ordered
	Status              Status
	UncheckedReason     string // set only when Status == StatusUnchecked
}

// Ok reports whether the run may be presented as successful. Anything other
// than continuous, including unchecked, is a failure for the operator.
func (r ContinuityReport) Ok() bool {
	return r.Status == StatusContinuous
}

// Ledger is the reconciled, chronologically ordered transaction sequence for
// one account, plus its continuity report. The continuity engine alone
// constructs it; afterwards it is read-only.
type Ledger struct {
	Account      string
	Transactions []CanonicalTransaction
	Report       ContinuityReport
}
