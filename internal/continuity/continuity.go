// Package continuity merges normalized statement periods for one account
// into a single chronological ledger and verifies balance continuity across
// and within periods. Findings are report data, never raised errors: the
// engine always produces a best-effort ledger for a human to review.
package continuity

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
)

// Period couples a normalized statement period with its transactions.
type Period struct {
	Meta model.StatementPeriod
	Txns []model.CanonicalTransaction
}

// Engine reconciles periods. It holds configuration only; Reconcile touches
// no shared mutable state, so one Engine may serve concurrent accounts.
type Engine struct {
	tolerance decimal.Decimal // max absolute delta still treated as equal
	log       zerolog.Logger
}

// NewEngine creates an engine. A zero tolerance means exact equality, which
// is the intended contract; any nonzero delta is reported, not absorbed.
func NewEngine(tolerance decimal.Decimal, log zerolog.Logger) *Engine {
	return &Engine{tolerance: tolerance.Abs(), log: log}
}

// Reconcile merges the given periods into one Ledger plus ContinuityReport.
// All periods must belong to the same account; mixing accounts is a caller
// error, not a finding. The result is independent of input order.
func (e *Engine) Reconcile(periods []Period) (model.Ledger, error) {
	if len(periods) == 0 {
		return model.Ledger{}, fmt.Errorf("reconcile: no periods")
	}

	account := periods[0].Meta.Account
	for _, p := range periods[1:] {
		if p.Meta.Account != account {
			return model.Ledger{}, fmt.Errorf("reconcile: mixed accounts %q and %q", account, p.Meta.Account)
		}
	}

	ordered, unordered := splitOrderable(periods)

	report := model.ContinuityReport{Account: account}
	for _, p := range unordered {
		report.Unordered = append(report.Unordered, p.Meta.ID)
	}

	// Adjacent-pair walk over chronologically ordered periods: record gaps,
	// mark overlaps, and chain closing -> opening balances where possible.
	checked := 0
	overlapping := make(map[int]bool) // index of the later period in an overlapping pair
	for i := 0; i+1 < len(ordered); i++ {
		a, b := ordered[i], ordered[i+1]

		if a.Meta.End != nil && b.Meta.Start != nil {
			switch {
			case b.Meta.Start.After(a.Meta.End.AddDate(0, 0, 1)):
				gap := model.DateRange{
					From: a.Meta.End.AddDate(0, 0, 1),
					To:   b.Meta.Start.AddDate(0, 0, -1),
				}
				report.Gaps = append(report.Gaps, gap)
				e.log.Debug().
					Str("account", account).
					Str("from", gap.From.Format("2006-01-02")).
					Str("to", gap.To.Format("2006-01-02")).
					Msg("continuity gap")
			case !b.Meta.Start.After(*a.Meta.End):
				// Overlapping date ranges cannot be balance-chained; the
				// overlap window is scanned for duplicate candidates instead.
				overlapping[i+1] = true
				e.log.Debug().
					Str("account", account).
					Str("a", a.Meta.ID).
					Str("b", b.Meta.ID).
					Msg("periods overlap, boundary not balance-chained")
			}
		}

		if overlapping[i+1] {
			continue
		}
		if a.Meta.Closing.Valid && b.Meta.Opening.Valid {
			checked++
			expected := a.Meta.Closing.Decimal
			actual := b.Meta.Opening.Decimal
			if actual.Sub(expected).Abs().Cmp(e.tolerance) > 0 {
				report.Mismatches = append(report.Mismatches, model.BalanceMismatch{
					PeriodID: b.Meta.ID,
					Expected: expected,
					Actual:   actual,
					Delta:    actual.Sub(expected),
				})
			}
		}
	}

	// Within-period checks run for every period, even a lone one.
	all := append(append([]Period{}, ordered...), unordered...)
	for _, p := range all {
		rowsChecked, rowFindings := e.walkBalances(p)
		checked += rowsChecked
		report.RowMismatches = append(report.RowMismatches, rowFindings...)

		if sumChecked, mismatch := e.checkPeriodSum(p); sumChecked {
			checked++
			if mismatch != nil {
				report.SumMismatches = append(report.SumMismatches, *mismatch)
			}
		}

		report.Periods = append(report.Periods, model.PeriodSummary{
			PeriodID:         p.Meta.ID,
			SourceName:       p.Meta.SourceName,
			Start:            p.Meta.Start,
			End:              p.Meta.End,
			Opening:          p.Meta.Opening,
			Closing:          p.Meta.Closing,
			ExtractorVersion: p.Meta.ExtractorVersion,
			Rows:             len(p.Txns),
		})
	}

	merged := mergeTransactions(all)
	report.Duplicates = findDuplicates(merged)
	report.DuplicateStatements = duplicateStatements(all)
	report.MixedVersions = mixedVersions(all)
	report.Status, report.UncheckedReason = deriveStatus(report, checked)

	return model.Ledger{
		Account:      account,
		Transactions: merged,
		Report:       report,
	}, nil
}

// walkBalances verifies each row's balance equals the previous balance plus
// the row amount. The first row is compared against the period's opening
// balance when present. A failing row is reported, never excluded. A row
// without a balance breaks the chain; the next balanced row re-anchors it
// without being counted as checked.
func (e *Engine) walkBalances(p Period) (checked int, findings []model.RowMismatch) {
	var running *decimal.Decimal
	if p.Meta.Opening.Valid {
		v := p.Meta.Opening.Decimal
		running = &v
	}

	for _, t := range p.Txns {
		if !t.Balance.Valid {
			running = nil
			continue
		}
		actual := t.Balance.Decimal
		if running == nil {
			running = &actual
			continue
		}

		expected := running.Add(t.Amount)
		if expected.Sub(actual).Abs().Cmp(e.tolerance) > 0 {
			findings = append(findings, model.RowMismatch{
				PeriodID: t.PeriodID,
				Seq:      t.Seq,
				Expected: expected,
				Actual:   actual,
			})
		}
		checked++
		running = &actual
	}
	return checked, findings
}

// checkPeriodSum asserts opening + sum(amounts) == closing when both
// statement balances exist.
func (e *Engine) checkPeriodSum(p Period) (bool, *model.BalanceMismatch) {
	if !p.Meta.Opening.Valid || !p.Meta.Closing.Valid {
		return false, nil
	}

	sum := decimal.Zero
	for _, t := range p.Txns {
		sum = sum.Add(t.Amount)
	}
	expected := p.Meta.Opening.Decimal.Add(sum)
	actual := p.Meta.Closing.Decimal
	if actual.Sub(expected).Abs().Cmp(e.tolerance) > 0 {
		return true, &model.BalanceMismatch{
			PeriodID: p.Meta.ID,
			Expected: expected,
			Actual:   actual,
			Delta:    actual.Sub(expected),
		}
	}
	return true, nil
}

// splitOrderable separates periods with a start date from unorderable ones
// and sorts the former chronologically. Period ID breaks start-date ties so
// the result is stable under input permutation.
func splitOrderable(periods []Period) (ordered, unordered []Period) {
	for _, p := range periods {
		if p.Meta.Start == nil {
			unordered = append(unordered, p)
		} else {
			ordered = append(ordered, p)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Meta.Start.Equal(*ordered[j].Meta.Start) {
			return ordered[i].Meta.Start.Before(*ordered[j].Meta.Start)
		}
		return ordered[i].Meta.ID < ordered[j].Meta.ID
	})
	sort.Slice(unordered, func(i, j int) bool {
		return unordered[i].Meta.ID < unordered[j].Meta.ID
	})
	return ordered, unordered
}

// periodStarts maps period ID to its start date for merge tie-breaking.
// Periods without a start sort after all dated ones.
func periodStarts(periods []Period) map[string]time.Time {
	starts := make(map[string]time.Time, len(periods))
	for _, p := range periods {
		if p.Meta.Start != nil {
			starts[p.Meta.ID] = *p.Meta.Start
		} else {
			starts[p.Meta.ID] = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		}
	}
	return starts
}

// mergeTransactions concatenates every period's rows and sorts by date,
// breaking ties by period start date then original row order. Same-day rows
// from one statement therefore keep their intra-statement order.
func mergeTransactions(periods []Period) []model.CanonicalTransaction {
	var merged []model.CanonicalTransaction
	starts := periodStarts(periods)
	for _, p := range periods {
		merged = append(merged, p.Txns...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		as, bs := starts[a.PeriodID], starts[b.PeriodID]
		if !as.Equal(bs) {
			return as.Before(bs)
		}
		if a.PeriodID != b.PeriodID {
			return a.PeriodID < b.PeriodID
		}
		return a.Seq < b.Seq
	})
	return merged
}

// findDuplicates reports cross-period pairs sharing date, amount, and exact
// description. Rows within one statement are not paired with each other:
// repeated identical transactions inside a single statement are ordinary
// bank behavior. Candidates are reported, never removed.
func findDuplicates(merged []model.CanonicalTransaction) []model.DuplicatePair {
	type key struct {
		date   string
		amount string
		desc   string
	}
	groups := make(map[key][]model.CanonicalTransaction)
	var order []key
	for _, t := range merged {
		k := key{
			date:   t.Date.Format("2006-01-02"),
			amount: t.Amount.String(),
			desc:   t.Description,
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t)
	}

	var pairs []model.DuplicatePair
	for _, k := range order {
		g := groups[k]
		if len(g) < 2 {
			continue
		}
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				if g[i].PeriodID == g[j].PeriodID {
					continue
				}
				pairs = append(pairs, model.DuplicatePair{
					A: model.TxnRef{PeriodID: g[i].PeriodID, Seq: g[i].Seq},
					B: model.TxnRef{PeriodID: g[j].PeriodID, Seq: g[j].Seq},
				})
			}
		}
	}
	return pairs
}

// duplicateStatements groups periods whose row fingerprints are identical:
// the same statement supplied more than once.
func duplicateStatements(periods []Period) [][]string {
	byFP := make(map[string][]string)
	var order []string
	for _, p := range periods {
		fp := p.Meta.Fingerprint
		if fp == "" {
			continue
		}
		if _, seen := byFP[fp]; !seen {
			order = append(order, fp)
		}
		byFP[fp] = append(byFP[fp], p.Meta.ID)
	}

	var groups [][]string
	for _, fp := range order {
		if ids := byFP[fp]; len(ids) > 1 {
			sort.Strings(ids)
			groups = append(groups, ids)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// mixedVersions returns the distinct extractor versions when more than one
// produced this account's periods. The merge still happens; the flag makes
// the compatibility boundary visible so an operator can decide.
func mixedVersions(periods []Period) []string {
	seen := make(map[string]bool)
	for _, p := range periods {
		seen[p.Meta.ExtractorVersion] = true
	}
	if len(seen) < 2 {
		return nil
	}
	versions := make([]string, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// deriveStatus computes the overall status. Unorderable periods and the
// total absence of balance evidence both downgrade to unchecked: absence of
// evidence is not evidence of continuity.
func deriveStatus(report model.ContinuityReport, checked int) (model.Status, string) {
	if len(report.Unordered) > 0 {
		return model.StatusUnchecked, model.UncheckedPeriodsUnorderable
	}
	if checked == 0 {
		return model.StatusUnchecked, model.UncheckedBalancesNotFound
	}
	if len(report.Mismatches) > 0 || len(report.SumMismatches) > 0 || len(report.RowMismatches) > 0 {
		return model.StatusBalanceMismatch, ""
	}
	if len(report.Gaps) > 0 {
		return model.StatusGapsDetected, ""
	}
	return model.StatusContinuous, ""
}
