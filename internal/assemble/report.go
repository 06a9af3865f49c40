package assemble

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WriteReport renders the continuity report as text for the operator.
// Every finding is printed: presentation never suppresses gap, mismatch, or
// duplicate information.
func WriteReport(w io.Writer, ex Export) error {
	r := ex.Report

	var b strings.Builder
	fmt.Fprintf(&b, "Account: %s\n", ex.Account)
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	if r.UncheckedReason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", r.UncheckedReason)
	}

	fmt.Fprintf(&b, "\nPeriods (%d):\n", len(r.Periods))
	for _, p := range r.Periods {
		fmt.Fprintf(&b, "  %-24s %s..%s  opening %s  closing %s  rows %d  [%s]\n",
			p.SourceName,
			fmtDate(p.Start), fmtDate(p.End),
			fmtBalance(p.Opening), fmtBalance(p.Closing),
			p.Rows, p.ExtractorVersion)
	}

	if len(r.MixedVersions) > 0 {
		fmt.Fprintf(&b, "\nWARNING: periods span multiple extractor versions: %s\n",
			strings.Join(r.MixedVersions, ", "))
	}
	if len(r.Unordered) > 0 {
		fmt.Fprintf(&b, "\nUnorderable periods (no start date):\n")
		for _, id := range r.Unordered {
			fmt.Fprintf(&b, "  %s\n", ex.Sources[id])
		}
	}

	if len(r.Gaps) > 0 {
		fmt.Fprintf(&b, "\nGaps (%d):\n", len(r.Gaps))
		for _, g := range r.Gaps {
			fmt.Fprintf(&b, "  %s..%s\n", g.From.Format("2006-01-02"), g.To.Format("2006-01-02"))
		}
	}

	if len(r.Mismatches) > 0 {
		fmt.Fprintf(&b, "\nBoundary balance mismatches (%d):\n", len(r.Mismatches))
		for _, m := range r.Mismatches {
			fmt.Fprintf(&b, "  %s: expected %s, got %s (delta %s)\n",
				ex.Sources[m.PeriodID], m.Expected.StringFixed(2), m.Actual.StringFixed(2), signed(m.Delta))
		}
	}
	if len(r.SumMismatches) > 0 {
		fmt.Fprintf(&b, "\nPeriod sum mismatches (%d):\n", len(r.SumMismatches))
		for _, m := range r.SumMismatches {
			fmt.Fprintf(&b, "  %s: expected closing %s, statement says %s (delta %s)\n",
				ex.Sources[m.PeriodID], m.Expected.StringFixed(2), m.Actual.StringFixed(2), signed(m.Delta))
		}
	}
	if len(r.RowMismatches) > 0 {
		fmt.Fprintf(&b, "\nRow balance mismatches (%d):\n", len(r.RowMismatches))
		for _, m := range r.RowMismatches {
			fmt.Fprintf(&b, "  %s row %d: expected %s, got %s\n",
				ex.Sources[m.PeriodID], m.Seq+1, m.Expected.StringFixed(2), m.Actual.StringFixed(2))
		}
	}

	if len(r.Duplicates) > 0 {
		fmt.Fprintf(&b, "\nDuplicate candidates (%d, review required, nothing removed):\n", len(r.Duplicates))
		for _, d := range r.Duplicates {
			fmt.Fprintf(&b, "  %s row %d <-> %s row %d\n",
				ex.Sources[d.A.PeriodID], d.A.Seq+1, ex.Sources[d.B.PeriodID], d.B.Seq+1)
		}
	}
	if len(r.DuplicateStatements) > 0 {
		fmt.Fprintf(&b, "\nDuplicate statements (same content supplied more than once):\n")
		for _, group := range r.DuplicateStatements {
			names := make([]string, len(group))
			for i, id := range group {
				names[i] = ex.Sources[id]
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(names, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format("2006-01-02")
}

func fmtBalance(d decimal.NullDecimal) string {
	if !d.Valid {
		return "?"
	}
	return d.Decimal.StringFixed(2)
}

func signed(d decimal.Decimal) string {
	if d.Sign() > 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
