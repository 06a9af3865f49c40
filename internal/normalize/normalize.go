// Package normalize converts raw extractor output into validated canonical
// transactions and an immutable statement period.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/extract"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/money"
)

// MalformedRowError identifies a raw row that failed validation. One bad row
// fails the whole period: partial acceptance would hand the caller an
// incomplete ledger with no visible failure.
type MalformedRowError struct {
	Row    int // 0-based source row index
	Field  string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: bad %s: %s", e.Row, e.Field, e.Reason)
}

// Date layouts accepted from extractors, tried in order.
var dateLayouts = []string{
	"02/01/2006",
	"02 Jan 2006",
	"2006-01-02",
}

// Normalize validates raw rows into canonical transactions and builds the
// statement period. Rows keep their source order as Seq: same-day ordering
// within a statement is meaningful and is the downstream tie-break, so no
// re-sorting happens here.
func Normalize(sourceName string, raws []extract.RawRow, meta extract.PeriodMetadata, version string) ([]model.CanonicalTransaction, model.StatementPeriod, error) {
	if len(raws) == 0 {
		return nil, model.StatementPeriod{}, fmt.Errorf("normalizing %s: no rows", sourceName)
	}
	if strings.TrimSpace(meta.Account) == "" {
		return nil, model.StatementPeriod{}, fmt.Errorf("normalizing %s: missing account identifier", sourceName)
	}
	if strings.TrimSpace(version) == "" {
		return nil, model.StatementPeriod{}, fmt.Errorf("normalizing %s: missing extractor version", sourceName)
	}

	opening, err := money.ParseOptional(meta.Opening)
	if err != nil {
		return nil, model.StatementPeriod{}, fmt.Errorf("normalizing %s: opening balance: %w", sourceName, err)
	}
	closing, err := money.ParseOptional(meta.Closing)
	if err != nil {
		return nil, model.StatementPeriod{}, fmt.Errorf("normalizing %s: closing balance: %w", sourceName, err)
	}

	periodID := uuid.NewString()

	txns := make([]model.CanonicalTransaction, 0, len(raws))
	for i, raw := range raws {
		date, err := parseDate(raw.Date)
		if err != nil {
			return nil, model.StatementPeriod{}, &MalformedRowError{Row: i, Field: "date", Reason: err.Error()}
		}

		amount, err := money.Parse(raw.Amount)
		if err != nil {
			return nil, model.StatementPeriod{}, &MalformedRowError{Row: i, Field: "amount", Reason: err.Error()}
		}

		balance, err := money.ParseOptional(raw.Balance)
		if err != nil {
			return nil, model.StatementPeriod{}, &MalformedRowError{Row: i, Field: "balance", Reason: err.Error()}
		}

		txns = append(txns, model.CanonicalTransaction{
			Date:        date,
			Type:        raw.Type,
			Description: raw.Description,
			Amount:      amount,
			Balance:     balance,
			PeriodID:    periodID,
			Seq:         i,
		})
	}

	period := model.StatementPeriod{
		ID:               periodID,
		Account:          meta.Account,
		Start:            meta.Start,
		End:              meta.End,
		Opening:          opening,
		Closing:          closing,
		Holder:           meta.Holder,
		ExtractorVersion: version,
		Fingerprint:      Fingerprint(txns),
		SourceName:       sourceName,
	}

	return txns, period, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
