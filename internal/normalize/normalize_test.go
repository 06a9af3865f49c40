package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/extract"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validMeta() extract.PeriodMetadata {
	start := date(2024, 1, 1)
	end := date(2024, 1, 31)
	return extract.PeriodMetadata{
		Account: "04-00-04 12345678",
		Holder:  "Acme Widgets Ltd",
		Start:   &start,
		End:     &end,
		Opening: "£100.00",
		Closing: "£250.00",
	}
}

func TestNormalize_Valid(t *testing.T) {
	raws := []extract.RawRow{
		{Date: "02/01/2024", Description: "ACME LTD", Amount: "150.00", Balance: "250.00"},
		{Date: "02/01/2024", Description: "COFFEE CO", Amount: "-3.50"},
	}

	txns, period, err := Normalize("jan.txt", raws, validMeta(), "monzo/1.0")
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, date(2024, 1, 2), txns[0].Date)
	assert.Equal(t, "ACME LTD", txns[0].Description)
	assert.True(t, txns[0].Amount.Equal(dec("150.00")))
	require.True(t, txns[0].Balance.Valid)
	assert.True(t, txns[0].Balance.Decimal.Equal(dec("250.00")))
	assert.False(t, txns[1].Balance.Valid)

	// Source order is authoritative: Seq follows extractor row order.
	assert.Equal(t, 0, txns[0].Seq)
	assert.Equal(t, 1, txns[1].Seq)
	assert.Equal(t, period.ID, txns[0].PeriodID)
	assert.Equal(t, period.ID, txns[1].PeriodID)

	assert.Equal(t, "04-00-04 12345678", period.Account)
	assert.Equal(t, "monzo/1.0", period.ExtractorVersion)
	assert.Equal(t, "jan.txt", period.SourceName)
	require.True(t, period.Opening.Valid)
	assert.True(t, period.Opening.Decimal.Equal(dec("100.00")))
	require.True(t, period.Closing.Valid)
	assert.True(t, period.Closing.Decimal.Equal(dec("250.00")))
	assert.NotEmpty(t, period.Fingerprint)
	assert.NotEmpty(t, period.ID)
}

func TestNormalize_AcceptsMultipleDateLayouts(t *testing.T) {
	raws := []extract.RawRow{
		{Date: "05 Feb 2024", Description: "A", Amount: "1.00"},
		{Date: "2024-02-06", Description: "B", Amount: "1.00"},
	}
	txns, _, err := Normalize("feb.txt", raws, validMeta(), "starling/1.1")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 5), txns[0].Date)
	assert.Equal(t, date(2024, 2, 6), txns[1].Date)
}

func TestNormalize_MalformedRowFailsWholePeriod(t *testing.T) {
	tests := []struct {
		name  string
		raws  []extract.RawRow
		field string
		row   int
	}{
		{
			name: "bad date",
			raws: []extract.RawRow{
				{Date: "02/01/2024", Description: "OK", Amount: "1.00"},
				{Date: "not a date", Description: "BAD", Amount: "1.00"},
			},
			field: "date",
			row:   1,
		},
		{
			name: "bad amount",
			raws: []extract.RawRow{
				{Date: "02/01/2024", Description: "BAD", Amount: "??"},
			},
			field: "amount",
			row:   0,
		},
		{
			name: "bad balance",
			raws: []extract.RawRow{
				{Date: "02/01/2024", Description: "BAD", Amount: "1.00", Balance: "??"},
			},
			field: "balance",
			row:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, _, err := Normalize("doc.txt", tt.raws, validMeta(), "monzo/1.0")
			require.Error(t, err)
			assert.Nil(t, txns, "no partial acceptance")

			var malformed *MalformedRowError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.field, malformed.Field)
			assert.Equal(t, tt.row, malformed.Row)
		})
	}
}

func TestNormalize_MissingAccountOrVersion(t *testing.T) {
	raws := []extract.RawRow{{Date: "02/01/2024", Description: "X", Amount: "1.00"}}

	meta := validMeta()
	meta.Account = ""
	_, _, err := Normalize("doc.txt", raws, meta, "monzo/1.0")
	assert.Error(t, err)

	_, _, err = Normalize("doc.txt", raws, validMeta(), "")
	assert.Error(t, err)
}

func TestNormalize_UnparseableStatementBalance(t *testing.T) {
	raws := []extract.RawRow{{Date: "02/01/2024", Description: "X", Amount: "1.00"}}
	meta := validMeta()
	meta.Opening = "garbage"
	_, _, err := Normalize("doc.txt", raws, meta, "monzo/1.0")
	assert.Error(t, err, "unparseable balances fail loudly, never silently dropped")
}

func TestNormalize_MissingStatementBalancesAllowed(t *testing.T) {
	raws := []extract.RawRow{{Date: "02/01/2024", Description: "X", Amount: "1.00"}}
	meta := validMeta()
	meta.Opening = ""
	meta.Closing = ""
	_, period, err := Normalize("doc.txt", raws, meta, "monzo/1.0")
	require.NoError(t, err)
	assert.False(t, period.Opening.Valid)
	assert.False(t, period.Closing.Valid)
}
