package assemble

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
)

// Header is the CSV header for an exported ledger.
const Header = "date,type,description,amount,balance,category,source"

const (
	numFields   = 7
	dateFormat  = "2006-01-02"
	colDate     = 0
	colType     = 1
	colDesc     = 2
	colAmount   = 3
	colBalance  = 4
	colCategory = 5
	colSource   = 6
)

// WriteCSV writes the export as CSV, one row per ledger transaction.
func WriteCSV(w io.Writer, ex Export) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range ex.Rows {
		if err := cw.Write(marshalRow(txn, ex.Sources[txn.PeriodID])); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalRow(txn model.CanonicalTransaction, source string) []string {
	row := make([]string, numFields)
	row[colDate] = txn.Date.Format(dateFormat)
	row[colType] = txn.Type
	row[colDesc] = txn.Description
	row[colAmount] = txn.Amount.StringFixed(2)
	if txn.Balance.Valid {
		row[colBalance] = txn.Balance.Decimal.StringFixed(2)
	}
	row[colCategory] = txn.Category
	row[colSource] = source
	return row
}
