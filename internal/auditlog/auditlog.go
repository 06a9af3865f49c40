// Package auditlog records every reconcile run as a row in an append-only
// CSV, giving each account a history of when it was checked and what came out.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one row in the reconcile log.
type Entry struct {
	Timestamp time.Time
	Account   string
	Periods   int
	Rows      int
	Status    string
	Detail    string
}

// Header is the CSV header for reconcile-log.csv.
const Header = "timestamp,account,periods,rows,status,detail"

const (
	numFields    = 6
	logFile      = "reconcile-log.csv"
	colTimestamp = 0
	colAccount   = 1
	colPeriods   = 2
	colRows      = 3
	colStatus    = 4
	colDetail    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAccount] = e.Account
	row[colPeriods] = fmt.Sprintf("%d", e.Periods)
	row[colRows] = fmt.Sprintf("%d", e.Rows)
	row[colStatus] = e.Status
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var periods, rows int
	if _, err := fmt.Sscanf(record[colPeriods], "%d", &periods); err != nil {
		return Entry{}, fmt.Errorf("parsing periods %q: %w", record[colPeriods], err)
	}
	if _, err := fmt.Sscanf(record[colRows], "%d", &rows); err != nil {
		return Entry{}, fmt.Errorf("parsing rows %q: %w", record[colRows], err)
	}

	return Entry{
		Timestamp: ts,
		Account:   record[colAccount],
		Periods:   periods,
		Rows:      rows,
		Status:    record[colStatus],
		Detail:    record[colDetail],
	}, nil
}

// Append writes entries to <logsDir>/reconcile-log.csv, creating the file
// and header if needed.
func Append(logsDir string, entries []Entry) error {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(logsDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening reconcile log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <logsDir>/reconcile-log.csv.
// Returns an empty slice if the file does not exist.
func Read(logsDir string) ([]Entry, error) {
	path := filepath.Join(logsDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening reconcile log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading reconcile log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
