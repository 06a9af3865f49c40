package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MonzoExtractor parses Monzo business account statement text. Monzo prints
// no transaction-type column; rows are date, description, amount, balance.
type MonzoExtractor struct{}

const monzoDateFormat = "02/01/2006"

var (
	monzoRangeRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*-\s*(\d{2}/\d{2}/\d{4})`)
	monzoRowRe   = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([+-]?\d[\d,]*\.\d{2})\s+([+-]?\d[\d,]*\.\d{2})$`)

	monzoAccountRe = regexp.MustCompile(`(?i)account number:?\s*(\d{8})`)
	monzoSortRe    = regexp.MustCompile(`(?i)sort code:?\s*(\d{2}-\d{2}-\d{2})`)
	monzoHolderRe  = regexp.MustCompile(`(?i)account holder:?\s*(.+)`)
	monzoOpenRe    = regexp.MustCompile(`(?i)opening balance:?\s*(.+)`)
	monzoCloseRe   = regexp.MustCompile(`(?i)closing balance:?\s*(.+)`)
)

// Version returns the extractor compatibility tag.
func (e *MonzoExtractor) Version() string { return "monzo/1.0" }

// Applicable claims documents whose header text mentions Monzo or its BIC.
func (e *MonzoExtractor) Applicable(doc Document) bool {
	h := doc.HeaderText()
	return strings.Contains(h, "monzo") || strings.Contains(h, "monzgb2l")
}

// Extract parses rows and period metadata from the statement text.
func (e *MonzoExtractor) Extract(doc Document) ([]RawRow, PeriodMetadata, error) {
	var meta PeriodMetadata
	var rows []RawRow

	sortCode := ""
	number := ""

	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := monzoRowRe.FindStringSubmatch(line); m != nil {
			rows = append(rows, RawRow{
				Date:        m[1],
				Description: m[2],
				Amount:      m[3],
				Balance:     m[4],
			})
			continue
		}

		if meta.Start == nil {
			if m := monzoRangeRe.FindStringSubmatch(line); m != nil {
				start, err1 := time.Parse(monzoDateFormat, m[1])
				end, err2 := time.Parse(monzoDateFormat, m[2])
				if err1 == nil && err2 == nil {
					meta.Start = &start
					meta.End = &end
				}
				continue
			}
		}
		if m := monzoAccountRe.FindStringSubmatch(line); m != nil {
			number = m[1]
			continue
		}
		if m := monzoSortRe.FindStringSubmatch(line); m != nil {
			sortCode = m[1]
			continue
		}
		if m := monzoHolderRe.FindStringSubmatch(line); m != nil && meta.Holder == "" {
			meta.Holder = strings.TrimSpace(m[1])
			continue
		}
		if m := monzoOpenRe.FindStringSubmatch(line); m != nil && meta.Opening == "" {
			meta.Opening = strings.TrimSpace(m[1])
			continue
		}
		if m := monzoCloseRe.FindStringSubmatch(line); m != nil && meta.Closing == "" {
			meta.Closing = strings.TrimSpace(m[1])
			continue
		}
	}

	if len(rows) == 0 {
		return nil, PeriodMetadata{}, fmt.Errorf("monzo: no transaction rows in %q", doc.Name)
	}

	switch {
	case sortCode != "" && number != "":
		meta.Account = sortCode + " " + number
	case number != "":
		meta.Account = number
	default:
		return nil, PeriodMetadata{}, fmt.Errorf("monzo: no account number in %q", doc.Name)
	}

	return rows, meta, nil
}
