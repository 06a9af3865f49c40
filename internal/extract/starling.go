package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// StarlingExtractor parses Starling statement text. Starling prints amounts
// only; per-row balances are absent, so within-period balance walking is
// not possible for these statements.
type StarlingExtractor struct{}

const starlingDateFormat = "02 Jan 2006"

var (
	starlingRangeRe = regexp.MustCompile(`(\d{2} [A-Z][a-z]{2} \d{4})\s*-\s*(\d{2} [A-Z][a-z]{2} \d{4})`)
	starlingRowRe   = regexp.MustCompile(`^(\d{2} [A-Z][a-z]{2} \d{4})\s+(.+?)\s+([+-]?\d[\d,]*\.\d{2})$`)

	starlingAccountRe = regexp.MustCompile(`(?i)account:?\s*(\d{2}-\d{2}-\d{2}\s+\d{8})`)
	starlingHolderRe  = regexp.MustCompile(`(?i)account holder:?\s*(.+)`)
	starlingOpenRe    = regexp.MustCompile(`(?i)opening balance:?\s*(.+)`)
	starlingCloseRe   = regexp.MustCompile(`(?i)closing balance:?\s*(.+)`)
)

// Version returns the extractor compatibility tag.
func (e *StarlingExtractor) Version() string { return "starling/1.1" }

// Applicable claims documents whose header text mentions Starling.
func (e *StarlingExtractor) Applicable(doc Document) bool {
	return strings.Contains(doc.HeaderText(), "starling")
}

// Extract parses rows and period metadata from the statement text.
func (e *StarlingExtractor) Extract(doc Document) ([]RawRow, PeriodMetadata, error) {
	var meta PeriodMetadata
	var rows []RawRow

	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := starlingRowRe.FindStringSubmatch(line); m != nil {
			rows = append(rows, RawRow{
				Date:        m[1],
				Description: m[2],
				Amount:      m[3],
			})
			continue
		}

		if meta.Start == nil {
			if m := starlingRangeRe.FindStringSubmatch(line); m != nil {
				start, err1 := time.Parse(starlingDateFormat, m[1])
				end, err2 := time.Parse(starlingDateFormat, m[2])
				if err1 == nil && err2 == nil {
					meta.Start = &start
					meta.End = &end
				}
				continue
			}
		}
		if m := starlingAccountRe.FindStringSubmatch(line); m != nil && meta.Account == "" {
			meta.Account = strings.Join(strings.Fields(m[1]), " ")
			continue
		}
		if m := starlingHolderRe.FindStringSubmatch(line); m != nil && meta.Holder == "" {
			meta.Holder = strings.TrimSpace(m[1])
			continue
		}
		if m := starlingOpenRe.FindStringSubmatch(line); m != nil && meta.Opening == "" {
			meta.Opening = strings.TrimSpace(m[1])
			continue
		}
		if m := starlingCloseRe.FindStringSubmatch(line); m != nil && meta.Closing == "" {
			meta.Closing = strings.TrimSpace(m[1])
			continue
		}
	}

	if len(rows) == 0 {
		return nil, PeriodMetadata{}, fmt.Errorf("starling: no transaction rows in %q", doc.Name)
	}
	if meta.Account == "" {
		return nil, PeriodMetadata{}, fmt.Errorf("starling: no account identifier in %q", doc.Name)
	}

	return rows, meta, nil
}
