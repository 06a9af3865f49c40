package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// NatWestExtractor parses NatWest statement text. NatWest rows carry a
// transaction-type code (BAC, DPC, CHG, ...) between the date and the
// description, and the statement brackets the period with BROUGHT FORWARD
// and CARRIED FORWARD balance lines.
type NatWestExtractor struct{}

const natwestDateFormat = "02/01/2006"

var (
	natwestPeriodRe = regexp.MustCompile(`(?i)statement period\s+(\d{2}/\d{2}/\d{4})\s+to\s+(\d{2}/\d{2}/\d{4})`)
	natwestRowRe    = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+([A-Z]{2,4})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s+(-?[\d,]+\.\d{2})$`)

	natwestAccountRe = regexp.MustCompile(`(?i)account\s+(\d{2}-\d{2}-\d{2}\s+\d{8})`)
	natwestHolderRe  = regexp.MustCompile(`(?i)statement for:?\s*(.+)`)
	natwestOpenRe    = regexp.MustCompile(`(?i)brought forward\s+(.+)`)
	natwestCloseRe   = regexp.MustCompile(`(?i)carried forward\s+(.+)`)
)

// Version returns the extractor compatibility tag.
func (e *NatWestExtractor) Version() string { return "natwest/2.0" }

// Applicable claims documents whose header text mentions NatWest. The last
// page is probed too: NatWest transaction exports identify the bank only in
// the final-page footer.
func (e *NatWestExtractor) Applicable(doc Document) bool {
	probe := doc.HeaderText()
	if n := len(doc.Pages); n > 0 {
		probe += "\n" + strings.ToLower(doc.Pages[n-1])
	}
	return strings.Contains(probe, "natwest") || strings.Contains(probe, "national westminster bank")
}

// Extract parses rows and period metadata from the statement text.
func (e *NatWestExtractor) Extract(doc Document) ([]RawRow, PeriodMetadata, error) {
	var meta PeriodMetadata
	var rows []RawRow

	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := natwestRowRe.FindStringSubmatch(line); m != nil {
			rows = append(rows, RawRow{
				Date:        m[1],
				Type:        m[2],
				Description: m[3],
				Amount:      m[4],
				Balance:     m[5],
			})
			continue
		}

		if meta.Start == nil {
			if m := natwestPeriodRe.FindStringSubmatch(line); m != nil {
				start, err1 := time.Parse(natwestDateFormat, m[1])
				end, err2 := time.Parse(natwestDateFormat, m[2])
				if err1 == nil && err2 == nil {
					meta.Start = &start
					meta.End = &end
				}
				continue
			}
		}
		if m := natwestAccountRe.FindStringSubmatch(line); m != nil && meta.Account == "" {
			meta.Account = strings.Join(strings.Fields(m[1]), " ")
			continue
		}
		if m := natwestHolderRe.FindStringSubmatch(line); m != nil && meta.Holder == "" {
			meta.Holder = strings.TrimSpace(m[1])
			continue
		}
		if m := natwestOpenRe.FindStringSubmatch(line); m != nil && meta.Opening == "" {
			meta.Opening = strings.TrimSpace(m[1])
			continue
		}
		if m := natwestCloseRe.FindStringSubmatch(line); m != nil && meta.Closing == "" {
			meta.Closing = strings.TrimSpace(m[1])
			continue
		}
	}

	if len(rows) == 0 {
		return nil, PeriodMetadata{}, fmt.Errorf("natwest: no transaction rows in %q", doc.Name)
	}
	if meta.Account == "" {
		return nil, PeriodMetadata{}, fmt.Errorf("natwest: no account identifier in %q", doc.Name)
	}

	return rows, meta, nil
}
