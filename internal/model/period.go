package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementPeriod describes one statement's worth of metadata. It is created
// once per source document by the normalizer and is immutable afterwards.
type StatementPeriod struct {
	ID               string // opaque, minted at normalization
	Account          string // institution account identifier
	Start            *time.Time
	End              *time.Time
	Opening          decimal.NullDecimal
	Closing          decimal.NullDecimal
	Holder           string
	ExtractorVersion string // compatibility boundary between extractor releases
	Fingerprint      string // content hash of the normalized rows
	SourceName       string // document name, for operator-facing reports
}
