// Package extract defines the institution extractor contract and the
// registry that dispatches a statement document to the extractor claiming it.
package extract

import (
	"fmt"
	"strings"
	"time"
)

// Document is the already-extracted text of one statement, one string per
// page. No OCR, no layout data: institutions are identified and parsed from
// plain page text.
type Document struct {
	Name  string
	Pages []string
}

// Text joins all pages with form feeds.
func (d Document) Text() string {
	return strings.Join(d.Pages, "\f")
}

// headerLines is how much of each page Applicable implementations may probe.
// Limiting the scan keeps transaction descriptions that mention other banks
// from triggering false positives.
const headerLines = 60

// HeaderText returns the first headerLines lines of each page, lowercased,
// for institution detection.
func (d Document) HeaderText() string {
	var b strings.Builder
	for _, p := range d.Pages {
		lines := strings.Split(p, "\n")
		if len(lines) > headerLines {
			lines = lines[:headerLines]
		}
		b.WriteString(strings.ToLower(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

// RawRow is one transaction row exactly as printed. All fields are verbatim
// strings; parsing and validation happen in the normalizer.
type RawRow struct {
	Date        string
	Type        string
	Description string
	Amount      string
	Balance     string // empty when the institution does not print per-row balances
}

// PeriodMetadata is the statement-level header data an extractor reads.
// Balances stay as raw strings; the normalizer parses them.
type PeriodMetadata struct {
	Account string
	Holder  string
	Start   *time.Time
	End     *time.Time
	Opening string
	Closing string
}

// Extractor converts one institution's statement text into raw rows plus
// period metadata. Implementations must be pure functions of the document:
// no global state, no I/O, byte-identical input gives byte-identical output.
type Extractor interface {
	// Applicable reports whether this extractor claims the document.
	Applicable(doc Document) bool
	// Extract parses the document. It fails explicitly on malformed input
	// rather than returning an empty result.
	Extract(doc Document) ([]RawRow, PeriodMetadata, error)
	// Version identifies the extractor and acts as a compatibility tag:
	// periods produced by different versions are never silently merged.
	Version() string
}

// UnsupportedDocumentError means no registered extractor claimed a document.
type UnsupportedDocumentError struct {
	Name string
}

func (e *UnsupportedDocumentError) Error() string {
	return fmt.Sprintf("no extractor claims document %q", e.Name)
}

// Registry holds extractors in a fixed priority order.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an extractor. Panics on a duplicate version tag, since
// the version string is the compatibility boundary between extractors.
func (r *Registry) Register(e Extractor) {
	for _, have := range r.extractors {
		if have.Version() == e.Version() {
			panic("duplicate extractor version: " + e.Version())
		}
	}
	r.extractors = append(r.extractors, e)
}

// Select returns the first extractor, in registration order, whose
// Applicable returns true. It never guesses: if none claims the document it
// returns an UnsupportedDocumentError.
func (r *Registry) Select(doc Document) (Extractor, error) {
	for _, e := range r.extractors {
		if e.Applicable(doc) {
			return e, nil
		}
	}
	return nil, &UnsupportedDocumentError{Name: doc.Name}
}

// Versions lists registered extractor versions in priority order.
func (r *Registry) Versions() []string {
	out := make([]string, len(r.extractors))
	for i, e := range r.extractors {
		out[i] = e.Version()
	}
	return out
}

// DefaultRegistry returns a registry with all built-in extractors in their
// fixed priority order.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&MonzoExtractor{})
	r.Register(&StarlingExtractor{})
	r.Register(&NatWestExtractor{})
	return r
}
