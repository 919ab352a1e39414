// Package pdf wraps the document backend used for field discovery, form
// filling, text overlays and page merging. The rest of the codebase depends
// on the Backend interface only; the pdfcpu engine lives behind it.
package pdf

import (
	"strings"

	"github.com/jonathan/agent-registration/internal/types"
)

// PlacedText is one piece of text drawn onto a page at fixed coordinates.
// Coordinates are in page space with the origin at the bottom-left corner.
type PlacedText struct {
	Page     int
	X        float64
	Y        float64
	FontSize float64
	Text     string
}

// FillResult is the outcome of a form fill. Failed lists field names that
// could not be written (unknown field, locked field, option with no match);
// failures are field-local and never abort the fill.
type FillResult struct {
	Doc    []byte
	Filled int
	Failed []string
}

// Backend is the document backend contract: page count, field discovery,
// form fill, text overlay, first-page stamping and page append. All methods
// operate on raw document bytes and return new bytes, never mutating input.
type Backend interface {
	// PageCount returns the number of pages in the document.
	PageCount(doc []byte) (int, error)

	// ParseFields returns the fillable fields detected in the document.
	// A document without a form yields an empty list and no error.
	ParseFields(doc []byte) ([]types.FieldDescriptor, error)

	// Fill writes the given values into the document's form fields.
	// Checkbox fields are checked iff their value is affirmative.
	Fill(doc []byte, values map[string]string) (FillResult, error)

	// Overlay draws each placed text onto its page.
	Overlay(doc []byte, texts []PlacedText) ([]byte, error)

	// StampText draws a header line near the top margin of the given page.
	StampText(doc []byte, page int, text string) ([]byte, error)

	// AppendPages appends all pages of extra after the last page of doc.
	AppendPages(doc []byte, extra []byte) ([]byte, error)
}

// affirmatives is the fixed vocabulary that checks a checkbox.
var affirmatives = map[string]struct{}{
	"yes":  {},
	"true": {},
	"1":    {},
	"on":   {},
	"x":    {},
}

// Affirmative reports whether v checks a checkbox field. Matching is
// case-insensitive and ignores surrounding whitespace.
func Affirmative(v string) bool {
	_, ok := affirmatives[strings.ToLower(strings.TrimSpace(v))]
	return ok
}
