// Package classify maps raw form field identifiers to mapping targets using
// an ordered rule cascade, a neighborhood consensus pass, and a final
// deduplication/resolution pass. The package is pure: no I/O, no mutation of
// its inputs, and the rule tables are immutable after init.
package classify

import (
	"regexp"
	"strings"
)

var (
	bracketIndexRe = regexp.MustCompile(`\[\d+\]`)
	hashSegmentRe  = regexp.MustCompile(`#[^./\\]*`)
	formPrefixRe   = regexp.MustCompile(`(?i)^form\d*\.`)
	camelBoundRe   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	separatorRe    = regexp.MustCompile(`[_\-./\\:]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a raw field identifier into a lowercase phrase the
// rule patterns can match: bracketed indices, hash-prefixed structural
// segments and a generic leading "form<N>." prefix are stripped, camelCase
// boundaries become spaces, separator punctuation becomes spaces, and
// whitespace is collapsed. Normalize is idempotent.
func Normalize(raw string) string {
	s := bracketIndexRe.ReplaceAllString(raw, "")
	s = hashSegmentRe.ReplaceAllString(s, "")
	s = formPrefixRe.ReplaceAllString(s, "")
	return humanize(s)
}

// Leaf returns the humanized last structural segment of a raw identifier.
// Path segments are split on '.', '/' and '\'; empty and hash-prefixed
// structural segments are discarded.
func Leaf(raw string) string {
	s := bracketIndexRe.ReplaceAllString(raw, "")
	last := ""
	for _, seg := range strings.FieldsFunc(s, isPathSeparator) {
		if seg == "" || strings.HasPrefix(seg, "#") {
			continue
		}
		last = seg
	}
	return humanize(last)
}

func isPathSeparator(r rune) bool {
	return r == '.' || r == '/' || r == '\\'
}

func humanize(s string) string {
	s = camelBoundRe.ReplaceAllString(s, "$1 $2")
	s = separatorRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
