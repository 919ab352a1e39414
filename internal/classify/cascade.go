package classify

import (
	"github.com/jonathan/agent-registration/internal/types"
)

// Sensitive reports whether a raw field identifier matches the sensitive
// vocabulary (tax identifiers, signatures, notarization, payment). Sensitive
// fields always classify as skip and are never corrected by consensus.
func Sensitive(rawName string) bool {
	norm := Normalize(rawName)
	leaf := Leaf(rawName)
	return matchAny(sensitivePatterns, norm, leaf)
}

// TableRowContext reports whether a raw field identifier names a cell in a
// repeating table row. Such cells get the compact addendum reference because
// they rarely fit a full one.
func TableRowContext(rawName string) bool {
	return tableRowRe.MatchString(Normalize(rawName))
}

// CascadeTarget classifies one raw field identifier through the rule
// cascade. Tier order is a correctness contract: sensitive skip, structural
// disambiguation, table-row heuristic, addendum vocabulary, attribute
// vocabulary, then the default skip.
func CascadeTarget(rawName string) types.MappingTarget {
	norm := Normalize(rawName)
	leaf := Leaf(rawName)

	// Tier 1: sensitive fields are skipped unconditionally.
	if matchAny(sensitivePatterns, norm, leaf) {
		return types.Skip()
	}

	// Tier 2: known ambiguous pairs, told apart by the leaf alone.
	if t, ok := disambiguate(norm, leaf); ok {
		return t
	}

	// Tier 3: repeating-row cells belong to an addendum category or, failing
	// that, to a structured block the addendum replaces wholesale.
	if tableRowRe.MatchString(norm) {
		for _, rule := range tableRowRules {
			if matchAny(rule.patterns, norm, leaf) {
				return types.TypedAddendum(rule.kind)
			}
		}
		return types.Skip()
	}

	// Tier 4: addendum category vocabulary, then the generic reference.
	for _, rule := range addendumRules {
		if matchAny(rule.patterns, norm, leaf) {
			return types.TypedAddendum(rule.kind)
		}
	}
	if genericAddendumRe.MatchString(norm) {
		return types.GenericAddendum()
	}

	// Tier 5: direct attribute and computed vocabulary, specific first.
	for _, rule := range attributeRules {
		if matchAny(rule.patterns, norm, leaf) {
			return rule.target
		}
	}

	// Tier 6: nothing matched.
	return types.Skip()
}

// disambiguate handles vocabulary collisions that pattern order cannot solve.
func disambiguate(norm, leaf string) (types.MappingTarget, bool) {
	// "Date and Place of Birth" style fields: both markers present, the leaf
	// cell decides which half this is.
	if birthMarkerRe.MatchString(norm) && dateMarkerRe.MatchString(norm) && placeMarkerRe.MatchString(norm) {
		if leafIsDateRe.MatchString(leaf) {
			return types.Computed(types.ComputedDOBFormatted), true
		}
		return types.Computed(types.ComputedBirthPlace), true
	}

	// Employer tables: a current-employer block fills business attributes, a
	// historical or ownership block routes to an addendum.
	if employerMarkerRe.MatchString(norm) && tableRowRe.MatchString(norm) {
		if historyMarkerRe.MatchString(norm) {
			return types.TypedAddendum(types.AddendumWorkHistory), true
		}
		if ownershipLeafRe.MatchString(leaf) {
			return types.TypedAddendum(types.AddendumFinancial), true
		}
		for _, rule := range employerLeafRules {
			if rule.re.MatchString(leaf) {
				return rule.target, true
			}
		}
	}

	return types.Skip(), false
}
