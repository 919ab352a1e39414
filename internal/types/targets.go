package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TargetKind discriminates the MappingTarget union.
type TargetKind int

const (
	// TargetSkip leaves the field untouched. It is the default outcome and
	// never means "classification succeeded".
	TargetSkip TargetKind = iota
	// TargetAddendum writes the generic "See Attached Addendum" phrase.
	TargetAddendum
	// TargetTypedAddendum references one addendum category by number.
	TargetTypedAddendum
	// TargetComputed writes a value composed from several attributes.
	TargetComputed
	// TargetAttribute writes one stored profile attribute verbatim.
	TargetAttribute
)

// MappingTarget is the classification outcome for one form field: skip, a
// profile attribute, a computed composite, or an addendum reference.
// Exactly one of Attribute, Computed, Addendum is meaningful, selected by Kind.
type MappingTarget struct {
	Kind      TargetKind
	Attribute AttributeKey
	Computed  ComputedKey
	Addendum  AddendumKind
}

// Skip returns the skip target.
func Skip() MappingTarget { return MappingTarget{Kind: TargetSkip} }

// GenericAddendum returns the untyped addendum-reference target.
func GenericAddendum() MappingTarget { return MappingTarget{Kind: TargetAddendum} }

// TypedAddendum returns an addendum-reference target for the given kind.
func TypedAddendum(k AddendumKind) MappingTarget {
	return MappingTarget{Kind: TargetTypedAddendum, Addendum: k}
}

// Computed returns a computed-value target for the given key.
func Computed(k ComputedKey) MappingTarget {
	return MappingTarget{Kind: TargetComputed, Computed: k}
}

// Attribute returns a direct-attribute target for the given key.
func Attribute(k AttributeKey) MappingTarget {
	return MappingTarget{Kind: TargetAttribute, Attribute: k}
}

// IsSkip reports whether the target leaves the field untouched.
func (t MappingTarget) IsSkip() bool { return t.Kind == TargetSkip }

// String encodes the target in its storage form:
// "skip", "addendum", "addendum:<kind>", "computed:<key>" or "attr:<key>".
func (t MappingTarget) String() string {
	switch t.Kind {
	case TargetSkip:
		return "skip"
	case TargetAddendum:
		return "addendum"
	case TargetTypedAddendum:
		return "addendum:" + string(t.Addendum)
	case TargetComputed:
		return "computed:" + string(t.Computed)
	case TargetAttribute:
		return "attr:" + string(t.Attribute)
	default:
		return "skip"
	}
}

// ParseTarget decodes the storage form produced by String.
func ParseTarget(s string) (MappingTarget, error) {
	switch {
	case s == "skip" || s == "":
		return Skip(), nil
	case s == "addendum":
		return GenericAddendum(), nil
	case strings.HasPrefix(s, "addendum:"):
		k := AddendumKind(strings.TrimPrefix(s, "addendum:"))
		if !KnownAddendumKind(k) {
			return Skip(), fmt.Errorf("unknown addendum kind: %q", k)
		}
		return TypedAddendum(k), nil
	case strings.HasPrefix(s, "computed:"):
		k := ComputedKey(strings.TrimPrefix(s, "computed:"))
		if !KnownComputed(k) {
			return Skip(), fmt.Errorf("unknown computed key: %q", k)
		}
		return Computed(k), nil
	case strings.HasPrefix(s, "attr:"):
		k := AttributeKey(strings.TrimPrefix(s, "attr:"))
		if !KnownAttribute(k) {
			return Skip(), fmt.Errorf("unknown attribute key: %q", k)
		}
		return Attribute(k), nil
	default:
		return Skip(), fmt.Errorf("unknown mapping target: %q", s)
	}
}

// MarshalJSON encodes the target as its storage string.
func (t MappingTarget) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the storage string form.
func (t *MappingTarget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTarget(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
