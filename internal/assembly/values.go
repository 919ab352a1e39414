// Package assembly resolves mapping targets to literal values and drives the
// generation pipeline that fills a form, draws overlay text and merges
// addendum documents into one output PDF.
package assembly

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/agent-registration/internal/types"
)

// Numbering maps each addendum kind a form requires to its ordinal, assigned
// by enumerating the form's slots in first-seen order starting at 1. It is
// an explicit value passed through the pipeline, never shared state.
type Numbering map[types.AddendumKind]int

// NumberSlots builds the numbering context for a form's slot list.
func NumberSlots(slots []types.AddendumKind) Numbering {
	n := make(Numbering, len(slots))
	for i, kind := range slots {
		n[kind] = i + 1
	}
	return n
}

// ResolveValue produces the literal string a mapping target writes for the
// given agent. An empty result means the field is left untouched. shortForm
// requests the compact addendum phrasing used in space-constrained table
// cells.
func ResolveValue(agent *types.Agent, target types.MappingTarget, numbering Numbering, shortForm bool) string {
	switch target.Kind {
	case types.TargetSkip:
		return ""
	case types.TargetAttribute:
		return agent.Attribute(target.Attribute)
	case types.TargetComputed:
		return computedValue(agent, target.Computed)
	case types.TargetAddendum:
		return "See Attached Addendum"
	case types.TargetTypedAddendum:
		return addendumReference(target.Addendum, numbering, shortForm)
	default:
		return ""
	}
}

func addendumReference(kind types.AddendumKind, numbering Numbering, shortForm bool) string {
	n, numbered := numbering[kind]
	if shortForm {
		if numbered {
			return fmt.Sprintf("See Addendum %d", n)
		}
		return "See Addendum"
	}
	label := types.AddendumLabels[kind]
	if numbered {
		return fmt.Sprintf("See Attached Addendum %d - %s", n, label)
	}
	return fmt.Sprintf("See Attached Addendum - %s", label)
}

func computedValue(agent *types.Agent, key types.ComputedKey) string {
	switch key {
	case types.ComputedFullName:
		return joinNonEmpty(" ", agent.FirstName, agent.MiddleName, agent.LastName)
	case types.ComputedFullNameLastFirst:
		if agent.FirstName == "" || agent.LastName == "" {
			return ""
		}
		s := agent.LastName + ", " + agent.FirstName
		if agent.MiddleName != "" {
			s += " " + agent.MiddleName
		}
		return s
	case types.ComputedHomeAddressFull:
		return joinNonEmpty(", ", agent.HomeStreet, agent.HomeCity, agent.HomeState, agent.HomeZip)
	case types.ComputedBizAddressFull:
		return joinNonEmpty(", ", agent.BusinessStreet, agent.BusinessCity, agent.BusinessState, agent.BusinessZip)
	case types.ComputedBirthPlace:
		return joinNonEmpty(", ", agent.BirthCity, agent.BirthState, agent.BirthCountry)
	case types.ComputedDOBFormatted:
		return formatDOB(agent.DOB)
	default:
		return ""
	}
}

// formatDOB renders a stored YYYY-MM-DD date as M/D/YYYY, or "" when the
// date is unset or unparsable.
func formatDOB(dob string) string {
	if dob == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
