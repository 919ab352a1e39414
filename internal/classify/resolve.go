package classify

import (
	"github.com/jonathan/agent-registration/internal/types"
)

// Result is the artifact of a full classification run: the per-field mapping
// and the addendum slots the form was detected to require, in first-seen
// order. Slot order is stable and drives addendum numbering.
type Result struct {
	Mappings types.FieldMapping
	Slots    []types.AddendumKind
}

// Classify runs the whole pipeline over a form's detected fields: cascade,
// consensus correction, then resolution. It is deterministic and safe to
// re-invoke at any time; inputs are never mutated.
func Classify(fields []types.FieldDescriptor, cfg Config) Result {
	targets := make([]types.MappingTarget, len(fields))
	sensitive := make([]bool, len(fields))
	for i, f := range fields {
		targets[i] = CascadeTarget(f.Name)
		sensitive[i] = Sensitive(f.Name)
	}

	corrected := applyConsensus(fields, targets, sensitive, cfg)
	return resolve(fields, corrected)
}

// resolve performs the final left-to-right pass: it derives the slot set
// from addendum references and enforces attribute-target uniqueness. The
// first field mapped to an attribute keeps it; later duplicates are presumed
// mis-classifications and degrade to skip. Computed and addendum targets may
// repeat freely.
func resolve(fields []types.FieldDescriptor, targets []types.MappingTarget) Result {
	mappings := make(types.FieldMapping, len(fields))
	usedAttrs := map[types.AttributeKey]bool{}
	var slots []types.AddendumKind
	seenSlots := map[types.AddendumKind]bool{}

	for i, f := range fields {
		t := targets[i]
		switch t.Kind {
		case types.TargetTypedAddendum:
			if !seenSlots[t.Addendum] {
				seenSlots[t.Addendum] = true
				slots = append(slots, t.Addendum)
			}
		case types.TargetAttribute:
			if usedAttrs[t.Attribute] {
				t = types.Skip()
			} else {
				usedAttrs[t.Attribute] = true
			}
		}
		mappings[f.Name] = types.MappingEntry{Target: t}
	}

	return Result{Mappings: mappings, Slots: slots}
}
