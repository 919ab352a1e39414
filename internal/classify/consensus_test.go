package classify

import (
	"testing"

	"github.com/jonathan/agent-registration/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptors(names ...string) []types.FieldDescriptor {
	fields := make([]types.FieldDescriptor, len(names))
	for i, n := range names {
		fields[i] = types.FieldDescriptor{Name: n, Kind: types.FieldText}
	}
	return fields
}

func TestConsensusRescuesSkippedRowCells(t *testing.T) {
	// A references table with generic cell labels: the unrecognized cells
	// classify as skip in the cascade and one typed neighbor rescues them.
	fields := descriptors("Row1_ReferenceName", "Row1_Address", "Row1_Phone", "Row2_ReferenceName")
	res := Classify(fields, DefaultConfig())

	for _, f := range fields {
		entry := res.Mappings[f.Name]
		assert.Equal(t, types.TypedAddendum(types.AddendumReferences), entry.Target, "field %s", f.Name)
	}
	assert.Equal(t, []types.AddendumKind{types.AddendumReferences}, res.Slots)
}

func TestConsensusOverridesGenericTargets(t *testing.T) {
	// A bare "Address" between reference rows is a reference cell, not the
	// agent's home street: two typed neighbors meet the generic threshold.
	fields := descriptors("Row1_ReferenceName", "Address", "Row2_ReferenceName")
	res := Classify(fields, DefaultConfig())

	assert.Equal(t, types.TypedAddendum(types.AddendumReferences), res.Mappings["Address"].Target)
}

func TestConsensusGenericThresholdNotMetKeepsOriginal(t *testing.T) {
	// One typed neighbor is not enough to override a generic attribute.
	fields := descriptors("Row1_ReferenceName", "Address", "Last Name")
	res := Classify(fields, DefaultConfig())

	assert.Equal(t, types.Attribute(types.AttrHomeStreet), res.Mappings["Address"].Target)
}

func TestConsensusNeverTouchesSensitiveFields(t *testing.T) {
	fields := descriptors("Row1_ReferenceName", "SSN_or_Signature_Table_Row1", "Row2_ReferenceName")
	res := Classify(fields, DefaultConfig())

	assert.Equal(t, types.Skip(), res.Mappings["SSN_or_Signature_Table_Row1"].Target)
}

func TestConsensusUsesOriginalsOnly(t *testing.T) {
	// With a window of 1, the middle field is rescued by its typed neighbor,
	// but the corrected value must not cascade into the last field: its only
	// neighbor's original classification was skip.
	fields := descriptors("Row1_ReferenceName", "Row1_Notes", "Row2_Notes")
	cfg := Config{Window: 1, SkipThreshold: 1, GenericThreshold: 2}

	targets := make([]types.MappingTarget, len(fields))
	sensitive := make([]bool, len(fields))
	for i, f := range fields {
		targets[i] = CascadeTarget(f.Name)
		sensitive[i] = Sensitive(f.Name)
	}
	require.Equal(t, types.TypedAddendum(types.AddendumReferences), targets[0])
	require.Equal(t, types.Skip(), targets[1])
	require.Equal(t, types.Skip(), targets[2])

	corrected := applyConsensus(fields, targets, sensitive, cfg)
	assert.Equal(t, types.TypedAddendum(types.AddendumReferences), corrected[1])
	assert.Equal(t, types.Skip(), corrected[2], "correction must not cascade past the window")
}

func TestConsensusRejectsZeroThresholds(t *testing.T) {
	// A threshold of zero is met by an empty neighborhood, which would
	// reassign every weak field to the zero addendum kind. Such configs
	// fall back to the defaults.
	fields := descriptors("Question 17", "Address")

	res := Classify(fields, Config{Window: 5, SkipThreshold: 0, GenericThreshold: 2})
	assert.Equal(t, types.Skip(), res.Mappings["Question 17"].Target)
	assert.Empty(t, res.Slots)

	res = Classify(fields, Config{Window: 5, SkipThreshold: 1, GenericThreshold: 0})
	assert.Equal(t, types.Attribute(types.AttrHomeStreet), res.Mappings["Address"].Target)
	assert.Empty(t, res.Slots)
}

func TestConsensusTieBreaksByCanonicalKindOrder(t *testing.T) {
	// One work-history neighbor and one references neighbor tie; the kind
	// listed first in the canonical order wins.
	fields := descriptors("Row1_Occupation", "Row1_Notes", "Row1_ReferenceName")
	res := Classify(fields, DefaultConfig())

	assert.Equal(t, types.TypedAddendum(types.AddendumWorkHistory), res.Mappings["Row1_Notes"].Target)
}
