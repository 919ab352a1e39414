package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/agent-registration/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobKeys(t *testing.T) {
	formID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	agentID := uuid.MustParse("650e8400-e29b-41d4-a716-446655440000")

	assert.Equal(t, "forms/550e8400-e29b-41d4-a716-446655440000", FormBlobKey(formID))
	assert.Equal(t, "addendums/650e8400-e29b-41d4-a716-446655440000/references",
		AddendumBlobKey(agentID, types.AddendumReferences))
	assert.Equal(t, "generations/550e8400-e29b-41d4-a716-446655440000", GenerationBlobKey(formID))
}

func TestProfileRoundTrip(t *testing.T) {
	agent := &types.Agent{
		ID:         uuid.New(),
		FirstName:  "Jane",
		LastName:   "Doe",
		DOB:        "1985-04-09",
		HomeStreet: "12 Elm St",
		Addendums: map[types.AddendumKind]types.Addendum{
			types.AddendumReferences: {Name: "refs.pdf", Bytes: []byte("x")},
		},
		CreatedAt: time.Now(),
	}

	data, err := marshalProfile(agent)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "refs.pdf", "addendums must not be stored in the profile column")
	assert.NotContains(t, string(data), agent.ID.String(), "row identity must not be stored in the profile column")

	restored := types.Agent{ID: agent.ID, CreatedAt: agent.CreatedAt}
	require.NoError(t, unmarshalProfile(data, &restored))

	assert.Equal(t, "Jane", restored.FirstName)
	assert.Equal(t, "Doe", restored.LastName)
	assert.Equal(t, "1985-04-09", restored.DOB)
	assert.Equal(t, "12 Elm St", restored.HomeStreet)
	assert.Equal(t, agent.ID, restored.ID, "row identity survives unmarshal")
	assert.True(t, restored.CreatedAt.Equal(agent.CreatedAt), "timestamps come from their own columns")
}

func TestFormJSONRoundTrip(t *testing.T) {
	form := &types.RegistrationForm{
		StateName: "New York",
		DetectedFields: []types.FieldDescriptor{
			{Name: "First Name", Kind: types.FieldText},
			{Name: "US Citizen", Kind: types.FieldCheckBox},
		},
		Mappings: types.FieldMapping{
			"First Name": {Target: types.Attribute(types.AttrFirstName)},
			"US Citizen": {Target: types.Skip(), Manual: true},
		},
		AddendumSlots: []types.AddendumKind{types.AddendumWorkHistory, types.AddendumReferences},
		Placements: []types.OverlayPlacement{
			{Page: 1, X: 40, Y: 700, Target: types.Computed(types.ComputedFullName), FontSize: 11},
		},
	}

	fields, mappings, slots, placements, err := marshalFormJSON(form)
	require.NoError(t, err)

	var restored types.RegistrationForm
	require.NoError(t, unmarshalFormJSON(&restored, fields, mappings, slots, placements))

	assert.Equal(t, form.DetectedFields, restored.DetectedFields)
	assert.Equal(t, form.Mappings, restored.Mappings)
	assert.True(t, restored.Mappings["US Citizen"].Manual, "manual flag survives the round trip")
	assert.Equal(t, form.AddendumSlots, restored.AddendumSlots, "slot order is preserved")
	assert.Equal(t, form.Placements, restored.Placements)
}
