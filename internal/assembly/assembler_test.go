package assembly

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/agent-registration/internal/pdf"
	"github.com/jonathan/agent-registration/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records every call so tests can assert on the exact writes
// the pipeline makes.
type fakeBackend struct {
	fillValues map[string]string
	fillFailed []string
	fillErr    error

	overlays   []pdf.PlacedText
	overlayErr error

	stamps   []string
	stampErr error

	appends   int
	appendErr error

	pages int
}

func (f *fakeBackend) PageCount(doc []byte) (int, error) { return f.pages, nil }

func (f *fakeBackend) ParseFields(doc []byte) ([]types.FieldDescriptor, error) { return nil, nil }

func (f *fakeBackend) Fill(doc []byte, values map[string]string) (pdf.FillResult, error) {
	if f.fillErr != nil {
		return pdf.FillResult{}, f.fillErr
	}
	f.fillValues = values
	return pdf.FillResult{
		Doc:    append(doc, []byte("+fill")...),
		Filled: len(values) - len(f.fillFailed),
		Failed: f.fillFailed,
	}, nil
}

func (f *fakeBackend) Overlay(doc []byte, texts []pdf.PlacedText) ([]byte, error) {
	if f.overlayErr != nil {
		return nil, f.overlayErr
	}
	f.overlays = append(f.overlays, texts...)
	return append(doc, []byte("+overlay")...), nil
}

func (f *fakeBackend) StampText(doc []byte, page int, text string) ([]byte, error) {
	if f.stampErr != nil {
		return nil, f.stampErr
	}
	f.stamps = append(f.stamps, text)
	return append(doc, []byte("+stamp")...), nil
}

func (f *fakeBackend) AppendPages(doc []byte, extra []byte) ([]byte, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.appends++
	return append(doc, extra...), nil
}

func fieldableForm(mappings types.FieldMapping, slots ...types.AddendumKind) *types.RegistrationForm {
	return &types.RegistrationForm{
		StateName:     "New York",
		FileName:      "ny_agent_registration.pdf",
		Fieldable:     true,
		Mappings:      mappings,
		AddendumSlots: slots,
	}
}

func entry(t types.MappingTarget) types.MappingEntry {
	return types.MappingEntry{Target: t}
}

func TestGenerateEmptySourceIsFatal(t *testing.T) {
	a := New(&fakeBackend{}, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:  fieldableForm(nil),
		Agent: sampleAgent(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Equal(t, StageFailed, res.Stage)
	assert.Empty(t, res.Output)
}

func TestGenerateFillsMappedFields(t *testing.T) {
	backend := &fakeBackend{pages: 2}
	mappings := types.FieldMapping{
		"First Name":         entry(types.Attribute(types.AttrFirstName)),
		"SSN":                entry(types.Skip()),
		"Fax Number":         entry(types.Attribute(types.AttrFax)),
		"Row1_ReferenceName": entry(types.TypedAddendum(types.AddendumReferences)),
		"References":         entry(types.TypedAddendum(types.AddendumReferences)),
	}
	form := fieldableForm(mappings, types.AddendumReferences)

	a := New(backend, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:   form,
		Agent:  sampleAgent(),
		Source: []byte("%PDF"),
	})

	require.NoError(t, err)
	assert.Equal(t, StageDone, res.Stage)
	assert.Equal(t, map[string]string{
		"First Name":         "Jane",
		"Row1_ReferenceName": "See Addendum 1",
		"References":         "See Attached Addendum 1 - References",
	}, backend.fillValues, "skip targets and empty attributes stay out of the fill")
	assert.Equal(t, 3, res.FieldsFilled)
	assert.Equal(t, 2, res.PageCount)
}

func TestGenerateEndToEnd(t *testing.T) {
	backend := &fakeBackend{pages: 1}
	mappings := types.FieldMapping{
		"First Name":    entry(types.Attribute(types.AttrFirstName)),
		"Last Name":     entry(types.Attribute(types.AttrLastName)),
		"Home Address":  entry(types.Attribute(types.AttrHomeStreet)),
		"SSN":           entry(types.Skip()),
		"Row1_FullName": entry(types.Skip()),
	}
	agent := &types.Agent{
		FirstName:  "Ann",
		LastName:   "Lee",
		HomeStreet: "1 Elm St",
		HomeCity:   "Troy",
		HomeState:  "NY",
		HomeZip:    "12180",
	}

	a := New(backend, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:   fieldableForm(mappings),
		Agent:  agent,
		Source: []byte("%PDF"),
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"First Name":   "Ann",
		"Last Name":    "Lee",
		"Home Address": "1 Elm St",
	}, backend.fillValues)
	assert.Equal(t, 3, res.FieldsFilled)
	assert.Zero(t, res.SlotsMerged)
	assert.Empty(t, res.SkippedSlots)
}

func TestGenerateSkipsSlotsWithoutPayload(t *testing.T) {
	backend := &fakeBackend{pages: 1}
	agent := sampleAgent()
	agent.Addendums = map[types.AddendumKind]types.Addendum{
		types.AddendumClientList: {Name: "clients.pdf"}, // exported entry, bytes stripped
	}
	form := fieldableForm(nil, types.AddendumReferences, types.AddendumClientList)

	a := New(backend, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:   form,
		Agent:  agent,
		Source: []byte("%PDF"),
	})

	require.NoError(t, err)
	assert.Equal(t, StageDone, res.Stage)
	assert.Zero(t, res.SlotsMerged)
	assert.Zero(t, backend.appends)
	assert.Equal(t, []SkippedSlot{
		{Kind: types.AddendumReferences, Reason: SkipReasonMissing},
		{Kind: types.AddendumClientList, Reason: SkipReasonNeedsReupload},
	}, res.SkippedSlots)
}

func TestGenerateMergesAndStampsAddendums(t *testing.T) {
	backend := &fakeBackend{pages: 6}
	agent := sampleAgent()
	agent.Addendums = map[types.AddendumKind]types.Addendum{
		types.AddendumWorkHistory: {Name: "work.pdf", Bytes: []byte("%PDF-w")},
		types.AddendumReferences:  {Name: "refs.pdf", Bytes: []byte("%PDF-r")},
	}
	form := fieldableForm(nil, types.AddendumWorkHistory, types.AddendumReferences)

	a := New(backend, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:   form,
		Agent:  agent,
		Source: []byte("%PDF"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.SlotsMerged)
	assert.Equal(t, 2, backend.appends)
	assert.Equal(t, []string{
		"Addendum 1 — Employment / Work History",
		"Addendum 2 — References",
	}, backend.stamps)
	assert.Empty(t, res.SkippedSlots)
}

func TestGenerateStampFailureStillMerges(t *testing.T) {
	backend := &fakeBackend{pages: 2, stampErr: errors.New("bad font")}
	agent := sampleAgent()
	agent.Addendums = map[types.AddendumKind]types.Addendum{
		types.AddendumReferences: {Name: "refs.pdf", Bytes: []byte("%PDF-r")},
	}
	form := fieldableForm(nil, types.AddendumReferences)

	a := New(backend, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:   form,
		Agent:  agent,
		Source: []byte("%PDF"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.SlotsMerged)
	assert.Empty(t, res.SkippedSlots)
}

func TestGenerateOverlayFailuresAreAbsorbed(t *testing.T) {
	backend := &fakeBackend{pages: 1, overlayErr: errors.New("bad page")}
	form := fieldableForm(nil)
	form.Placements = []types.OverlayPlacement{
		{Page: 1, X: 40, Y: 700, Target: types.Attribute(types.AttrFirstName), FontSize: 10},
		{Page: 1, X: 40, Y: 680, CustomText: "X", FontSize: 10},
	}

	a := New(backend, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:   form,
		Agent:  sampleAgent(),
		Source: []byte("%PDF"),
	})

	require.NoError(t, err)
	assert.Equal(t, StageDone, res.Stage)
	assert.Equal(t, 2, res.OverlayFailures)
	assert.Zero(t, res.OverlaysDrawn)
}

func TestGenerateOverlayResolvesTargetsAndCustomText(t *testing.T) {
	backend := &fakeBackend{pages: 1}
	form := &types.RegistrationForm{
		StateName: "Ohio",
		Fieldable: false,
		Placements: []types.OverlayPlacement{
			{Page: 1, X: 40, Y: 700, Target: types.Computed(types.ComputedFullName), FontSize: 11},
			{Page: 2, X: 40, Y: 650, CustomText: "N/A", FontSize: 9},
			{Page: 2, X: 40, Y: 630, Target: types.Attribute(types.AttrFax), FontSize: 9},
		},
	}

	a := New(backend, nil)
	res, err := a.Generate(context.Background(), Request{
		Form:   form,
		Agent:  sampleAgent(),
		Source: []byte("%PDF"),
	})

	require.NoError(t, err)
	require.Len(t, backend.overlays, 2, "empty resolved values draw nothing")
	assert.Equal(t, "Jane Q Doe", backend.overlays[0].Text)
	assert.Equal(t, "N/A", backend.overlays[1].Text)
	assert.Equal(t, 2, res.OverlaysDrawn)
}

func TestGenerateHonorsCancellationBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(&fakeBackend{}, nil)
	_, err := a.Generate(ctx, Request{
		Form:   fieldableForm(nil),
		Agent:  sampleAgent(),
		Source: []byte("%PDF"),
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	agent := &types.Agent{FirstName: "Ann Marie", LastName: "Lee"}
	assert.Equal(t, "New_York_Ann_Marie_Lee_2026-08-31.pdf", FileName("New York", agent, at))

	blank := &types.Agent{}
	assert.Equal(t, "form_first_last_2026-08-31.pdf", FileName("", blank, at))
}
