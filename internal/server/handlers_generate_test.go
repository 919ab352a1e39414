package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/agent-registration/internal/db"
	"github.com/jonathan/agent-registration/internal/types"
)

// seedGeneration puts a ready agent/form pair into the store and returns
// their IDs.
func seedGeneration(t *testing.T, store *fakeStore) (formID, agentID uuid.UUID) {
	t.Helper()

	agent := &types.Agent{FirstName: "Ann", LastName: "Lee", HomeCity: "Columbus"}
	require.NoError(t, store.CreateAgent(context.Background(), agent))
	require.NoError(t, store.PutAddendum(context.Background(), agent.ID,
		types.AddendumReferences, "refs.pdf", []byte("%PDF-refs")))

	form := &types.RegistrationForm{
		StateName: "Ohio",
		Fieldable: true,
		PageCount: 2,
		DetectedFields: []types.FieldDescriptor{
			{Name: "First Name", Kind: types.FieldText},
			{Name: "Last Name", Kind: types.FieldText},
		},
		Mappings: types.FieldMapping{
			"First Name": {Target: types.Attribute(types.AttrFirstName)},
			"Last Name":  {Target: types.Attribute(types.AttrLastName)},
		},
		AddendumSlots: []types.AddendumKind{types.AddendumReferences},
	}
	require.NoError(t, store.CreateForm(context.Background(), form))
	store.blobs[db.FormBlobKey(form.ID)] = []byte("%PDF-source")

	return form.ID, agent.ID
}

func TestGenerate(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{pages: 3})
	formID, agentID := seedGeneration(t, store)

	w := doJSON(s, http.MethodPost, "/generate",
		fmt.Sprintf(`{"form_id":%q,"agent_id":%q}`, formID, agentID))
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "done", resp.Status)
	require.NotNil(t, resp.Report)
	assert.Equal(t, 2, resp.Report.FieldsFilled)
	assert.Equal(t, 1, resp.Report.SlotsMerged)
	assert.Empty(t, resp.Report.SkippedSlots)

	// The generation record and its document were persisted.
	require.Len(t, store.gens, 1)
	assert.NotEmpty(t, store.blobs[db.GenerationBlobKey(resp.ID)])
}

func TestGenerateMissingForm(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})
	_, agentID := seedGeneration(t, store)

	w := doJSON(s, http.MethodPost, "/generate",
		fmt.Sprintf(`{"form_id":%q,"agent_id":%q}`, uuid.New(), agentID))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, store.gens)
}

func TestGenerateWithoutSourceRecordsFailure(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})
	formID, agentID := seedGeneration(t, store)
	delete(store.blobs, db.FormBlobKey(formID))

	w := doJSON(s, http.MethodPost, "/generate",
		fmt.Sprintf(`{"form_id":%q,"agent_id":%q}`, formID, agentID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The failed run is still recorded for inspection.
	require.Len(t, store.gens, 1)
	for _, gen := range store.gens {
		assert.Equal(t, "failed", gen.Status)
	}
}

func TestGenerateBatch(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{pages: 2})
	formID, agentID := seedGeneration(t, store)

	second := &types.RegistrationForm{StateName: "Texas", PageCount: 1}
	require.NoError(t, store.CreateForm(context.Background(), second))
	store.blobs[db.FormBlobKey(second.ID)] = []byte("%PDF-tx")

	w := doJSON(s, http.MethodPost, "/generate/batch",
		fmt.Sprintf(`{"agent_id":%q,"form_ids":[%q,%q,%q]}`, agentID, formID, second.ID, uuid.New()))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []BatchItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)

	assert.Empty(t, resp.Items[0].Error)
	assert.Equal(t, "done", resp.Items[0].Status)
	assert.Empty(t, resp.Items[1].Error)
	assert.Contains(t, resp.Items[2].Error, "form not found")

	assert.Len(t, store.gens, 2)
}

func TestGenerateBatchRequiresForms(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})
	_, agentID := seedGeneration(t, store)

	w := doJSON(s, http.MethodPost, "/generate/batch",
		fmt.Sprintf(`{"agent_id":%q,"form_ids":[]}`, agentID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListGenerationsFiltered(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})
	formID, agentID := seedGeneration(t, store)

	require.NoError(t, store.CreateGeneration(context.Background(),
		&db.Generation{FormID: formID, AgentID: agentID, Status: "done", Report: []byte(`{}`)}))
	require.NoError(t, store.CreateGeneration(context.Background(),
		&db.Generation{FormID: uuid.New(), AgentID: agentID, Status: "done", Report: []byte(`{}`)}))

	w := doRequest(s, http.MethodGet, "/generations?form_id="+formID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var gens []db.Generation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gens))
	assert.Len(t, gens, 1)

	w = doRequest(s, http.MethodGet, "/generations?form_id=nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGenerationDocument(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{pages: 2})
	formID, agentID := seedGeneration(t, store)

	w := doJSON(s, http.MethodPost, "/generate",
		fmt.Sprintf(`{"form_id":%q,"agent_id":%q}`, formID, agentID))
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doRequest(s, http.MethodGet, "/generations/"+resp.ID.String()+"/document", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), resp.Report.FileName)
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestGetGenerationDocumentMissing(t *testing.T) {
	s := testServer(newFakeStore(), &fakePDF{})

	w := doRequest(s, http.MethodGet, "/generations/"+uuid.NewString()+"/document", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
