package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/agent-registration/internal/types"
)

func TestCreateAgent(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})

	w := doJSON(s, http.MethodPost, "/agents", `{"firstName":"Jane","lastName":"Doe","dob":"1985-04-09"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var agent types.Agent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &agent))
	assert.NotEqual(t, uuid.Nil, agent.ID)
	assert.Equal(t, "Jane", agent.FirstName)
	assert.Len(t, store.agents, 1)
}

func TestCreateAgentValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing last name", body: `{"firstName":"Jane"}`},
		{name: "bad dob format", body: `{"firstName":"Jane","lastName":"Doe","dob":"04/09/1985"}`},
		{name: "bad email", body: `{"firstName":"Jane","lastName":"Doe","homeEmail":"not-an-email"}`},
	}

	s := testServer(newFakeStore(), &fakePDF{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(s, http.MethodPost, "/agents", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateAgentInvalidBody(t *testing.T) {
	s := testServer(newFakeStore(), &fakePDF{})

	w := doJSON(s, http.MethodPost, "/agents", `{ not json }`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAgentNotFound(t *testing.T) {
	s := testServer(newFakeStore(), &fakePDF{})

	w := doRequest(s, http.MethodGet, "/agents/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(s, http.MethodGet, "/agents/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAgent(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})

	agent := &types.Agent{FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, store.CreateAgent(context.Background(), agent))

	w := doJSON(s, http.MethodPut, "/agents/"+agent.ID.String(),
		`{"firstName":"Jane","lastName":"Smith"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Smith", store.agents[agent.ID].LastName)
}

func TestUpdateAgentNotFound(t *testing.T) {
	s := testServer(newFakeStore(), &fakePDF{})

	w := doJSON(s, http.MethodPut, "/agents/"+uuid.NewString(),
		`{"firstName":"Jane","lastName":"Doe"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAgent(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})

	agent := &types.Agent{FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, store.CreateAgent(context.Background(), agent))

	w := doRequest(s, http.MethodDelete, "/agents/"+agent.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.agents)
}

func TestPutAddendum(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})

	agent := &types.Agent{FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, store.CreateAgent(context.Background(), agent))

	body, contentType := multipartBody(t, "refs.pdf", []byte("%PDF-refs"), nil)
	w := doRequest(s, http.MethodPut,
		"/agents/"+agent.ID.String()+"/addendums/references", body, contentType)
	require.Equal(t, http.StatusOK, w.Code)

	stored := store.agents[agent.ID]
	require.Contains(t, stored.Addendums, types.AddendumReferences)
	assert.Equal(t, "refs.pdf", stored.Addendums[types.AddendumReferences].Name)
}

func TestPutAddendumUnknownKind(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})

	agent := &types.Agent{FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, store.CreateAgent(context.Background(), agent))

	body, contentType := multipartBody(t, "x.pdf", []byte("%PDF-x"), nil)
	w := doRequest(s, http.MethodPut,
		"/agents/"+agent.ID.String()+"/addendums/memoirs", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown addendum kind")
}

func TestDeleteAddendum(t *testing.T) {
	store := newFakeStore()
	s := testServer(store, &fakePDF{})

	agent := &types.Agent{FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, store.CreateAgent(context.Background(), agent))
	require.NoError(t, store.PutAddendum(context.Background(), agent.ID, types.AddendumReferences, "refs.pdf", []byte("%PDF")))

	w := doRequest(s, http.MethodDelete,
		"/agents/"+agent.ID.String()+"/addendums/references", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, store.agents[agent.ID].Addendums, types.AddendumReferences)
}
