package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/agent-registration/internal/types"
)

// ---------------------------------------------------------------------
// Agent Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var agent types.Agent
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := agent.Validate(); err != nil {
		s.errResponse(w, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}

	agent.ID = uuid.Nil
	agent.Addendums = nil
	if err := s.store.CreateAgent(r.Context(), &agent); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, agent)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.store.ListAgents(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if agents == nil {
		agents = []types.Agent{}
	}
	s.jsonResponse(w, http.StatusOK, agents)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}

	agent, err := s.store.GetAgent(r.Context(), agentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if agent == nil {
		s.errResponse(w, &ErrNotFound{Kind: "agent", ID: agentID.String()})
		return
	}

	s.jsonResponse(w, http.StatusOK, agent)
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}

	var agent types.Agent
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	agent.ID = agentID

	if err := agent.Validate(); err != nil {
		s.errResponse(w, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}

	if err := s.store.UpdateAgent(r.Context(), &agent); err != nil {
		if err.Error() == "agent not found: "+agentID.String() {
			s.errResponse(w, &ErrNotFound{Kind: "agent", ID: agentID.String()})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}

	if err := s.store.DeleteAgent(r.Context(), agentID); err != nil {
		if err.Error() == "agent not found: "+agentID.String() {
			s.errResponse(w, &ErrNotFound{Kind: "agent", ID: agentID.String()})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Addendum Handlers
// ---------------------------------------------------------------------

// handlePutAddendum accepts a multipart upload with a "file" part and
// attaches it to the agent under the addendum kind from the path.
func (s *Server) handlePutAddendum(w http.ResponseWriter, r *http.Request) {
	agentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}
	kind := types.AddendumKind(r.PathValue("kind"))
	if !types.KnownAddendumKind(kind) {
		s.errResponse(w, &ErrUnknownKind{Kind: string(kind)})
		return
	}

	agent, err := s.store.GetAgent(r.Context(), agentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if agent == nil {
		s.errResponse(w, &ErrNotFound{Kind: "agent", ID: agentID.String()})
		return
	}

	name, data, err := s.readUpload(r)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	if err := s.store.PutAddendum(r.Context(), agentID, kind, name, data); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "uploaded",
		"kind":   string(kind),
		"name":   name,
	})
}

func (s *Server) handleDeleteAddendum(w http.ResponseWriter, r *http.Request) {
	agentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}
	kind := types.AddendumKind(r.PathValue("kind"))
	if !types.KnownAddendumKind(kind) {
		s.errResponse(w, &ErrUnknownKind{Kind: string(kind)})
		return
	}

	if err := s.store.DeleteAddendum(r.Context(), agentID, kind); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// readUpload extracts the "file" part of a multipart upload, enforcing the
// configured size limit.
func (s *Server) readUpload(r *http.Request) (name string, data []byte, err error) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return "", nil, &ErrValidation{Field: "file", Message: "expected a multipart upload"}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, &ErrValidation{Field: "file", Message: "missing file part"}
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		return "", nil, &ErrValidation{Field: "file", Message: "failed to read upload"}
	}
	if int64(len(data)) > s.maxUpload {
		return "", nil, &ErrUploadTooLarge{LimitMB: int(s.maxUpload >> 20)}
	}
	return header.Filename, data, nil
}
