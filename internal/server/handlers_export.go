package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/agent-registration/internal/schemas"
	"github.com/jonathan/agent-registration/internal/types"
)

// ---------------------------------------------------------------------
// Dataset Handlers
// ---------------------------------------------------------------------

// handleExport serializes all agents and forms as a portable dataset.
// Document bytes stay behind: addendum entries keep only their names and
// forms only their metadata, so an import needs the PDFs re-uploaded.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dataset := types.Dataset{
		Version: types.DatasetVersion,
		Agents:  []types.Agent{},
		Forms:   []types.RegistrationForm{},
	}

	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	for i := range agents {
		full, err := s.store.GetAgent(ctx, agents[i].ID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if full == nil {
			continue
		}
		for kind, add := range full.Addendums {
			add.Bytes = nil
			full.Addendums[kind] = add
		}
		dataset.Agents = append(dataset.Agents, *full)
	}

	forms, err := s.store.ListForms(ctx)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	for i := range forms {
		full, err := s.store.GetForm(ctx, forms[i].ID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if full == nil {
			continue
		}
		dataset.Forms = append(dataset.Forms, *full)
	}

	w.Header().Set("Content-Disposition", `attachment; filename="registration_dataset.json"`)
	s.jsonResponse(w, http.StatusOK, dataset)
}

// ImportResult reports how much of a dataset was loaded.
type ImportResult struct {
	AgentsImported int `json:"agents_imported"`
	FormsImported  int `json:"forms_imported"`
}

// handleImport loads a dataset produced by handleExport. Every imported form
// is flagged for re-upload since the export carries no PDF bytes.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxUpload+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if int64(len(body)) > s.maxUpload {
		s.errResponse(w, &ErrUploadTooLarge{LimitMB: int(s.maxUpload >> 20)})
		return
	}

	if err := schemas.ValidateDataset(body); err != nil {
		s.errResponse(w, &ErrValidation{Field: "dataset", Message: err.Error()})
		return
	}

	var dataset types.Dataset
	if err := json.Unmarshal(body, &dataset); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if dataset.Version > types.DatasetVersion {
		s.errResponse(w, &ErrValidation{
			Field:   "version",
			Message: fmt.Sprintf("unsupported dataset version %d", dataset.Version),
		})
		return
	}

	ctx := r.Context()
	var result ImportResult

	for i := range dataset.Agents {
		agent := dataset.Agents[i]
		addendums := agent.Addendums

		agent.ID = uuid.Nil
		agent.Addendums = nil
		if err := s.store.CreateAgent(ctx, &agent); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		for kind, add := range addendums {
			if !types.KnownAddendumKind(kind) {
				continue
			}
			if err := s.store.PutAddendum(ctx, agent.ID, kind, add.Name, nil); err != nil {
				s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
				return
			}
		}
		result.AgentsImported++
	}

	for i := range dataset.Forms {
		form := dataset.Forms[i]
		form.ID = uuid.Nil
		form.NeedsReupload = true
		if err := s.store.CreateForm(ctx, &form); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		result.FormsImported++
	}

	s.jsonResponse(w, http.StatusOK, result)
}
