package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/agent-registration/internal/assembly"
	"github.com/jonathan/agent-registration/internal/db"
)

// ---------------------------------------------------------------------
// Generation Handlers
// ---------------------------------------------------------------------

// GenerateRequest asks for one form to be filled for one agent.
type GenerateRequest struct {
	FormID  uuid.UUID `json:"form_id"`
	AgentID uuid.UUID `json:"agent_id"`
}

// GenerateResponse couples the stored generation record with its report.
type GenerateResponse struct {
	ID     uuid.UUID        `json:"id"`
	Status string           `json:"status"`
	Report *assembly.Result `json:"report"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.generateOne(r, req)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// BatchGenerateRequest asks for several forms to be filled for one agent.
type BatchGenerateRequest struct {
	AgentID uuid.UUID   `json:"agent_id"`
	FormIDs []uuid.UUID `json:"form_ids"`
}

// BatchItem is the per-form outcome of a batch generation.
type BatchItem struct {
	FormID uuid.UUID `json:"form_id"`
	Error  string    `json:"error,omitempty"`

	*GenerateResponse
}

// handleGenerateBatch runs one generation per form concurrently. Each pair
// holds its own data, so the only coordination needed is the result slice,
// which is written by index.
func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.FormIDs) == 0 {
		s.errResponse(w, &ErrValidation{Field: "form_ids", Message: "at least one form is required"})
		return
	}

	items := make([]BatchItem, len(req.FormIDs))
	eg, _ := errgroup.WithContext(r.Context())
	eg.SetLimit(4)

	for i, formID := range req.FormIDs {
		eg.Go(func() error {
			items[i].FormID = formID
			resp, err := s.generateOne(r, GenerateRequest{FormID: formID, AgentID: req.AgentID})
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].GenerateResponse = resp
			return nil
		})
	}
	_ = eg.Wait()

	s.jsonResponse(w, http.StatusOK, map[string]any{"items": items})
}

// generateOne loads the (form, agent) pair, runs the assembler and records
// the outcome. Assembly failures are recorded as failed generations, not
// dropped.
func (s *Server) generateOne(r *http.Request, req GenerateRequest) (*GenerateResponse, error) {
	ctx := r.Context()

	form, err := s.store.GetForm(ctx, req.FormID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, &ErrNotFound{Kind: "form", ID: req.FormID.String()}
	}

	agent, err := s.store.GetAgent(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, &ErrNotFound{Kind: "agent", ID: req.AgentID.String()}
	}
	if err := s.store.LoadAddendumPayloads(ctx, agent); err != nil {
		return nil, err
	}

	source, err := s.store.GetBlob(ctx, db.FormBlobKey(form.ID))
	if err != nil {
		return nil, err
	}

	result, genErr := s.assembler.Generate(ctx, assembly.Request{
		Form:   form,
		Agent:  agent,
		Source: source,
	})

	status := "done"
	if genErr != nil {
		status = "failed"
	}
	report, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	gen := &db.Generation{FormID: form.ID, AgentID: agent.ID, Status: status, Report: report}
	if err := s.store.CreateGeneration(ctx, gen); err != nil {
		return nil, err
	}
	if genErr == nil && len(result.Output) > 0 {
		if err := s.store.PutBlob(ctx, db.GenerationBlobKey(gen.ID), result.Output); err != nil {
			return nil, err
		}
	}

	if genErr != nil {
		return nil, &ErrValidation{Field: "source", Message: genErr.Error()}
	}
	return &GenerateResponse{ID: gen.ID, Status: status, Report: result}, nil
}

func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	var formID, agentID uuid.UUID
	if v := r.URL.Query().Get("form_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid form_id")
			return
		}
		formID = id
	}
	if v := r.URL.Query().Get("agent_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid agent_id")
			return
		}
		agentID = id
	}

	gens, err := s.store.ListGenerations(r.Context(), formID, agentID, 0)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if gens == nil {
		gens = []db.Generation{}
	}
	s.jsonResponse(w, http.StatusOK, gens)
}

func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	gen, ok := s.loadGeneration(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, gen)
}

// handleGetGenerationDocument streams the generated PDF.
func (s *Server) handleGetGenerationDocument(w http.ResponseWriter, r *http.Request) {
	gen, ok := s.loadGeneration(w, r)
	if !ok {
		return
	}

	data, err := s.store.GetBlob(r.Context(), db.GenerationBlobKey(gen.ID))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if data == nil {
		s.errResponse(w, &ErrNotFound{Kind: "generated document", ID: gen.ID.String()})
		return
	}

	fileName := "output.pdf"
	var report assembly.Result
	if json.Unmarshal(gen.Report, &report) == nil && report.FileName != "" {
		fileName = report.FileName
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) loadGeneration(w http.ResponseWriter, r *http.Request) (*db.Generation, bool) {
	genID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid generation ID")
		return nil, false
	}

	gen, err := s.store.GetGeneration(r.Context(), genID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if gen == nil {
		s.errResponse(w, &ErrNotFound{Kind: "generation", ID: genID.String()})
		return nil, false
	}
	return gen, true
}
