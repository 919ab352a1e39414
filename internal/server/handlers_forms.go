package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/agent-registration/internal/classify"
	"github.com/jonathan/agent-registration/internal/db"
	"github.com/jonathan/agent-registration/internal/overlay"
	"github.com/jonathan/agent-registration/internal/types"
)

// ---------------------------------------------------------------------
// Form Handlers
// ---------------------------------------------------------------------

// handleCreateForm accepts a multipart upload with a "file" part plus
// "state_name" and optional "form_label" fields. The PDF is parsed for
// fillable fields and classified immediately.
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUpload(r)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	stateName := r.FormValue("state_name")
	if stateName == "" {
		s.errResponse(w, &ErrValidation{Field: "state_name", Message: "state_name is required"})
		return
	}

	form := &types.RegistrationForm{
		StateName: stateName,
		FormLabel: r.FormValue("form_label"),
		FileName:  name,
	}
	if err := s.inspectSource(form, data); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Could not read PDF: "+err.Error())
		return
	}

	if err := s.store.CreateForm(r.Context(), form); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if err := s.store.PutBlob(r.Context(), db.FormBlobKey(form.ID), data); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, form)
}

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.store.ListForms(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if forms == nil {
		forms = []types.RegistrationForm{}
	}
	s.jsonResponse(w, http.StatusOK, forms)
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, form)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	formID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid form ID")
		return
	}

	if err := s.store.DeleteForm(r.Context(), formID); err != nil {
		if err.Error() == "form not found: "+formID.String() {
			s.errResponse(w, &ErrNotFound{Kind: "form", ID: formID.String()})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReuploadForm replaces a form's source bytes, re-detects its fields
// and re-classifies them while keeping manual mapping entries.
func (s *Server) handleReuploadForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}

	name, data, err := s.readUpload(r)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	form.FileName = name
	if err := s.inspectSource(form, data); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Could not read PDF: "+err.Error())
		return
	}
	form.NeedsReupload = false

	if err := s.store.PutBlob(r.Context(), db.FormBlobKey(form.ID), data); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, form)
}

// handleClassifyForm re-runs the automatic classifier over the form's
// detected fields. Manual mapping entries survive the re-run untouched.
func (s *Server) handleClassifyForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}

	s.classifyForm(form)
	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, form)
}

// SetMappingRequest is the manual override payload for one field.
type SetMappingRequest struct {
	Target string `json:"target"`
}

// handleSetMapping sets a manual mapping for one detected field. Manual
// entries win over any later automatic re-classification.
func (s *Server) handleSetMapping(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}

	field := r.PathValue("field")
	if !form.HasField(field) {
		s.errResponse(w, &ErrNotFound{Kind: "field", ID: field})
		return
	}

	var req SetMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	target, err := types.ParseTarget(req.Target)
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "target", Message: err.Error()})
		return
	}

	if form.Mappings == nil {
		form.Mappings = types.FieldMapping{}
	}
	form.Mappings[field] = types.MappingEntry{Target: target, Manual: true}

	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, form.Mappings[field])
}

// SetSlotsRequest replaces a form's addendum slot list. Kinds still
// referenced by a typed-addendum mapping cannot be removed; they are unioned
// back in so the slot list stays a superset of the mapped kinds.
type SetSlotsRequest struct {
	Slots []types.AddendumKind `json:"slots"`
}

func (s *Server) handleSetSlots(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}

	var req SetSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for _, kind := range req.Slots {
		if !types.KnownAddendumKind(kind) {
			s.errResponse(w, &ErrUnknownKind{Kind: string(kind)})
			return
		}
	}

	slots := make([]types.AddendumKind, 0, len(req.Slots))
	seen := map[types.AddendumKind]bool{}
	for _, kind := range req.Slots {
		if !seen[kind] {
			seen[kind] = true
			slots = append(slots, kind)
		}
	}
	for _, kind := range mappedKinds(form) {
		if !seen[kind] {
			seen[kind] = true
			slots = append(slots, kind)
		}
	}

	form.AddendumSlots = slots
	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, form)
}

// SetPlacementsRequest replaces a form's overlay placements. When PixelSpace
// is set, the coordinates come from a rendered page preview and are converted
// to page space before storing.
type SetPlacementsRequest struct {
	Placements []types.OverlayPlacement `json:"placements"`
	PixelSpace *PixelSpace              `json:"pixel_space,omitempty"`
}

// PixelSpace describes the preview the placement coordinates were picked in.
type PixelSpace struct {
	Scale      float64 `json:"scale"`
	PageHeight float64 `json:"page_height"`
}

func (s *Server) handleSetPlacements(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}

	var req SetPlacementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for i := range req.Placements {
		if err := req.Placements[i].Validate(); err != nil {
			s.errResponse(w, &ErrValidation{Field: "placements", Message: err.Error()})
			return
		}
	}
	if req.PixelSpace != nil {
		if req.PixelSpace.PageHeight <= 0 {
			s.errResponse(w, &ErrValidation{Field: "pixel_space", Message: "page_height must be positive"})
			return
		}
		tr := overlay.NewTransform(req.PixelSpace.Scale, req.PixelSpace.PageHeight)
		for i := range req.Placements {
			p := &req.Placements[i]
			p.X, p.Y = tr.ToPage(p.X, p.Y)
		}
	}

	form.Placements = req.Placements
	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, form)
}

// ---------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------

// loadForm fetches the form named by the path ID, writing the error
// response itself when the ID is bad or the form is missing.
func (s *Server) loadForm(w http.ResponseWriter, r *http.Request) (*types.RegistrationForm, bool) {
	formID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid form ID")
		return nil, false
	}

	form, err := s.store.GetForm(r.Context(), formID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if form == nil {
		s.errResponse(w, &ErrNotFound{Kind: "form", ID: formID.String()})
		return nil, false
	}
	return form, true
}

// inspectSource fills the form's page count, detected fields and automatic
// classification from raw PDF bytes.
func (s *Server) inspectSource(form *types.RegistrationForm, data []byte) error {
	pages, err := s.backend.PageCount(data)
	if err != nil {
		return err
	}
	fields, err := s.backend.ParseFields(data)
	if err != nil {
		return err
	}

	form.PageCount = pages
	form.DetectedFields = fields
	form.Fieldable = len(fields) > 0
	s.classifyForm(form)
	return nil
}

// classifyForm runs the cascade/consensus classifier over the form's
// detected fields, preserving manual entries and re-deriving slots from the
// merged mapping.
func (s *Server) classifyForm(form *types.RegistrationForm) {
	result := classify.Classify(form.DetectedFields, s.consensus)

	merged := result.Mappings
	manualAttrs := map[types.AttributeKey]bool{}
	for name, entry := range form.Mappings {
		if !entry.Manual {
			continue
		}
		merged[name] = entry
		if entry.Target.Kind == types.TargetAttribute {
			manualAttrs[entry.Target.Attribute] = true
		}
	}
	// An attribute held by a manual entry stays unique: automatic entries
	// that landed on the same attribute degrade to skip.
	for name, entry := range merged {
		if entry.Manual || entry.Target.Kind != types.TargetAttribute {
			continue
		}
		if manualAttrs[entry.Target.Attribute] {
			merged[name] = types.MappingEntry{Target: types.Skip()}
		}
	}

	// Slots in the current list with no mapped field were toggled by hand;
	// they survive re-classification the same way manual entries do.
	derived := map[types.AddendumKind]bool{}
	for _, entry := range form.Mappings {
		if entry.Target.Kind == types.TargetTypedAddendum {
			derived[entry.Target.Addendum] = true
		}
	}
	var manualSlots []types.AddendumKind
	for _, kind := range form.AddendumSlots {
		if !derived[kind] {
			manualSlots = append(manualSlots, kind)
		}
	}

	form.Mappings = merged

	// Slots derive from the merged mapping in detected-field order so a
	// manual typed-addendum override creates its slot too.
	var slots []types.AddendumKind
	seen := map[types.AddendumKind]bool{}
	for _, f := range form.DetectedFields {
		entry, ok := merged[f.Name]
		if !ok || entry.Target.Kind != types.TargetTypedAddendum {
			continue
		}
		if !seen[entry.Target.Addendum] {
			seen[entry.Target.Addendum] = true
			slots = append(slots, entry.Target.Addendum)
		}
	}
	for _, kind := range manualSlots {
		if !seen[kind] {
			seen[kind] = true
			slots = append(slots, kind)
		}
	}
	form.AddendumSlots = slots
}

// mappedKinds lists the addendum kinds the form's mapping references, in
// detected-field order.
func mappedKinds(form *types.RegistrationForm) []types.AddendumKind {
	var kinds []types.AddendumKind
	seen := map[types.AddendumKind]bool{}
	for _, f := range form.DetectedFields {
		entry, ok := form.Mappings[f.Name]
		if !ok || entry.Target.Kind != types.TargetTypedAddendum {
			continue
		}
		if !seen[entry.Target.Addendum] {
			seen[entry.Target.Addendum] = true
			kinds = append(kinds, entry.Target.Addendum)
		}
	}
	return kinds
}
