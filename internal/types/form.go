package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MappingEntry is the classification outcome for one field plus its
// provenance. Manual entries are operator overrides and are never replaced
// by a re-run of the automatic classifier.
type MappingEntry struct {
	Target MappingTarget `json:"target"`
	Manual bool          `json:"manual,omitempty"`
}

// FieldMapping maps detected field names to their mapping entries.
type FieldMapping map[string]MappingEntry

// OverlayPlacement is a manually positioned piece of text drawn onto a page
// at fixed coordinates, used when a form has no fillable fields. Coordinates
// are in page space with the origin at the bottom-left corner.
type OverlayPlacement struct {
	Page       int           `json:"page" validate:"min=1"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Target     MappingTarget `json:"target"`
	CustomText string        `json:"custom_text,omitempty"`
	FontSize   float64       `json:"font_size"`
	Label      string        `json:"label,omitempty"`
}

// Validate validates the placement using the validator.
func (p *OverlayPlacement) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// RegistrationForm is one uploaded state form: its raw bytes (held in the
// blob store, not here), the fields detected in it, the field mapping, and
// the addendum slots the form requires. AddendumSlots keeps first-seen
// order; ordinal numbering of addendums derives from it.
type RegistrationForm struct {
	ID             uuid.UUID          `json:"id"`
	StateName      string             `json:"state_name"`
	FormLabel      string             `json:"form_label"`
	FileName       string             `json:"file_name"`
	PageCount      int                `json:"page_count"`
	Fieldable      bool               `json:"fieldable"`
	NeedsReupload  bool               `json:"needs_reupload,omitempty"`
	DetectedFields []FieldDescriptor  `json:"detected_fields,omitempty"`
	Mappings       FieldMapping       `json:"mappings,omitempty"`
	AddendumSlots  []AddendumKind     `json:"addendum_slots,omitempty"`
	Placements     []OverlayPlacement `json:"placements,omitempty"`
	CreatedAt      time.Time          `json:"created_at,omitzero"`
	UpdatedAt      time.Time          `json:"updated_at,omitzero"`
}

// HasField reports whether the form detected a field with the given name.
func (f *RegistrationForm) HasField(name string) bool {
	for _, d := range f.DetectedFields {
		if d.Name == name {
			return true
		}
	}
	return false
}

// HasSlot reports whether the form already requires the given addendum kind.
func (f *RegistrationForm) HasSlot(kind AddendumKind) bool {
	for _, s := range f.AddendumSlots {
		if s == kind {
			return true
		}
	}
	return false
}

// MappedCount returns the number of fields mapped to a non-skip target.
func (f *RegistrationForm) MappedCount() int {
	n := 0
	for _, e := range f.Mappings {
		if !e.Target.IsSkip() {
			n++
		}
	}
	return n
}
