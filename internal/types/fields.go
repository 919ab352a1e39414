// Package types provides type definitions for structured data used throughout the agent registration system.
package types

// FieldKind identifies the widget type of a detected form field.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldCheckBox FieldKind = "checkbox"
	FieldDropdown FieldKind = "dropdown"
	FieldOther    FieldKind = "other"
)

// FieldDescriptor describes one fillable field detected in a source form.
// Descriptors are produced by the PDF backend and never mutated afterwards.
type FieldDescriptor struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
}
