package types

// DatasetVersion is the current export format version.
const DatasetVersion = 1

// Dataset is the portable export of everything the service stores except raw
// document bytes. Addendum payloads and form PDFs are stripped on export, so
// imported forms are flagged NeedsReupload and imported addendum entries keep
// only their names.
type Dataset struct {
	Version int                `json:"version"`
	Agents  []Agent            `json:"agents"`
	Forms   []RegistrationForm `json:"forms"`
}
