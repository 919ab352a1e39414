package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Agent is one registered person/entity profile. Attribute values are plain
// strings; DOB is stored as YYYY-MM-DD. The classification and assembly core
// consumes agents read-only.
type Agent struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName" validate:"required,min=1"`
	MiddleName   string    `json:"middleName,omitempty"`
	LastName     string    `json:"lastName" validate:"required,min=1"`
	Suffix       string    `json:"suffix,omitempty"`
	DOB          string    `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BirthCity    string    `json:"birthCity,omitempty"`
	BirthState   string    `json:"birthState,omitempty"`
	BirthCountry string    `json:"birthCountry,omitempty"`

	HomeStreet string `json:"homeStreet,omitempty"`
	HomeCity   string `json:"homeCity,omitempty"`
	HomeState  string `json:"homeState,omitempty"`
	HomeZip    string `json:"homeZip,omitempty"`
	HomeCounty string `json:"homeCounty,omitempty"`

	HomePhone         string `json:"homePhone,omitempty"`
	MobilePhone       string `json:"mobilePhone,omitempty"`
	HomeEmail         string `json:"homeEmail,omitempty" validate:"omitempty,email"`
	PersonalWebSocial string `json:"personalWebSocial,omitempty"`

	BusinessName      string `json:"businessName,omitempty"`
	DBA               string `json:"dba,omitempty"`
	NatureOfBusiness  string `json:"natureOfBusiness,omitempty"`
	BusinessStreet    string `json:"businessStreet,omitempty"`
	BusinessCity      string `json:"businessCity,omitempty"`
	BusinessState     string `json:"businessState,omitempty"`
	BusinessZip       string `json:"businessZip,omitempty"`
	BusinessCounty    string `json:"businessCounty,omitempty"`
	WorkPhone         string `json:"workPhone,omitempty"`
	Fax               string `json:"fax,omitempty"`
	WorkEmail         string `json:"workEmail,omitempty" validate:"omitempty,email"`
	BusinessWebSocial string `json:"businessWebSocial,omitempty"`
	RegistrationNo    string `json:"registrationNo,omitempty"`

	CurrentRegistrations string `json:"currentRegistrations,omitempty"`
	CertDetails          string `json:"certDetails,omitempty"`

	Addendums map[AddendumKind]Addendum `json:"addendums,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Addendum is one uploaded supplemental document attached to an agent.
// Bytes may be empty after an export/import round trip; such entries need
// a re-upload before they can be merged.
type Addendum struct {
	Name  string `json:"name"`
	Bytes []byte `json:"bytes,omitempty"`
}

// Validate validates the agent profile using the validator.
func (a *Agent) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

// Attribute returns the stored string for one profile attribute, or "" when
// the attribute is unset or unknown.
func (a *Agent) Attribute(key AttributeKey) string {
	switch key {
	case AttrFirstName:
		return a.FirstName
	case AttrMiddleName:
		return a.MiddleName
	case AttrLastName:
		return a.LastName
	case AttrSuffix:
		return a.Suffix
	case AttrDOB:
		return a.DOB
	case AttrBirthCity:
		return a.BirthCity
	case AttrBirthState:
		return a.BirthState
	case AttrBirthCountry:
		return a.BirthCountry
	case AttrHomeStreet:
		return a.HomeStreet
	case AttrHomeCity:
		return a.HomeCity
	case AttrHomeState:
		return a.HomeState
	case AttrHomeZip:
		return a.HomeZip
	case AttrHomeCounty:
		return a.HomeCounty
	case AttrHomePhone:
		return a.HomePhone
	case AttrMobilePhone:
		return a.MobilePhone
	case AttrHomeEmail:
		return a.HomeEmail
	case AttrPersonalWeb:
		return a.PersonalWebSocial
	case AttrBusinessName:
		return a.BusinessName
	case AttrDBA:
		return a.DBA
	case AttrNatureOfBusiness:
		return a.NatureOfBusiness
	case AttrBusinessStreet:
		return a.BusinessStreet
	case AttrBusinessCity:
		return a.BusinessCity
	case AttrBusinessState:
		return a.BusinessState
	case AttrBusinessZip:
		return a.BusinessZip
	case AttrBusinessCounty:
		return a.BusinessCounty
	case AttrWorkPhone:
		return a.WorkPhone
	case AttrFax:
		return a.Fax
	case AttrWorkEmail:
		return a.WorkEmail
	case AttrBusinessWeb:
		return a.BusinessWebSocial
	case AttrRegistrationNo:
		return a.RegistrationNo
	case AttrCurrentRegs:
		return a.CurrentRegistrations
	case AttrCertDetails:
		return a.CertDetails
	default:
		return ""
	}
}

// DisplayName returns the agent's name for lists and filenames.
func (a *Agent) DisplayName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.LastName != "":
		return a.LastName
	case a.FirstName != "":
		return a.FirstName
	default:
		return "agent"
	}
}
