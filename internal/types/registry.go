package types

// AttributeKey names one directly stored agent profile attribute.
type AttributeKey string

// Profile attributes, grouped the way the intake form groups them.
const (
	AttrFirstName        AttributeKey = "firstName"
	AttrMiddleName       AttributeKey = "middleName"
	AttrLastName         AttributeKey = "lastName"
	AttrSuffix           AttributeKey = "suffix"
	AttrDOB              AttributeKey = "dob"
	AttrBirthCity        AttributeKey = "birthCity"
	AttrBirthState       AttributeKey = "birthState"
	AttrBirthCountry     AttributeKey = "birthCountry"
	AttrHomeStreet       AttributeKey = "homeStreet"
	AttrHomeCity         AttributeKey = "homeCity"
	AttrHomeState        AttributeKey = "homeState"
	AttrHomeZip          AttributeKey = "homeZip"
	AttrHomeCounty       AttributeKey = "homeCounty"
	AttrHomePhone        AttributeKey = "homePhone"
	AttrMobilePhone      AttributeKey = "mobilePhone"
	AttrHomeEmail        AttributeKey = "homeEmail"
	AttrPersonalWeb      AttributeKey = "personalWebSocial"
	AttrBusinessName     AttributeKey = "businessName"
	AttrDBA              AttributeKey = "dba"
	AttrNatureOfBusiness AttributeKey = "natureOfBusiness"
	AttrBusinessStreet   AttributeKey = "businessStreet"
	AttrBusinessCity     AttributeKey = "businessCity"
	AttrBusinessState    AttributeKey = "businessState"
	AttrBusinessZip      AttributeKey = "businessZip"
	AttrBusinessCounty   AttributeKey = "businessCounty"
	AttrWorkPhone        AttributeKey = "workPhone"
	AttrFax              AttributeKey = "fax"
	AttrWorkEmail        AttributeKey = "workEmail"
	AttrBusinessWeb      AttributeKey = "businessWebSocial"
	AttrRegistrationNo   AttributeKey = "registrationNo"
	AttrCurrentRegs      AttributeKey = "currentRegistrations"
	AttrCertDetails      AttributeKey = "certDetails"
)

// AttributeMeta carries the display metadata for one profile attribute.
type AttributeMeta struct {
	Key   AttributeKey `json:"key"`
	Label string       `json:"label"`
	Group string       `json:"group"`
}

// Attributes lists every profile attribute in intake-form order.
var Attributes = []AttributeMeta{
	{AttrFirstName, "First Name", "Personal"},
	{AttrMiddleName, "Middle Name", "Personal"},
	{AttrLastName, "Last Name", "Personal"},
	{AttrSuffix, "Suffix (Jr/Sr/III)", "Personal"},
	{AttrDOB, "Date of Birth", "Personal"},
	{AttrBirthCity, "City of Birth", "Personal"},
	{AttrBirthState, "State of Birth", "Personal"},
	{AttrBirthCountry, "Country of Birth", "Personal"},
	{AttrHomeStreet, "Street Address", "Home Address"},
	{AttrHomeCity, "City", "Home Address"},
	{AttrHomeState, "State", "Home Address"},
	{AttrHomeZip, "Zip", "Home Address"},
	{AttrHomeCounty, "County", "Home Address"},
	{AttrHomePhone, "Home Phone", "Contact"},
	{AttrMobilePhone, "Mobile Phone", "Contact"},
	{AttrHomeEmail, "Home Email", "Contact"},
	{AttrPersonalWeb, "Personal Websites / Social", "Contact"},
	{AttrBusinessName, "Business Name", "Business"},
	{AttrDBA, "DBA", "Business"},
	{AttrNatureOfBusiness, "Nature of Business", "Business"},
	{AttrBusinessStreet, "Business Street Address", "Business"},
	{AttrBusinessCity, "Business City", "Business"},
	{AttrBusinessState, "Business State", "Business"},
	{AttrBusinessZip, "Business Zip", "Business"},
	{AttrBusinessCounty, "Business County", "Business"},
	{AttrWorkPhone, "Work Phone", "Business"},
	{AttrFax, "FAX", "Business"},
	{AttrWorkEmail, "Work Email", "Business"},
	{AttrBusinessWeb, "Business Websites / Social", "Business"},
	{AttrRegistrationNo, "Registration No.", "Business"},
	{AttrCurrentRegs, "States Registered", "Registrations"},
	{AttrCertDetails, "Certification Details", "Registrations"},
}

// KnownAttribute reports whether k is one of the fixed profile attributes.
func KnownAttribute(k AttributeKey) bool {
	for _, m := range Attributes {
		if m.Key == k {
			return true
		}
	}
	return false
}

// ComputedKey names a value derived from several profile attributes.
type ComputedKey string

const (
	ComputedFullName          ComputedKey = "fullName"
	ComputedFullNameLastFirst ComputedKey = "fullNameLastFirst"
	ComputedHomeAddressFull   ComputedKey = "homeAddressFull"
	ComputedBizAddressFull    ComputedKey = "businessAddressFull"
	ComputedBirthPlace        ComputedKey = "birthPlace"
	ComputedDOBFormatted      ComputedKey = "dobFormatted"
)

// ComputedLabels maps computed keys to their display labels.
var ComputedLabels = map[ComputedKey]string{
	ComputedFullName:          "Full Name (First Middle Last)",
	ComputedFullNameLastFirst: "Full Name (Last, First Middle)",
	ComputedHomeAddressFull:   "Full Home Address (one line)",
	ComputedBizAddressFull:    "Full Business Address (one line)",
	ComputedBirthPlace:        "Birth Place (City, State, Country)",
	ComputedDOBFormatted:      "DOB (MM/DD/YYYY)",
}

// KnownComputed reports whether k is one of the fixed computed keys.
func KnownComputed(k ComputedKey) bool {
	_, ok := ComputedLabels[k]
	return ok
}

// AddendumKind names a category of supplemental document an agent may attach.
type AddendumKind string

const (
	AddendumWorkHistory     AddendumKind = "workHistory"
	AddendumFormalTraining  AddendumKind = "formalTraining"
	AddendumPracticalExp    AddendumKind = "practicalExp"
	AddendumEducation       AddendumKind = "education"
	AddendumClientList      AddendumKind = "clientList"
	AddendumReferences      AddendumKind = "references"
	AddendumFinancial       AddendumKind = "financialParties"
	AddendumLicenseHistory  AddendumKind = "licenseHistory"
	AddendumFeeSchedule     AddendumKind = "feeSchedule"
	AddendumOther           AddendumKind = "other"
)

// AddendumKinds lists every addendum kind in its canonical order. The order
// is load-bearing: it breaks consensus-pass ties deterministically.
var AddendumKinds = []AddendumKind{
	AddendumWorkHistory,
	AddendumFormalTraining,
	AddendumPracticalExp,
	AddendumEducation,
	AddendumClientList,
	AddendumReferences,
	AddendumFinancial,
	AddendumLicenseHistory,
	AddendumFeeSchedule,
	AddendumOther,
}

// AddendumLabels maps addendum kinds to their display labels.
var AddendumLabels = map[AddendumKind]string{
	AddendumWorkHistory:    "Employment / Work History",
	AddendumFormalTraining: "Formal Training",
	AddendumPracticalExp:   "Practical Experience",
	AddendumEducation:      "Educational Background",
	AddendumClientList:     "Client List (Athletes Represented)",
	AddendumReferences:     "References",
	AddendumFinancial:      "Financially Interested Parties",
	AddendumLicenseHistory: "License / Registration History",
	AddendumFeeSchedule:    "Fee Schedule",
	AddendumOther:          "Other",
}

// KnownAddendumKind reports whether k is one of the fixed addendum kinds.
func KnownAddendumKind(k AddendumKind) bool {
	_, ok := AddendumLabels[k]
	return ok
}

// AddendumKindRank returns k's index in the canonical order, or len(AddendumKinds)
// for unknown kinds so they sort last.
func AddendumKindRank(k AddendumKind) int {
	for i, kind := range AddendumKinds {
		if kind == k {
			return i
		}
	}
	return len(AddendumKinds)
}
