package classify

import (
	"testing"

	"github.com/jonathan/agent-registration/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCascadeTargetAttributes(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected types.MappingTarget
	}{
		{"First name", "First Name", types.Attribute(types.AttrFirstName)},
		{"First name camelCase", "applicantFirstName", types.Attribute(types.AttrFirstName)},
		{"Last name", "Last_Name", types.Attribute(types.AttrLastName)},
		{"Surname", "Surname", types.Attribute(types.AttrLastName)},
		{"Full name", "Printed Name", types.Computed(types.ComputedFullName)},
		{"Date of birth", "Date of Birth", types.Computed(types.ComputedDOBFormatted)},
		{"Place of birth", "Place of Birth", types.Computed(types.ComputedBirthPlace)},
		{"Home address", "Home Address", types.Attribute(types.AttrHomeStreet)},
		{"Bare address", "Address", types.Attribute(types.AttrHomeStreet)},
		{"Zip code", "Zip Code", types.Attribute(types.AttrHomeZip)},
		{"Phone", "Telephone Number", types.Attribute(types.AttrHomePhone)},
		{"Mobile", "Cell Phone", types.Attribute(types.AttrMobilePhone)},
		{"Mobile beats bare phone", "Mobile Phone Number", types.Attribute(types.AttrMobilePhone)},
		{"Email", "Email", types.Attribute(types.AttrHomeEmail)},
		{"Business name", "Name of Employer", types.Attribute(types.AttrBusinessName)},
		{"Business city beats bare city", "Business City", types.Attribute(types.AttrBusinessCity)},
		{"Bare city catch-all", "City", types.Attribute(types.AttrHomeCity)},
		{"Bare state catch-all", "State", types.Attribute(types.AttrHomeState)},
		{"Fax", "FAX #", types.Attribute(types.AttrFax)},
		{"Registration number", "License No.", types.Attribute(types.AttrRegistrationNo)},
		{"States registered", "Other States Registered", types.Attribute(types.AttrCurrentRegs)},
		{"Website", "Business Website", types.Attribute(types.AttrBusinessWeb)},
		{"DBA", "DBA", types.Attribute(types.AttrDBA)},
		{"Unmatched defaults to skip", "Question 17", types.Skip()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CascadeTarget(tt.field))
		})
	}
}

func TestCascadeTargetSensitive(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{"SSN", "SSN"},
		{"Social security", "Social Security Number"},
		{"Tax id", "Tax ID Number"},
		{"Signature", "Applicant Signature"},
		{"Date signed", "Date Signed"},
		{"Notary", "Notary Public"},
		{"Fee", "Application Fee"},
		{"Amount", "Amount Enclosed"},
		{"Sensitive beats addendum vocabulary", "SSN_or_Signature_Table_Row1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, types.Skip(), CascadeTarget(tt.field))
			assert.True(t, Sensitive(tt.field), "field should be flagged sensitive")
		})
	}
}

func TestCascadeTargetAddendumVocabulary(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected types.MappingTarget
	}{
		{"Work history", "Employment History", types.TypedAddendum(types.AddendumWorkHistory)},
		{"Previous employers", "List Previous Employers", types.TypedAddendum(types.AddendumWorkHistory)},
		{"Formal training", "Formal Training", types.TypedAddendum(types.AddendumFormalTraining)},
		{"Practical experience", "Practical Experience", types.TypedAddendum(types.AddendumPracticalExp)},
		{"Education", "Educational Background", types.TypedAddendum(types.AddendumEducation)},
		{"Client list", "Athletes Represented", types.TypedAddendum(types.AddendumClientList)},
		{"References", "References", types.TypedAddendum(types.AddendumReferences)},
		{"Financial parties", "Financially Interested Parties", types.TypedAddendum(types.AddendumFinancial)},
		{"License history", "License History", types.TypedAddendum(types.AddendumLicenseHistory)},
		{"Generic see-attached", "If yes, see attached explanation", types.GenericAddendum()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CascadeTarget(tt.field))
		})
	}
}

func TestCascadeTargetTableRows(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected types.MappingTarget
	}{
		{"Ownership row", "Row1_PercentOwned", types.TypedAddendum(types.AddendumFinancial)},
		{"Officer title row", "OfficersRow2.Title", types.TypedAddendum(types.AddendumFinancial)},
		{"Occupation row", "Row2_Occupation", types.TypedAddendum(types.AddendumWorkHistory)},
		{"School row", "Line1_SchoolName", types.TypedAddendum(types.AddendumFormalTraining)},
		{"Client row", "Row3_AthleteName", types.TypedAddendum(types.AddendumClientList)},
		{"Reference row", "Row1_ReferenceName", types.TypedAddendum(types.AddendumReferences)},
		{"License status row", "Row4_Status", types.TypedAddendum(types.AddendumLicenseHistory)},
		{"Unrecognized row cell is rescuable skip", "Row1_FullName", types.Skip()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CascadeTarget(tt.field))
		})
	}
}

func TestCascadeTargetDisambiguation(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected types.MappingTarget
	}{
		{"Birth block date leaf", "DateAndPlaceOfBirth.Date", types.Computed(types.ComputedDOBFormatted)},
		{"Birth block city leaf", "DateAndPlaceOfBirth.City", types.Computed(types.ComputedBirthPlace)},
		{"Current employer name cell", "EmployerRow1.Name", types.Attribute(types.AttrBusinessName)},
		{"Current employer city cell", "EmployerRow1.City", types.Attribute(types.AttrBusinessCity)},
		{"Current employer phone cell", "EmployerRow1.Phone", types.Attribute(types.AttrWorkPhone)},
		{"Historical employer row", "PreviousEmployersRow1.Name", types.TypedAddendum(types.AddendumWorkHistory)},
		{"Business ownership leaf", "BusinessRow1.PercentInterest", types.TypedAddendum(types.AddendumFinancial)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CascadeTarget(tt.field))
		})
	}
}

func TestCascadeDeterminism(t *testing.T) {
	fields := []string{"First Name", "SSN", "Row1_ReferenceName", "Address", "Business City"}
	for _, f := range fields {
		first := CascadeTarget(f)
		second := CascadeTarget(f)
		assert.Equal(t, first, second, "cascade should be deterministic for %q", f)
	}
}
