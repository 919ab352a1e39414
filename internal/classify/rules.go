package classify

import (
	"regexp"

	"github.com/jonathan/agent-registration/internal/types"
)

// sensitivePatterns are tested first, against both the normalized name and
// the leaf. A match classifies the field as skip and permanently excludes it
// from the consensus pass: tax identifiers, signatures, notarization and
// payment fields are entered by the operator directly on each form.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bssn\b`),
	regexp.MustCompile(`(?i)social\s*security`),
	regexp.MustCompile(`(?i)tax\s*(id|payer)`),
	regexp.MustCompile(`(?i)\bsignature\b`),
	regexp.MustCompile(`(?i)^sign$`),
	regexp.MustCompile(`(?i)date\s*signed`),
	regexp.MustCompile(`(?i)\bnotary\b`),
	regexp.MustCompile(`(?i)\bnotariz`),
	regexp.MustCompile(`(?i)\bsworn\b`),
	regexp.MustCompile(`(?i)\bwitness\b`),
	regexp.MustCompile(`(?i)\bseal\b`),
	regexp.MustCompile(`(?i)payment`),
	regexp.MustCompile(`(?i)\bfee\b`),
	regexp.MustCompile(`(?i)\bcheck\b.*no`),
	regexp.MustCompile(`(?i)money\s*order`),
	regexp.MustCompile(`(?i)\bamount`),
}

// tableRowRe detects repeating-row identifiers ("Row1_FullName",
// "EmployerTable.Line2.City").
var tableRowRe = regexp.MustCompile(`(?i)\b(row|line|item|entry)\s*\d+\b`)

// Markers used by the structural disambiguation tier.
var (
	birthMarkerRe = regexp.MustCompile(`(?i)\bbirth\b|\bborn\b`)
	dateMarkerRe  = regexp.MustCompile(`(?i)\bdate\b|\bdob\b`)
	placeMarkerRe = regexp.MustCompile(`(?i)\bplace\b|\bcity\b`)
	leafIsDateRe  = regexp.MustCompile(`(?i)^(date|dob|date of birth|birth date)$`)

	employerMarkerRe = regexp.MustCompile(`(?i)\bemployers?\b|\bbusiness\b|\bfirm\b|\bcompany\b`)
	historyMarkerRe  = regexp.MustCompile(`(?i)\bhistory\b|\bprevious\b|\bprior\b|\bformer\b|\bpast\b|ownership`)
	ownershipLeafRe  = regexp.MustCompile(`(?i)owner|officer|partner|shareholder|percent|\btitle\b|interest`)
)

// employerLeafRules resolve a current-employer table cell to the business
// attribute its leaf names.
var employerLeafRules = []struct {
	re     *regexp.Regexp
	target types.MappingTarget
}{
	{regexp.MustCompile(`(?i)\bname\b`), types.Attribute(types.AttrBusinessName)},
	{regexp.MustCompile(`(?i)street|address`), types.Attribute(types.AttrBusinessStreet)},
	{regexp.MustCompile(`(?i)\bcity\b`), types.Attribute(types.AttrBusinessCity)},
	{regexp.MustCompile(`(?i)\bstate\b`), types.Attribute(types.AttrBusinessState)},
	{regexp.MustCompile(`(?i)\bzip\b`), types.Attribute(types.AttrBusinessZip)},
	{regexp.MustCompile(`(?i)phone|telephone`), types.Attribute(types.AttrWorkPhone)},
	{regexp.MustCompile(`(?i)nature|type`), types.Attribute(types.AttrNatureOfBusiness)},
}

// addendumRule associates a pattern set with the addendum category whose
// vocabulary it describes.
type addendumRule struct {
	patterns []*regexp.Regexp
	kind     types.AddendumKind
}

// tableRowRules classify a repeating-row cell by the category vocabulary in
// its row or leaf.
var tableRowRules = []addendumRule{
	{compileAll(`owner`, `ownership`, `officer`, `partner`, `shareholder`, `percent`, `\btitle\b`, `interest`), types.AddendumFinancial},
	{compileAll(`employ`, `occupation`, `\bposition\b`, `dates?\s*(from|to|of)`, `\bfrom\b`, `\bto\b`), types.AddendumWorkHistory},
	{compileAll(`school`, `degree`, `institution`, `college`, `university`, `training`, `course`), types.AddendumFormalTraining},
	{compileAll(`athlete`, `client`, `student`, `player`), types.AddendumClientList},
	{compileAll(`reference`), types.AddendumReferences},
	{compileAll(`licen[sc]e`, `certificat`, `expir`, `\bstatus\b`, `issued`), types.AddendumLicenseHistory},
}

// addendumRules map whole-field vocabulary to addendum categories; first
// match wins. feeSchedule has no rule here: "fee" is sensitive vocabulary,
// so fee-schedule slots only enter a form via table rows or manual toggling.
var addendumRules = []addendumRule{
	{compileAll(`work\s*history`, `employment\s*(history|record)`, `previous\s*employers?`, `prior\s*employment`, `past\s*employment`), types.AddendumWorkHistory},
	{compileAll(`formal\s*training`, `\btraining\b`), types.AddendumFormalTraining},
	{compileAll(`practical\s*experience`, `\bexperience\b`), types.AddendumPracticalExp},
	{compileAll(`education`, `degrees?\s*(earned|held)`, `schools?\s*attended`), types.AddendumEducation},
	{compileAll(`client\s*list`, `athletes\s*represented`, `clients\s*represented`, `list\s*of\s*(athletes|clients)`), types.AddendumClientList},
	{compileAll(`\breferences?\b`), types.AddendumReferences},
	{compileAll(`financially\s*interested`, `financial\s*interest`, `interested\s*part(y|ies)`), types.AddendumFinancial},
	{compileAll(`licen[sc]e\s*history`, `registration\s*history`, `licensing\s*history`), types.AddendumLicenseHistory},
	{compileAll(`\battachments?\b`, `continuation\s*sheet`, `additional\s*(pages|sheets|information)`), types.AddendumOther},
}

// genericAddendumRe maps explicit see-attached vocabulary to the untyped
// addendum reference.
var genericAddendumRe = regexp.MustCompile(`(?i)see\s*attached|\baddendum\b`)

// attributeRule associates a pattern set with a direct-attribute or computed
// target. Rules are ordered most to least specific: qualified vocabulary
// ("business city") must win before bare catch-alls ("city").
type attributeRule struct {
	patterns []*regexp.Regexp
	target   types.MappingTarget
}

var attributeRules = []attributeRule{
	// Personal
	{compileAll(`first\s*name`, `fname`, `given\s*name`, `^first$`, `applicant\s*first`, `name.*first`), types.Attribute(types.AttrFirstName)},
	{compileAll(`middle\s*name`, `mname`, `^middle$`, `\bmi\b`, `m\.?i\.?$`, `middle\s*initial`, `name.*middle`), types.Attribute(types.AttrMiddleName)},
	{compileAll(`last\s*name`, `lname`, `surname`, `family\s*name`, `^last$`, `applicant\s*last`, `name.*last`), types.Attribute(types.AttrLastName)},
	{compileAll(`\bsuffix\b`, `name\s*suffix`), types.Attribute(types.AttrSuffix)},
	{compileAll(`full\s*name`, `^name$`, `applicant\s*name`, `agent\s*name`, `print\s*name`, `^name\s*of\s*(applicant|agent)`, `printed\s*name`, `^your\s*name`), types.Computed(types.ComputedFullName)},
	{compileAll(`date\s*of\s*birth`, `\bdob\b`, `birth\s*date`, `birthdate`, `\bborn\b.*date`), types.Computed(types.ComputedDOBFormatted)},
	{compileAll(`place\s*of\s*birth`, `birth\s*place`, `born\s*in`, `city.*birth`, `birth.*city.*state`), types.Computed(types.ComputedBirthPlace)},
	{compileAll(`birth\s*state`, `state\s*of\s*birth`), types.Attribute(types.AttrBirthState)},
	{compileAll(`birth\s*country`, `country\s*of\s*birth`), types.Attribute(types.AttrBirthCountry)},
	{compileAll(`birth\s*city`, `city\s*of\s*birth`), types.Attribute(types.AttrBirthCity)},

	// Home address, specific before generic
	{compileAll(`home\s*address`, `residential\s*address`, `mailing\s*address`, `street\s*address`, `address\s*line\s*1`, `address\s*1`, `^address$`, `^street$`, `home\s*street`, `residence\s*address`, `personal\s*address`, `current\s*address`, `address\s*line`), types.Attribute(types.AttrHomeStreet)},
	{compileAll(`home\s*city`, `residential\s*city`, `mailing\s*city`, `city\s*of\s*residence`), types.Attribute(types.AttrHomeCity)},
	{compileAll(`home\s*state`, `residential\s*state`, `mailing\s*state`, `state\s*of\s*residence`), types.Attribute(types.AttrHomeState)},
	{compileAll(`home\s*zip`, `residential\s*zip`, `mailing\s*zip`, `postal\s*code`, `zip\s*code`, `\bzip\b`), types.Attribute(types.AttrHomeZip)},
	{compileAll(`home\s*county`, `county\s*of\s*residence`, `residential\s*county`), types.Attribute(types.AttrHomeCounty)},

	// Contact. Mobile vocabulary must precede the home-phone rule: its bare
	// phone/telephone catch-alls would claim "Cell Phone" otherwise.
	{compileAll(`mobile`, `cell\s*phone`, `\bcell\b`, `cellular`), types.Attribute(types.AttrMobilePhone)},
	{compileAll(`home\s*phone`, `personal\s*phone`, `daytime\s*phone`, `phone\s*number`, `telephone\s*number`, `telephone`, `\bphone\b`, `\btel\b`, `contact\s*number`, `primary\s*phone`), types.Attribute(types.AttrHomePhone)},
	{compileAll(`e-?mail\s*address`, `personal\s*e-?mail`, `home\s*e-?mail`, `^e-?mail$`, `contact\s*e-?mail`, `applicant\s*e-?mail`), types.Attribute(types.AttrHomeEmail)},

	// Business
	{compileAll(`business\s*name`, `employer\s*name`, `firm\s*name`, `company\s*name`, `agency\s*name`, `entity\s*name`, `name\s*of\s*(business|employer|firm|company|agency|entity)`, `employing\s*firm`), types.Attribute(types.AttrBusinessName)},
	{compileAll(`\bdba\b`, `doing\s*business\s*as`, `trade\s*name`, `d\s*b\s*a`), types.Attribute(types.AttrDBA)},
	{compileAll(`nature\s*of\s*business`, `type\s*of\s*business`, `business\s*type`), types.Attribute(types.AttrNatureOfBusiness)},
	{compileAll(`business\s*address`, `business\s*street`, `employer\s*address`, `office\s*address`, `firm\s*address`, `company\s*address`), types.Attribute(types.AttrBusinessStreet)},
	{compileAll(`business\s*city`, `employer\s*city`, `office\s*city`), types.Attribute(types.AttrBusinessCity)},
	{compileAll(`business\s*state`, `employer\s*state`, `office\s*state`), types.Attribute(types.AttrBusinessState)},
	{compileAll(`business\s*zip`, `employer\s*zip`, `office\s*zip`), types.Attribute(types.AttrBusinessZip)},
	{compileAll(`business\s*county`, `employer\s*county`), types.Attribute(types.AttrBusinessCounty)},
	{compileAll(`work\s*phone`, `business\s*phone`, `office\s*phone`, `employer\s*phone`, `bus.*phone`), types.Attribute(types.AttrWorkPhone)},
	{compileAll(`\bfax\b`, `fax\s*number`, `facsimile`, `fax\s*#`), types.Attribute(types.AttrFax)},
	{compileAll(`work\s*e-?mail`, `business\s*e-?mail`, `office\s*e-?mail`, `employer\s*e-?mail`), types.Attribute(types.AttrWorkEmail)},
	{compileAll(`business\s*web`, `company\s*web`, `website`, `web\s*address`, `url`), types.Attribute(types.AttrBusinessWeb)},
	{compileAll(`registration\s*no`, `license\s*no`, `reg\s*#`, `license\s*#`, `registration\s*number`, `license\s*number`, `cert.*number`, `certificate\s*no`), types.Attribute(types.AttrRegistrationNo)},

	// Registrations
	{compileAll(`states?\s*registered`, `other\s*states?`, `jurisdictions?`, `states?\s*licensed`, `registered\s*in`), types.Attribute(types.AttrCurrentRegs)},

	// Bare catch-alls, matched last so qualified vocabulary wins
	{compileAll(`^city$`), types.Attribute(types.AttrHomeCity)},
	{compileAll(`^state$`), types.Attribute(types.AttrHomeState)},
}

// genericTargets are the easily-misattributed targets the consensus pass may
// override when enough neighbors agree: flat forms reuse labels like
// "Address" or "Phone" inside what is conceptually an addendum block.
var genericTargets = map[string]bool{
	types.Computed(types.ComputedFullName).String():        true,
	types.Computed(types.ComputedHomeAddressFull).String(): true,
	types.Attribute(types.AttrHomeStreet).String():         true,
	types.Attribute(types.AttrHomeCity).String():           true,
	types.Attribute(types.AttrHomeState).String():          true,
	types.Attribute(types.AttrHomeZip).String():            true,
	types.Attribute(types.AttrHomeCounty).String():         true,
	types.Attribute(types.AttrHomePhone).String():          true,
	types.Attribute(types.AttrHomeEmail).String():          true,
	types.Attribute(types.AttrMobilePhone).String():        true,
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}

func matchAny(res []*regexp.Regexp, candidates ...string) bool {
	for _, re := range res {
		for _, c := range candidates {
			if re.MatchString(c) {
				return true
			}
		}
	}
	return false
}
