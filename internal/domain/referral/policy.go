package referral

import (
	"fmt"
	"strings"
)

// Evaluate inspects extracted data and returns the list of gaps that block
// processing plus one recommended action per unresolved category. It is pure
// and never fails: an empty ExtractedData yields the maximal gap list.
//
// Ordering is significant. Insurance blocks all downstream workflow, so its
// gap and its next step always come first; the rest follow in decreasing
// severity: delivery address, patient identity, supplies, physician NPI,
// physician call-back contact, diagnosis codes. A stat or urgent referral
// gets an expedite step right after the insurance one.
func Evaluate(data ExtractedData) (missing []string, nextSteps []string) {
	missing = []string{}
	nextSteps = []string{}

	if data.InsuranceName == "" {
		missing = append(missing, "insurance information missing")
		nextSteps = append(nextSteps, "Verify insurance: call patient to obtain payer and member ID")
	} else if data.PolicyNumber == "" {
		// Member ID is a sub-gap of the insurance category; only flagged
		// once a carrier was identified.
		missing = append(missing, "insurance member/policy ID missing")
		nextSteps = append(nextSteps, fmt.Sprintf("Verify %s eligibility and obtain member ID", data.InsuranceName))
	}

	if data.Expedited() {
		nextSteps = append(nextSteps, fmt.Sprintf("Expedite: %s delivery requested, prioritize this order", data.Urgency))
	}

	if data.DeliveryAddress == "" {
		missing = append(missing, "delivery address missing")
		nextSteps = append(nextSteps, "Request delivery address from patient")
	}

	if data.PatientName == "" {
		missing = append(missing, "patient name missing")
		nextSteps = append(nextSteps, "Confirm patient identity with referring office")
	}
	if data.DateOfBirth == "" {
		missing = append(missing, "date of birth missing")
		nextSteps = append(nextSteps, "Obtain patient date of birth")
	}

	if len(data.SuppliesRequested) == 0 {
		missing = append(missing, "no supplies listed")
		nextSteps = append(nextSteps, "Contact referring physician to confirm supplies needed")
	}

	if data.PhysicianNPI == "" {
		missing = append(missing, "physician NPI missing")
		nextSteps = append(nextSteps, physicianStep(data, "confirm NPI"))
	}
	if data.PhysicianContact == "" {
		missing = append(missing, "physician call-back contact missing")
		nextSteps = append(nextSteps, "Locate call-back number for the referring office")
	}

	if data.DiagnosisText == "" && len(data.ICDCodes) == 0 {
		missing = append(missing, "diagnosis codes missing")
		nextSteps = append(nextSteps, physicianStep(data, "request diagnosis codes"))
	}

	nextSteps = append(nextSteps, equipmentSteps(data)...)

	return missing, nextSteps
}

// equipmentSteps adds payer-requirement advisories driven by what was
// ordered rather than by an absent field. They never count as gaps.
func equipmentSteps(data ExtractedData) []string {
	var text strings.Builder
	for _, s := range data.SuppliesRequested {
		text.WriteString(s)
		text.WriteByte(' ')
	}
	text.WriteString(data.DiagnosisText)
	text.WriteByte(' ')
	text.WriteString(data.ClinicalNotes)
	lower := strings.ToLower(text.String())

	var steps []string
	switch {
	case strings.Contains(lower, "cpap") || strings.Contains(lower, "sleep apnea"):
		steps = append(steps, "Check payer prior auth requirements for CPAP")
	case strings.Contains(lower, "oxygen") || strings.Contains(lower, "o2 "):
		steps = append(steps, "Confirm a CMN for oxygen is on file")
	case strings.Contains(lower, "diabetic") || strings.Contains(lower, "glucose"):
		steps = append(steps, "Confirm diabetic supply coverage limits")
	}
	return steps
}

// physicianStep names the referring physician in the action when the
// document identified one.
func physicianStep(data ExtractedData, action string) string {
	if data.ReferringPhysician != "" {
		return fmt.Sprintf("Call %s to %s", data.ReferringPhysician, action)
	}
	return "Call referring physician to " + action
}

// DeriveInitialStatus picks the status a referral starts in, from the gaps
// found at parse time: an insurance gap parks it in pending_insurance, an
// authorization or CMN gap in pending_auth, any other gap in pending_docs,
// and a complete referral starts as new.
func DeriveInitialStatus(missing []string) Status {
	for _, m := range missing {
		if strings.Contains(strings.ToLower(m), "insurance") {
			return StatusPendingInsurance
		}
	}
	for _, m := range missing {
		lm := strings.ToLower(m)
		if strings.Contains(lm, "auth") || strings.Contains(lm, "cmn") {
			return StatusPendingAuth
		}
	}
	if len(missing) > 0 {
		return StatusPendingDocs
	}
	return StatusNew
}
