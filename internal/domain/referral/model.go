// Package referral holds the persisted order record, its status lifecycle,
// and the completeness policy that decides what a referral is missing and
// what an intake coordinator should do next.
package referral

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the referral workflow state. The set is closed: values outside
// it are rejected at the service layer before any write happens.
type Status string

const (
	StatusNew              Status = "new"
	StatusPendingInsurance Status = "pending_insurance"
	StatusPendingAuth      Status = "pending_auth"
	StatusPendingDocs      Status = "pending_docs"
	StatusApproved         Status = "approved"
	StatusScheduled        Status = "scheduled"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusNew:              true,
	StatusPendingInsurance: true,
	StatusPendingAuth:      true,
	StatusPendingDocs:      true,
	StatusApproved:         true,
	StatusScheduled:        true,
	StatusDelivered:        true,
	StatusCancelled:        true,
}

// Valid reports whether s is a member of the status enum.
func (s Status) Valid() bool { return validStatuses[s] }

// Terminal reports whether s ends the workflow. Terminal referrals stay
// readable but see no further coordinator action.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Urgency levels as the model reports them. Empty means routine.
const (
	UrgencyRoutine = "routine"
	UrgencyUrgent  = "urgent"
	UrgencyStat    = "stat"
)

// StringList is a []string that tolerates the shapes an LLM actually
// produces: null and absent decode to an empty list, a bare string decodes
// to a singleton, and non-string array elements are stringified. It always
// marshals as a JSON array.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StringList{}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		if arr == nil {
			arr = []string{}
		}
		*s = arr
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}

	var mixed []interface{}
	if err := json.Unmarshal(data, &mixed); err == nil {
		out := make(StringList, 0, len(mixed))
		for _, v := range mixed {
			if v == nil {
				continue
			}
			out = append(out, fmt.Sprintf("%v", v))
		}
		*s = out
		return nil
	}

	return fmt.Errorf("string list: cannot decode %s", data)
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// ExtractedData is the structured shape one parse attempt yields. Every
// string field is optional; empty means the document did not contain it.
type ExtractedData struct {
	PatientName        string     `json:"patient_name"`
	DateOfBirth        string     `json:"date_of_birth"`
	InsuranceName      string     `json:"insurance_name"`
	PolicyNumber       string     `json:"policy_number"`
	ReferringPhysician string     `json:"referring_physician"`
	PhysicianContact   string     `json:"physician_contact"`
	PhysicianNPI       string     `json:"physician_npi"`
	DiagnosisText      string     `json:"diagnosis_text"`
	ICDCodes           StringList `json:"icd_codes"`
	HCPCSCodes         StringList `json:"hcpcs_codes"`
	SuppliesRequested  StringList `json:"supplies_requested"`
	ClinicalNotes      string     `json:"clinical_notes"`
	DeliveryAddress    string     `json:"delivery_address"`
	Urgency            string     `json:"urgency"`
}

// Expedited reports whether the referral asked for faster-than-routine
// handling.
func (d ExtractedData) Expedited() bool {
	return d.Urgency == UrgencyStat || d.Urgency == UrgencyUrgent
}

// ParsedResult wraps one extraction attempt. It is produced once per parse
// call and never partially updated afterwards.
type ParsedResult struct {
	ExtractedData ExtractedData `json:"extracted_data"`
	MissingInfo   []string      `json:"missing_info"`
	NextSteps     []string      `json:"next_steps"`
	Note          string        `json:"note,omitempty"`
}

// Referral maps to the referral table. raw_text and parsed_data are set at
// creation and never mutated; status is the only field that changes after
// save. patient_name and insurance are denormalized copies of the extracted
// data taken at save time, kept for cheap list filtering.
type Referral struct {
	ID          int64        `db:"id" json:"id"`
	PatientName string       `db:"patient_name" json:"patient_name"`
	Insurance   string       `db:"insurance" json:"insurance"`
	Status      Status       `db:"status" json:"status"`
	RawText     string       `db:"raw_text" json:"raw_text"`
	ParsedData  ParsedResult `db:"parsed_data" json:"parsed_data"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}
