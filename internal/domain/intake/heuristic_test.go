package intake

import (
	"context"
	"testing"
)

func TestHeuristic_MessyFax(t *testing.T) {
	data, note, err := NewHeuristic().Extract(context.Background(), sampleReferrals["messy"])
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if data.PatientName != "William Tucker" {
		t.Errorf("patient_name = %q, want William Tucker", data.PatientName)
	}
	if data.InsuranceName != "Aetna" {
		t.Errorf("insurance = %q, want Aetna", data.InsuranceName)
	}
	if note == "" {
		t.Error("heuristic results must carry an advisory note")
	}
	if len(data.SuppliesRequested) == 0 {
		t.Error("supplies must never be empty-null; placeholder expected")
	}
}

func TestHeuristic_DetectsCarriers(t *testing.T) {
	cases := []struct{ text, want string }{
		{"ins: medicare part b, pt: someone", "Medicare"},
		{"coverage through blue cross of texas", "Blue Cross Blue Shield"},
		{"payer is UHC", "UnitedHealthcare"},
		{"no payer mentioned here", ""},
	}
	for _, tc := range cases {
		data, _, _ := NewHeuristic().Extract(context.Background(), tc.text)
		if data.InsuranceName != tc.want {
			t.Errorf("%q: insurance = %q, want %q", tc.text, data.InsuranceName, tc.want)
		}
	}
}

func TestHeuristic_DetectsUrgency(t *testing.T) {
	data, _, _ := NewHeuristic().Extract(context.Background(), sampleReferrals["missing_insurance"])
	if data.Urgency != "stat" {
		t.Errorf("urgency = %q, want stat", data.Urgency)
	}

	// "status" and "stasis" must not trigger the stat flag
	data, _, _ = NewHeuristic().Extract(context.Background(), "status: venous stasis ulcer")
	if data.Urgency != "" {
		t.Errorf("urgency = %q, want empty", data.Urgency)
	}
}

func TestHeuristic_NoPatientLine(t *testing.T) {
	data, _, _ := NewHeuristic().Extract(context.Background(), "wound supplies needed, medicare")
	if data.PatientName != "" {
		t.Errorf("patient_name = %q, want empty", data.PatientName)
	}
}
