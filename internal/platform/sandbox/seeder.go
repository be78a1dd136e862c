// Package sandbox seeds demo referrals for developer on-boarding and UI
// demos. Seeding only happens into an empty store, so it is safe to leave
// enabled in development environments.
package sandbox

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/versemed/intake/internal/domain/referral"
)

type Seeder struct {
	repo   referral.Repository
	logger zerolog.Logger
}

func NewSeeder(repo referral.Repository, logger zerolog.Logger) *Seeder {
	return &Seeder{repo: repo, logger: logger}
}

// SeedIfEmpty inserts the demo referrals when the store has none and
// returns how many were created.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx, referral.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("check store: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Debug().Int("existing", len(existing)).Msg("store not empty, skipping seed")
		return 0, nil
	}

	refs := DemoReferrals()
	for i := range refs {
		if err := s.repo.Create(ctx, &refs[i]); err != nil {
			return i, fmt.Errorf("seed referral %q: %w", refs[i].PatientName, err)
		}
	}
	s.logger.Info().Int("count", len(refs)).Msg("seeded demo referrals")
	return len(refs), nil
}

// DemoReferrals returns the demo set: one referral per interesting workflow
// state, wound care focused.
func DemoReferrals() []referral.Referral {
	return []referral.Referral{
		{
			PatientName: "Dorothy Mitchell",
			Insurance:   "Medicare Part B",
			Status:      referral.StatusPendingAuth,
			RawText: `VERSE MEDICAL ORDER FORM
Fax: (833) 694-1477

Order Date: 11/28/2024
Patient Name: Dorothy Mitchell
DOB: 04/12/1942

WOUND CARE ORDER
Have the patient's wounds ever been debrided? Yes
(Debridement is required by Medicare)

Wound 1:
ICD-10: L89.314 (Pressure ulcer of left buttock, stage 4)
Location: Left buttock/sacral area
Wound Size: 4.2 x 3.8 x 1.5 cm
Drainage: Moderate
Stage: Full thickness

Supplies Requested:
- Foam dressing with silver (Ag) - 4x4 - 30 days - change every 3 days
- Hydrocolloid border - 4x4 - 30 days - change every 5-7 days
- Saline wound cleanser
- Gloves, Size M
- Wound care kit

Prescribing Entity: Sunrise Home Health
Provider Name: Dr. Amanda Chen, MD
NPI: 1234567890
Clinic: Sunrise Wound Care Center
Phone: (555) 234-5678`,
			ParsedData: referral.ParsedResult{
				ExtractedData: referral.ExtractedData{
					PatientName:        "Dorothy Mitchell",
					DateOfBirth:        "04/12/1942",
					InsuranceName:      "Medicare Part B",
					ReferringPhysician: "Dr. Amanda Chen, MD",
					PhysicianContact:   "(555) 234-5678",
					PhysicianNPI:       "1234567890",
					DiagnosisText:      "Pressure ulcer of left buttock, stage 4",
					ICDCodes:           referral.StringList{"L89.314"},
					HCPCSCodes:         referral.StringList{"A6212", "A6234", "A6260"},
					SuppliesRequested: referral.StringList{
						"Foam dressing with silver (Ag) 4x4",
						"Hydrocolloid border 4x4",
						"Saline wound cleanser",
						"Gloves Size M",
						"Wound care kit",
					},
					ClinicalNotes: "Stage 4 pressure ulcer, debridement completed. Full thickness wound requiring silver dressings for infection prevention.",
					Urgency:       referral.UrgencyRoutine,
				},
				MissingInfo: []string{
					"insurance member/policy ID missing",
					"prior authorization pending for surgical dressings",
					"delivery address missing",
				},
				NextSteps: []string{
					"Verify Medicare Part B eligibility and obtain member ID",
					"Confirm supplies covered under the surgical dressing benefit",
					"Call patient to confirm delivery address",
				},
			},
		},
		{
			PatientName: "Harold Thompson",
			Insurance:   "Aetna PPO",
			Status:      referral.StatusNew,
			RawText: `*** FAX FROM DR MARTINEZ OFFICE ***
To: Verse Medical
Date: 11/29/2024

pt: harold thompson
dob - 8/15/58

COMPRESSION ORDER - venous stasis ulcer
left leg measurements:
ankle: 22cm
calf: 38cm
length: 42cm

needs 30-40 mmHg compression
recommend Farrow basic wrap

also wound supplies for venous ulcer left medial ankle
- 2.5 x 2.0 cm, shallow, moderate drainage

insurance: aetna PPO
member id: W789456123

call if questions 555-0199
- dr martinez`,
			ParsedData: referral.ParsedResult{
				ExtractedData: referral.ExtractedData{
					PatientName:        "Harold Thompson",
					DateOfBirth:        "08/15/1958",
					InsuranceName:      "Aetna PPO",
					PolicyNumber:       "W789456123",
					ReferringPhysician: "Dr. Martinez",
					PhysicianContact:   "555-0199",
					DiagnosisText:      "Venous stasis ulcer, left lower leg",
					ICDCodes:           referral.StringList{"I87.312", "L97.329"},
					SuppliesRequested: referral.StringList{
						"Compression wrap 30-40 mmHg (Farrow Basic)",
						"Wound dressings for venous ulcer",
					},
					ClinicalNotes: "Left leg compression measurements: ankle 22cm, calf 38cm, length 42cm. Venous ulcer left medial ankle 2.5x2.0cm, shallow, moderate drainage.",
					Urgency:       referral.UrgencyRoutine,
				},
				MissingInfo: []string{
					"delivery address missing",
					"physician NPI missing",
				},
				NextSteps: []string{
					"Request delivery address from patient",
					"Call Dr. Martinez at 555-0199 to confirm NPI",
				},
			},
		},
		{
			PatientName: "Maria Santos",
			Insurance:   "UnitedHealthcare",
			Status:      referral.StatusApproved,
			RawText: `VERSE MEDICAL ORDER FORM
Fax: (833) 694-1477

Order Date: 11/25/2024
Patient Name: Maria Santos
DOB: 06/22/1965

WOUND CARE ORDER

Wound 1:
ICD-10: L97.529 - Non-pressure chronic ulcer of other part of left foot
Location: Left plantar (diabetic foot ulcer)
Size: 1.8 x 1.2 x 0.3 cm

Wound 2:
ICD-10: L97.419 - Non-pressure chronic ulcer of right heel
Location: Right heel
Size: 2.0 x 1.5 x 0.2 cm

Supplies (30 day):
- Alginate dressing 2x2 - both wounds - change daily
- Foam border 4x4 (secondary) - both wounds
- Offloading boot - left foot
- Diabetic socks

Insurance: UnitedHealthcare
Member ID: U445566778
Auth #: DME2024-11789 (approved 11/26)

Provider: Dr. James Wilson, DPM
NPI: 9876543210
Clinic: Valley Foot & Ankle Center
Fax: (555) 333-4444

DELIVERY ADDRESS:
1847 Oak Street Apt 3B
San Antonio, TX 78201`,
			ParsedData: referral.ParsedResult{
				ExtractedData: referral.ExtractedData{
					PatientName:        "Maria Santos",
					DateOfBirth:        "06/22/1965",
					InsuranceName:      "UnitedHealthcare",
					PolicyNumber:       "U445566778",
					ReferringPhysician: "Dr. James Wilson, DPM",
					PhysicianContact:   "(555) 333-4444",
					PhysicianNPI:       "9876543210",
					DiagnosisText:      "Diabetic foot ulcers, bilateral",
					ICDCodes:           referral.StringList{"L97.529", "L97.419", "E11.621"},
					HCPCSCodes:         referral.StringList{"A6196", "A6212", "L3260"},
					SuppliesRequested: referral.StringList{
						"Alginate dressing 2x2 (daily change)",
						"Foam border 4x4 (secondary dressing)",
						"Offloading boot - left foot",
						"Diabetic socks",
					},
					ClinicalNotes:   "Two diabetic foot ulcers requiring daily dressing changes. Offloading boot for left plantar ulcer. Prior auth approved 11/26.",
					DeliveryAddress: "1847 Oak Street Apt 3B, San Antonio, TX 78201",
					Urgency:         referral.UrgencyRoutine,
				},
				MissingInfo: []string{},
				NextSteps: []string{
					"Confirm diabetic supply coverage limits",
				},
			},
		},
		{
			PatientName: "Robert Chen",
			Insurance:   "Humana Gold Plus (Medicare Advantage)",
			Status:      referral.StatusPendingInsurance,
			RawText: `URGENT - HOME HEALTH REFERRAL

Patient: Robert Chen
DOB: 11/03/1978
Phone: (555) 867-5309

Dx: Post-surgical wound dehiscence, abdominal (T81.31XA)
    s/p emergency appendectomy with complications

WOUND DETAILS:
Location: Lower right abdominal quadrant
Size: 6.5 x 2.8 x 2.0 cm
Drainage: HIGH - requires packing
Stage: Full thickness, tunneling present

SUPPLIES NEEDED (URGENT):
- Alginate rope/ribbon for packing
- ABD pads 5x9
- Foam dressing 6x6
- Surgical tape
- Sterile saline irrigation
- Wound care kit

Dressing change: BID initially, then daily

Insurance: Humana Gold Plus (Medicare Advantage)
** NEED TO VERIFY COVERAGE - patient unsure of plan details **

Referring: Dr. Patricia Nguyen, General Surgery
Hospital: Memorial Regional Medical Center
Fax: (555) 444-2222
NPI: 1122334455

** PATIENT DISCHARGED TODAY - NEEDS SUPPLIES ASAP **`,
			ParsedData: referral.ParsedResult{
				ExtractedData: referral.ExtractedData{
					PatientName:        "Robert Chen",
					DateOfBirth:        "11/03/1978",
					InsuranceName:      "Humana Gold Plus (Medicare Advantage)",
					ReferringPhysician: "Dr. Patricia Nguyen",
					PhysicianContact:   "(555) 444-2222",
					PhysicianNPI:       "1122334455",
					DiagnosisText:      "Post-surgical wound dehiscence, abdominal",
					ICDCodes:           referral.StringList{"T81.31XA"},
					SuppliesRequested: referral.StringList{
						"Alginate rope/ribbon for packing",
						"ABD pads 5x9",
						"Foam dressing 6x6",
						"Surgical tape",
						"Sterile saline irrigation",
						"Wound care kit",
					},
					ClinicalNotes: "High-drainage full thickness wound with tunneling, BID packing changes initially. Patient discharged, needs supplies same day.",
					Urgency:       referral.UrgencyUrgent,
				},
				MissingInfo: []string{
					"insurance member/policy ID missing",
					"delivery address missing",
				},
				NextSteps: []string{
					"Verify Humana Gold Plus coverage and obtain member ID",
					"Expedite: urgent delivery requested, prioritize this order",
					"Request delivery address from patient",
				},
			},
		},
	}
}
