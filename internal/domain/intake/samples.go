package intake

// Sample referral texts for demos and manual testing, wound care focused.
// One clean order form, one messy fax, one urgent discharge with no
// insurance on file.
var sampleReferrals = map[string]string{
	"clean": `VERSE MEDICAL ORDER FORM
Fax: (833) 694-1477

Order Date: 12/01/2024
Patient Name: Patricia Anderson
DOB: 03/18/1955

WOUND CARE ORDER
Have the patient's wounds ever been debrided? Yes

Wound 1:
ICD-10: L89.154 (Pressure ulcer of sacral region, stage 4)
Location: Sacral/coccyx area
Wound Size: 5.2 x 4.1 x 2.0 cm
Drainage: Moderate
Thickness: Full

Supplies Requested (30 day supply):
- Foam dressing with silver (Ag) - 6x6 - change every 3 days
- Alginate dressing 4x4 - for packing
- Hydrocolloid border 6x6 - secondary
- Saline wound cleanser
- Gloves, Size M
- Wound care kit

Insurance: Medicare Part B
Member ID: 1EG4-TE5-MK72

Prescribing Entity: Valley Home Health
Provider Name: Dr. Sarah Chen, MD
NPI: 1234567890
Clinic: Valley Wound Care Center
Phone: (555) 234-5678

Delivery Address:
2847 Oakwood Lane
Austin, TX 78704`,

	"messy": `*** FAX - SUNRISE HOME HEALTH ***
to: verse medical 833-694-1477
date: dec 1

pt: william tucker
dob - 10/22/68

COMPRESSION + WOUND SUPPLIES

has venous stasis ulcer left leg
wound on medial ankle, 2x2cm approx
moderate drainage, need foam dressings

compression measurements:
left leg - ankle 23cm, calf 36cm
needs 30-40 mmHg
farrow wrap preferred

ins: aetna
member id: W883345567

also needs:
- wound cleanser
- abd pads
- tape

call me if questions 555-0199
- dr martinez NPI 9876543210`,

	"missing_insurance": `URGENT - HOSPITAL DISCHARGE TODAY

Patient: Thomas Garcia
DOB: 07/14/1982
Phone: (555) 867-5309

Dx: Surgical wound dehiscence, abdominal (T81.31XA)
Post-op day 5 from appendectomy

Wound Details:
Location: RLQ abdomen
Size: 8.0 x 3.5 x 2.5 cm
Drainage: HIGH - packing required
Thickness: Full, tunneling present

URGENT SUPPLIES NEEDED:
- Alginate rope for packing
- ABD pads 5x9
- Foam dressing 6x6
- Wound care kit
- Saline irrigation

Dressing change: BID x 1 week, then daily

Referring: Dr. Linda Park, General Surgery
Memorial Hospital
Fax: (555) 444-2222
NPI: 5566778899

** INSURANCE NOT ON FILE - PATIENT WILL CALL **
** PATIENT DISCHARGED 4PM TODAY **
** STAT DELIVERY REQUIRED **`,
}

// Samples returns the fixed sample set. Read-only; no side effects.
func Samples() map[string]string {
	out := make(map[string]string, len(sampleReferrals))
	for k, v := range sampleReferrals {
		out[k] = v
	}
	return out
}
