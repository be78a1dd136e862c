// Package intake runs the parse pipeline: referral text (or an uploaded
// document) goes to the extraction model, the reply is normalized into
// structured data, and the completeness policy fills in gaps and next steps.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/versemed/intake/internal/domain/referral"
	"github.com/versemed/intake/internal/platform/textract"
)

var (
	// ErrEmptyInput is returned before any upstream call when the request
	// carries no usable text.
	ErrEmptyInput = errors.New("referral text must be at least 10 characters")
	// ErrModelFailure is returned when the extraction model errors, times
	// out, or replies with something that is not the expected JSON. The
	// call is never retried and nothing is persisted.
	ErrModelFailure = errors.New("model extraction failed")
)

const minSignificantChars = 10

// Generator is the language-model transport: one prompt in, the model's
// text reply out. The gemini client satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor turns raw referral text into structured data plus an optional
// advisory note. The model-backed extractor is the normal choice; the
// heuristic one serves deployments without an API key.
type Extractor interface {
	Extract(ctx context.Context, text string) (referral.ExtractedData, string, error)
}

type Service struct {
	fields Extractor
	docs   textract.Extractor
}

func NewService(fields Extractor, docs textract.Extractor) *Service {
	return &Service{fields: fields, docs: docs}
}

// ParseText runs one extraction over pasted or faxed referral text and
// returns the structured result. Gaps and next steps come from the
// completeness policy, not from the model, so re-deriving them later from
// the same extracted data gives the same answer.
func (s *Service) ParseText(ctx context.Context, text string) (*referral.ParsedResult, error) {
	if len(strings.TrimSpace(text)) < minSignificantChars {
		return nil, ErrEmptyInput
	}

	data, note, err := s.fields.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	missing, nextSteps := referral.Evaluate(data)
	return &referral.ParsedResult{
		ExtractedData: data,
		MissingInfo:   missing,
		NextSteps:     nextSteps,
		Note:          note,
	}, nil
}

// ParseDocument extracts text from an uploaded document and parses it. The
// extracted text is returned alongside the result so the caller can persist
// it as the referral's raw_text.
func (s *Service) ParseDocument(ctx context.Context, filename string, data []byte) (string, *referral.ParsedResult, error) {
	text, err := s.docs.Extract(filename, data)
	if err != nil {
		return "", nil, err
	}
	result, err := s.ParseText(ctx, text)
	if err != nil {
		return "", nil, err
	}
	return text, result, nil
}

// extractionPrompt asks for exactly the fields ExtractedData carries.
// Referrals arrive as clean order forms, messy faxes, and everything in
// between; the model does best-effort extraction and nulls what it cannot
// find.
const extractionPrompt = `You're helping process a DME (durable medical equipment) referral for a home healthcare company.
Your job is to extract the key info that an intake coordinator would need to process this order.

These referrals come in all forms - clean typed documents, messy faxes, handwritten notes, etc.
Do your best to pull out what you can.

Extract these fields (use null if not found):
- patient_name: full name
- date_of_birth: date of birth (any format is fine)
- insurance_name: insurance company/plan
- policy_number: member ID, policy number, etc
- referring_physician: doctor who sent the referral
- physician_contact: phone/fax for the physician's office
- physician_npi: the physician's NPI number
- diagnosis_text: diagnosis description
- icd_codes: list of ICD-10 codes
- hcpcs_codes: list of HCPCS codes if present
- supplies_requested: list of equipment/supplies needed
- clinical_notes: any relevant clinical justification
- delivery_address: where the supplies should ship
- urgency: "routine", "urgent" or "stat"

Return as JSON only, no markdown, no explanation:
{
    "extracted_data": { ... }
}`

// ModelExtractor drives a Generator with the extraction prompt and decodes
// its JSON reply.
type ModelExtractor struct {
	gen Generator
}

func NewModelExtractor(gen Generator) *ModelExtractor {
	return &ModelExtractor{gen: gen}
}

func (m *ModelExtractor) Extract(ctx context.Context, text string) (referral.ExtractedData, string, error) {
	prompt := fmt.Sprintf("%s\n\n--- REFERRAL TO PARSE ---\n%s\n---\n\nJSON output:", extractionPrompt, text)

	reply, err := m.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return referral.ExtractedData{}, "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}

	data, err := decodeExtraction(reply)
	if err != nil {
		return referral.ExtractedData{}, "", fmt.Errorf("%w: %v", ErrModelFailure, err)
	}
	return data, "", nil
}

func decodeExtraction(reply string) (referral.ExtractedData, error) {
	cleaned := stripFences(reply)

	var envelope struct {
		ExtractedData *referral.ExtractedData `json:"extracted_data"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return referral.ExtractedData{}, fmt.Errorf("malformed reply: %v", err)
	}
	if envelope.ExtractedData != nil {
		return *envelope.ExtractedData, nil
	}

	// Some replies skip the envelope and put the fields at the top level.
	var data referral.ExtractedData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return referral.ExtractedData{}, fmt.Errorf("malformed reply: %v", err)
	}
	return data, nil
}

// stripFences removes the markdown code fence the model sometimes wraps
// around its JSON despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}
