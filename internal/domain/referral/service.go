package referral

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveRequest is the payload for persisting a parsed referral. patient_name
// and insurance may be supplied explicitly by the caller; when absent they
// fall back to the extracted data and then to "Unknown".
type SaveRequest struct {
	PatientName string       `json:"patient_name"`
	Insurance   string       `json:"insurance"`
	RawText     string       `json:"raw_text"`
	ParsedData  ParsedResult `json:"parsed_data"`
}

// Save persists a referral. The initial status is derived from the gaps the
// parse found, not fixed to new: an incomplete referral starts in the
// pending state that names what blocks it.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*Referral, error) {
	name := req.PatientName
	if name == "" {
		name = req.ParsedData.ExtractedData.PatientName
	}
	if name == "" {
		name = "Unknown"
	}

	ins := req.Insurance
	if ins == "" {
		ins = req.ParsedData.ExtractedData.InsuranceName
	}
	if ins == "" {
		ins = "Unknown"
	}

	ref := &Referral{
		PatientName: name,
		Insurance:   ins,
		Status:      DeriveInitialStatus(req.ParsedData.MissingInfo),
		RawText:     req.RawText,
		ParsedData:  req.ParsedData,
	}
	if err := s.repo.Create(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Referral, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Referral, error) {
	return s.repo.List(ctx, f)
}

// UpdateStatus moves a referral to a new workflow state. Transitions are
// coordinator-initiated and advisory: no prerequisite is enforced, and
// setting the current status again is a successful no-op. Values outside
// the enum are rejected before anything is written.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
