package referral

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"
)

// -- Mock Repository --

type mockRepo struct {
	referrals map[int64]*Referral
	nextID    int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{referrals: make(map[int64]*Referral), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, ref *Referral) error {
	ref.ID = m.nextID
	m.nextID++
	ref.CreatedAt = time.Now().UTC()
	stored := *ref
	m.referrals[ref.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Referral, error) {
	ref, ok := m.referrals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ref, nil
}

func (m *mockRepo) List(_ context.Context, f ListFilter) ([]*Referral, error) {
	result := []*Referral{}
	for _, ref := range m.referrals {
		if f.Status != "" && f.Status != "all" && string(ref.Status) != f.Status {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(strings.ToLower(ref.PatientName), q) &&
				!strings.Contains(strings.ToLower(ref.Insurance), q) {
				continue
			}
		}
		result = append(result, ref)
	}
	// Newest first, same as the SQL ordering.
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	ref, ok := m.referrals[id]
	if !ok {
		return ErrNotFound
	}
	ref.Status = status
	return nil
}

// -- Service tests --

func TestSave_DefaultsToUnknown(t *testing.T) {
	svc := NewService(newMockRepo())

	ref, err := svc.Save(context.Background(), SaveRequest{
		RawText:    "illegible fax",
		ParsedData: ParsedResult{},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ref.PatientName != "Unknown" {
		t.Errorf("patient_name = %q, want Unknown", ref.PatientName)
	}
	if ref.Insurance != "Unknown" {
		t.Errorf("insurance = %q, want Unknown", ref.Insurance)
	}
}

func TestSave_FallsBackToExtractedData(t *testing.T) {
	svc := NewService(newMockRepo())

	ref, err := svc.Save(context.Background(), SaveRequest{
		RawText: "pt: william tucker",
		ParsedData: ParsedResult{
			ExtractedData: ExtractedData{PatientName: "William Tucker", InsuranceName: "Aetna"},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ref.PatientName != "William Tucker" || ref.Insurance != "Aetna" {
		t.Errorf("denormalized fields not taken from extracted data: %+v", ref)
	}
}

func TestSave_DerivesInitialStatus(t *testing.T) {
	cases := []struct {
		name    string
		missing []string
		want    Status
	}{
		{"complete referral starts new", nil, StatusNew},
		{"insurance gap", []string{"insurance information missing"}, StatusPendingInsurance},
		{"doc gap", []string{"physician NPI missing"}, StatusPendingDocs},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(newMockRepo())
			ref, err := svc.Save(context.Background(), SaveRequest{
				PatientName: "Thomas Garcia",
				Insurance:   "Unknown",
				RawText:     "urgent discharge",
				ParsedData:  ParsedResult{MissingInfo: tc.missing},
			})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if ref.Status != tc.want {
				t.Errorf("status = %s, want %s", ref.Status, tc.want)
			}
		})
	}
}

func TestUpdateStatus_RejectsUnknownValueWithoutMutation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	ref, _ := svc.Save(context.Background(), SaveRequest{PatientName: "A", Insurance: "B", RawText: "x"})

	err := svc.UpdateStatus(context.Background(), ref.ID, Status("shipped"))
	if err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), ref.ID)
	if stored.Status != ref.Status {
		t.Errorf("status mutated on invalid update: %s", stored.Status)
	}
}

func TestUpdateStatus_IdempotentAtCurrentValue(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	ref, _ := svc.Save(context.Background(), SaveRequest{PatientName: "A", Insurance: "B", RawText: "x"})

	if err := svc.UpdateStatus(context.Background(), ref.ID, ref.Status); err != nil {
		t.Fatalf("setting the current status must succeed: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), ref.ID)
	if stored.PatientName != ref.PatientName || stored.RawText != ref.RawText {
		t.Error("idempotent update touched other fields")
	}
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.UpdateStatus(context.Background(), 9999, StatusApproved); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_ReturnsAllWithUniqueIDs(t *testing.T) {
	svc := NewService(newMockRepo())

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.Save(context.Background(), SaveRequest{PatientName: "P", Insurance: "I", RawText: "t"}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	refs, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != n {
		t.Fatalf("got %d referrals, want %d", len(refs), n)
	}
	seen := map[int64]bool{}
	for _, r := range refs {
		if seen[r.ID] {
			t.Errorf("duplicate id %d", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestList_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	svc := NewService(newMockRepo())

	_, _ = svc.Save(context.Background(), SaveRequest{PatientName: "Thomas Garcia", Insurance: "Unknown", RawText: "x"})
	_, _ = svc.Save(context.Background(), SaveRequest{PatientName: "William Tucker", Insurance: "Aetna", RawText: "y"})

	refs, err := svc.List(context.Background(), ListFilter{Query: "GARCIA"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != 1 || refs[0].PatientName != "Thomas Garcia" {
		t.Errorf("search GARCIA should match only Thomas Garcia, got %+v", refs)
	}
}

func TestList_StatusFilterWithAllBypass(t *testing.T) {
	svc := NewService(newMockRepo())

	_, _ = svc.Save(context.Background(), SaveRequest{
		PatientName: "A", Insurance: "I", RawText: "x",
		ParsedData: ParsedResult{MissingInfo: []string{"insurance information missing"}},
	})
	_, _ = svc.Save(context.Background(), SaveRequest{PatientName: "B", Insurance: "I", RawText: "y"})

	pending, err := svc.List(context.Background(), ListFilter{Status: "pending_insurance"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("status filter returned %d, want 1", len(pending))
	}

	all, err := svc.List(context.Background(), ListFilter{Status: "all"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all bypass returned %d, want 2", len(all))
	}
}
