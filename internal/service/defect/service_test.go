package defect

import (
	"context"
	"testing"
	"time"

	"insurance-tracker/internal/domain"
	defectrepo "insurance-tracker/internal/repository/defect"
)

type stubRepo struct {
	last       domain.Defect
	lastStatus domain.DefectStatus
	statusErr  error
}

func (s *stubRepo) Create(_ context.Context, d domain.Defect) (*domain.Defect, error) {
	s.last = d
	return &d, nil
}

func (s *stubRepo) Get(_ context.Context, _ int64) (*domain.Defect, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Update(_ context.Context, d domain.Defect) (*domain.Defect, error) {
	s.last = d
	return &d, nil
}

func (s *stubRepo) Delete(_ context.Context, _ int64) error { return nil }

func (s *stubRepo) SetStatus(_ context.Context, id int64, status domain.DefectStatus) (*domain.Defect, error) {
	s.lastStatus = status
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &domain.Defect{ID: id, CustomerID: "C-1", Status: status}, nil
}

func (s *stubRepo) ListByCustomer(_ context.Context, _ string) ([]domain.Defect, error) {
	return nil, nil
}

func (s *stubRepo) ListIncidents(_ context.Context) ([]defectrepo.Incident, error) {
	return nil, nil
}

func (s *stubRepo) LatestDeadlines(_ context.Context) (map[string]time.Time, error) {
	return map[string]time.Time{}, nil
}

var today = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestCreate_LiabilityDefaults(t *testing.T) {
	repo := &stubRepo{}
	got, err := New(repo, nil).Create(context.Background(), Input{
		CustomerID:         "C-1",
		ResolutionDeadline: "2026-06-01",
	}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsIncident() || got.Status != domain.DefectPending || !got.ReportDate.Equal(today) {
		t.Fatalf("unexpected defect %+v", got)
	}
	if got.Type.Value != "Other" || got.Type.Custom {
		t.Fatalf("expected bare Other type, got %+v", got.Type)
	}
}

func TestCreate_Incident(t *testing.T) {
	repo := &stubRepo{}
	got, err := New(repo, nil).Create(context.Background(), Input{
		CustomerID:         "C-1",
		AccidentDate:       "2024-05-20",
		ResolutionDeadline: "2024-06-20",
		Type:               "Other",
		TypeOther:          "Bird nest",
	}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsIncident() || got.Type != (domain.Choice{Value: "Bird nest", Custom: true}) {
		t.Fatalf("unexpected incident %+v", got)
	}
}

func TestCreate_RejectsBadStatus(t *testing.T) {
	_, err := New(&stubRepo{}, nil).Create(context.Background(), Input{
		CustomerID:         "C-1",
		ResolutionDeadline: "2026-06-01",
		Status:             "Open",
	}, today)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSolve(t *testing.T) {
	repo := &stubRepo{}
	got, err := New(repo, nil).Solve(context.Background(), 3)
	if err != nil || got.Status != domain.DefectSolved || repo.lastStatus != domain.DefectSolved {
		t.Fatalf("unexpected solve result %+v (%v)", got, err)
	}

	repo.statusErr = domain.ErrNotFound
	if _, err := New(repo, nil).Solve(context.Background(), 4); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
