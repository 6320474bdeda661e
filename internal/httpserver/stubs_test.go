package httpserver

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/auth"
	"insurance-tracker/internal/domain"
	defectrepo "insurance-tracker/internal/repository/defect"
	customersvc "insurance-tracker/internal/service/customer"
	dashboardsvc "insurance-tracker/internal/service/dashboard"
	defectsvc "insurance-tracker/internal/service/defect"
	filesvc "insurance-tracker/internal/service/file"
	insurancesvc "insurance-tracker/internal/service/insurance"
	warrantysvc "insurance-tracker/internal/service/warranty"
)

const testSecret = "router-secret"

func logDiscard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func tokenWith(perms ...auth.Perm) string {
	tok, err := auth.Sign(testSecret, "tester", perms, time.Hour, time.Now())
	if err != nil {
		panic(err)
	}
	return "Bearer " + tok
}

type stubCustomerService struct {
	err       error
	lastQuery customersvc.ListQuery
	lastToday time.Time
	lastInput customersvc.Input
}

func (s *stubCustomerService) Create(_ context.Context, in customersvc.Input) (*domain.Customer, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Customer{ID: in.ID, Name: in.Name}, nil
}

func (s *stubCustomerService) Get(_ context.Context, id string) (*domain.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Customer{ID: id, Name: "Sunrise"}, nil
}

func (s *stubCustomerService) Update(_ context.Context, id string, in customersvc.Input) (*domain.Customer, error) {
	s.lastInput = in
	return &domain.Customer{ID: id, Name: in.Name}, s.err
}

func (s *stubCustomerService) Delete(_ context.Context, _ string) error { return s.err }

func (s *stubCustomerService) List(_ context.Context, q customersvc.ListQuery, today time.Time) (customersvc.Page, error) {
	s.lastQuery = q
	s.lastToday = today
	return customersvc.Page{Page: 1, TotalPages: 1}, s.err
}

func (s *stubCustomerService) Overview(_ context.Context, id string, _ time.Time) (*customersvc.Overview, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &customersvc.Overview{Customer: domain.Customer{ID: id}, StatusText: "No Items"}, nil
}

type stubInsuranceService struct {
	err       error
	lastInput insurancesvc.Input
}

func (s *stubInsuranceService) Create(_ context.Context, in insurancesvc.Input) (*domain.Insurance, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Insurance{PolicyNo: in.PolicyNo, CustomerID: in.CustomerID}, nil
}

func (s *stubInsuranceService) Get(_ context.Context, policyNo string) (*domain.Insurance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Insurance{PolicyNo: policyNo}, nil
}

func (s *stubInsuranceService) Update(_ context.Context, policyNo string, in insurancesvc.Input) (*domain.Insurance, error) {
	s.lastInput = in
	return &domain.Insurance{PolicyNo: policyNo}, s.err
}

func (s *stubInsuranceService) Delete(_ context.Context, _ string) error { return s.err }

type stubWarrantyService struct{ err error }

func (s *stubWarrantyService) Create(_ context.Context, in warrantysvc.Input) (*domain.Warranty, error) {
	return &domain.Warranty{ID: 1, CustomerID: in.CustomerID}, s.err
}

func (s *stubWarrantyService) Get(_ context.Context, id int64) (*domain.Warranty, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Warranty{ID: id}, nil
}

func (s *stubWarrantyService) Update(_ context.Context, id int64, _ warrantysvc.Input) (*domain.Warranty, error) {
	return &domain.Warranty{ID: id}, s.err
}

func (s *stubWarrantyService) Delete(_ context.Context, _ int64) error { return s.err }

type stubDefectService struct {
	err       error
	lastToday time.Time
	deadlines map[string]time.Time
}

func (s *stubDefectService) Create(_ context.Context, in defectsvc.Input, today time.Time) (*domain.Defect, error) {
	s.lastToday = today
	return &domain.Defect{ID: 1, CustomerID: in.CustomerID}, s.err
}

func (s *stubDefectService) Get(_ context.Context, id int64) (*domain.Defect, error) {
	return &domain.Defect{ID: id}, s.err
}

func (s *stubDefectService) Update(_ context.Context, id int64, _ defectsvc.Input, today time.Time) (*domain.Defect, error) {
	s.lastToday = today
	return &domain.Defect{ID: id}, s.err
}

func (s *stubDefectService) Delete(_ context.Context, _ int64) error { return s.err }

func (s *stubDefectService) Incidents(context.Context) ([]defectrepo.Incident, error) {
	return []defectrepo.Incident{{CustomerName: "Sunrise"}}, s.err
}

func (s *stubDefectService) Solve(_ context.Context, id int64) (*domain.Defect, error) {
	return &domain.Defect{ID: id, Status: domain.DefectSolved}, s.err
}

func (s *stubDefectService) LatestDeadlines(context.Context) (map[string]time.Time, error) {
	return s.deadlines, s.err
}

type stubFileService struct {
	err      error
	uploaded []byte
	last     filesvc.UploadInput
}

func (s *stubFileService) Upload(_ context.Context, in filesvc.UploadInput) (*domain.CustomerFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.last = in
	s.uploaded, _ = io.ReadAll(in.Body)
	return &domain.CustomerFile{ID: 1, CustomerID: in.CustomerID, FileName: in.FileName, Size: in.Size}, nil
}

func (s *stubFileService) Delete(_ context.Context, id int64) (*domain.CustomerFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.CustomerFile{ID: id, FileName: "plan.pdf"}, nil
}

func (s *stubFileService) URL(_ context.Context, _ int64) (string, error) {
	return "https://files.local/plan.pdf?sig=1", s.err
}

type stubRenewalService struct {
	err error
}

func (s *stubRenewalService) ListPending(context.Context, time.Time) ([]domain.PendingRenewal, error) {
	return []domain.PendingRenewal{{CustomerName: "Sunrise"}}, s.err
}

func (s *stubRenewalService) Dismiss(_ context.Context, id int64) (*domain.RenewalNotice, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return &domain.RenewalNotice{ID: id, PolicyNo: "P-1", RenewalYear: 2024, Dismissed: true},
		"Renewal for P-1 (Year 2024) has been marked as complete.", nil
}

type stubDashboardService struct {
	err        error
	lastManage bool
}

func (s *stubDashboardService) MainPage(context.Context, time.Time) (dashboardsvc.MainPage, error) {
	return dashboardsvc.MainPage{TotalCustomers: 3}, s.err
}

func (s *stubDashboardService) Counters(_ context.Context, _ time.Time, canManage bool) (dashboardsvc.Counters, error) {
	s.lastManage = canManage
	out := dashboardsvc.Counters{ExpiringItems: 2}
	if canManage {
		out.PendingRenewals = 1
	}
	return out, s.err
}

func (s *stubDashboardService) ExpiringItems(context.Context, time.Time) ([]dashboardsvc.Item, error) {
	return []dashboardsvc.Item{{}}, s.err
}

type testDeps struct {
	customers *stubCustomerService
	insurance *stubInsuranceService
	warranty  *stubWarrantyService
	defects   *stubDefectService
	files     *stubFileService
	renewals  *stubRenewalService
	dashboard *stubDashboardService
}

func newTestDeps() *testDeps {
	return &testDeps{
		customers: &stubCustomerService{},
		insurance: &stubInsuranceService{},
		warranty:  &stubWarrantyService{},
		defects:   &stubDefectService{},
		files:     &stubFileService{},
		renewals:  &stubRenewalService{},
		dashboard: &stubDashboardService{},
	}
}

func (d *testDeps) deps() Deps {
	return Deps{
		CustomerSvc:  d.customers,
		InsuranceSvc: d.insurance,
		WarrantySvc:  d.warranty,
		DefectSvc:    d.defects,
		FileSvc:      d.files,
		RenewalSvc:   d.renewals,
		DashboardSvc: d.dashboard,
		JWTSecret:    testSecret,
		Location:     time.FixedZone("UTC+8", 8*3600),
		Now:          func() time.Time { return time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC) },
	}
}
