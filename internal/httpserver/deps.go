package httpserver

import (
	"context"
	"time"

	"insurance-tracker/internal/domain"
	defectrepo "insurance-tracker/internal/repository/defect"
	customersvc "insurance-tracker/internal/service/customer"
	dashboardsvc "insurance-tracker/internal/service/dashboard"
	defectsvc "insurance-tracker/internal/service/defect"
	filesvc "insurance-tracker/internal/service/file"
	insurancesvc "insurance-tracker/internal/service/insurance"
	warrantysvc "insurance-tracker/internal/service/warranty"
)

type CustomerService interface {
	Create(ctx context.Context, in customersvc.Input) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, id string, in customersvc.Input) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q customersvc.ListQuery, today time.Time) (customersvc.Page, error)
	Overview(ctx context.Context, id string, today time.Time) (*customersvc.Overview, error)
}

type InsuranceService interface {
	Create(ctx context.Context, in insurancesvc.Input) (*domain.Insurance, error)
	Get(ctx context.Context, policyNo string) (*domain.Insurance, error)
	Update(ctx context.Context, policyNo string, in insurancesvc.Input) (*domain.Insurance, error)
	Delete(ctx context.Context, policyNo string) error
}

type WarrantyService interface {
	Create(ctx context.Context, in warrantysvc.Input) (*domain.Warranty, error)
	Get(ctx context.Context, id int64) (*domain.Warranty, error)
	Update(ctx context.Context, id int64, in warrantysvc.Input) (*domain.Warranty, error)
	Delete(ctx context.Context, id int64) error
}

type DefectService interface {
	Create(ctx context.Context, in defectsvc.Input, today time.Time) (*domain.Defect, error)
	Get(ctx context.Context, id int64) (*domain.Defect, error)
	Update(ctx context.Context, id int64, in defectsvc.Input, today time.Time) (*domain.Defect, error)
	Delete(ctx context.Context, id int64) error
	Incidents(ctx context.Context) ([]defectrepo.Incident, error)
	Solve(ctx context.Context, id int64) (*domain.Defect, error)
	LatestDeadlines(ctx context.Context) (map[string]time.Time, error)
}

type FileService interface {
	Upload(ctx context.Context, in filesvc.UploadInput) (*domain.CustomerFile, error)
	Delete(ctx context.Context, id int64) (*domain.CustomerFile, error)
	URL(ctx context.Context, id int64) (string, error)
}

type RenewalService interface {
	ListPending(ctx context.Context, today time.Time) ([]domain.PendingRenewal, error)
	Dismiss(ctx context.Context, id int64) (*domain.RenewalNotice, string, error)
}

type DashboardService interface {
	MainPage(ctx context.Context, today time.Time) (dashboardsvc.MainPage, error)
	Counters(ctx context.Context, today time.Time, canManageRenewals bool) (dashboardsvc.Counters, error)
	ExpiringItems(ctx context.Context, today time.Time) ([]dashboardsvc.Item, error)
}

// Deps carries the services and settings the router needs.
type Deps struct {
	CustomerSvc  CustomerService
	InsuranceSvc InsuranceService
	WarrantySvc  WarrantyService
	DefectSvc    DefectService
	FileSvc      FileService
	RenewalSvc   RenewalService
	DashboardSvc DashboardService

	JWTSecret   string
	CORSOrigins []string
	// Location decides the calendar day a request sees as today.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}
