package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/config"
	"insurance-tracker/internal/db"
	"insurance-tracker/internal/httpserver"
	"insurance-tracker/internal/logging"
	"insurance-tracker/internal/migrate"
	engine "insurance-tracker/internal/renewal"
	customerrepo "insurance-tracker/internal/repository/customer"
	defectrepo "insurance-tracker/internal/repository/defect"
	filerepo "insurance-tracker/internal/repository/file"
	insurancerepo "insurance-tracker/internal/repository/insurance"
	renewalrepo "insurance-tracker/internal/repository/renewal"
	warrantyrepo "insurance-tracker/internal/repository/warranty"
	"insurance-tracker/internal/scheduler"
	customersvc "insurance-tracker/internal/service/customer"
	dashboardsvc "insurance-tracker/internal/service/dashboard"
	defectsvc "insurance-tracker/internal/service/defect"
	filesvc "insurance-tracker/internal/service/file"
	insurancesvc "insurance-tracker/internal/service/insurance"
	renewalsvc "insurance-tracker/internal/service/renewal"
	warrantysvc "insurance-tracker/internal/service/warranty"
	"insurance-tracker/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment).WithField("app", "api")
	if err := cfg.RequireJWT(); err != nil {
		logger.WithError(err).Fatal("invalid config")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect to db")
	}
	defer dbpool.Close()

	if err := migrate.Apply(ctx, dbpool, logger); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	insuranceRepo := insurancerepo.NewPostgres(dbpool, logger)
	warrantyRepo := warrantyrepo.NewPostgres(dbpool, logger)
	defectRepo := defectrepo.NewPostgres(dbpool, logger)
	fileRepo := filerepo.NewPostgres(dbpool, logger)
	renewalRepo := renewalrepo.NewPostgres(dbpool, logger)

	var objects filesvc.ObjectStore
	if cfg.MinIO.Enabled() {
		store, err := storage.NewMinIO(ctx, cfg.MinIO, logger)
		if err != nil {
			logger.WithError(err).Fatal("connect object storage")
		}
		objects = store
	} else {
		logger.Warn("MINIO_ENDPOINT not set, file uploads disabled")
	}

	insuranceService := insurancesvc.New(insuranceRepo, logger)
	warrantyService := warrantysvc.New(warrantyRepo, logger)
	defectService := defectsvc.New(defectRepo, logger)
	fileService := filesvc.New(fileRepo, objects, logger)
	reconciler := engine.NewReconciler(renewalRepo, logger)
	renewalService := renewalsvc.New(reconciler, renewalRepo, logger)
	customerService := customersvc.New(customerRepo, customersvc.Deps{
		Insurances:  insuranceService,
		Warranties:  warrantyService,
		Defects:     defectService,
		Files:       fileService,
		HorizonDays: cfg.ExpiryHorizonDays,
		Logger:      logger,
	})
	dashboardService := dashboardsvc.New(dashboardsvc.Deps{
		Insurances:  insuranceRepo,
		Warranties:  warrantyRepo,
		Liabilities: defectRepo,
		Customers:   customerRepo,
		Renewals:    renewalService,
		HorizonDays: cfg.ExpiryHorizonDays,
		Logger:      logger,
	})

	var sched *scheduler.Scheduler
	if cfg.RenewalCron != "" {
		sched = scheduler.New(cfg.RenewalCron, cfg.Location, renewalService, logger)
		if err := sched.Start(); err != nil {
			logger.WithError(err).Fatal("start scheduler")
		}
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerSvc:  customerService,
		InsuranceSvc: insuranceService,
		WarrantySvc:  warrantyService,
		DefectSvc:    defectService,
		FileSvc:      fileService,
		RenewalSvc:   renewalService,
		DashboardSvc: dashboardService,
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		Location:     cfg.Location,
	})
	if err != nil {
		logger.WithError(err).Fatal("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
}
