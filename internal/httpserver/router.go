package httpserver

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/auth"
)

// buildRouter wires routes for the API.
func buildRouter(logger logrus.FieldLogger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if deps.CustomerSvc == nil || deps.InsuranceSvc == nil || deps.WarrantySvc == nil ||
		deps.DefectSvc == nil || deps.FileSvc == nil || deps.RenewalSvc == nil || deps.DashboardSvc == nil {
		return nil, errors.New("all services are required")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(requestLogWriter(logger)), gin.Recovery(), corsMiddleware(deps.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}
	api := router.Group("/api", authMiddleware(deps.JWTSecret), todayMiddleware(deps.Now, deps.Location))

	api.GET("/dashboard", requirePerm(auth.ViewCustomer), h.dashboard)
	api.GET("/notifications", requirePerm(auth.ViewCustomer), h.notifications)
	api.GET("/notifications/counters", h.counters)

	api.GET("/renewals", requirePerm(auth.ManageRenewals), h.listRenewals)
	api.POST("/renewals/:id/dismiss", requirePerm(auth.ManageRenewals), h.dismissRenewal)

	api.GET("/customers", requirePerm(auth.ViewCustomer), h.listCustomers)
	api.POST("/customers", requirePerm(auth.ChangeCustomer), h.createCustomer)
	api.GET("/customers/:id", requirePerm(auth.ViewCustomer), h.getCustomer)
	api.PUT("/customers/:id", requirePerm(auth.ChangeCustomer), h.updateCustomer)
	api.DELETE("/customers/:id", requirePerm(auth.DeleteCustomer), h.deleteCustomer)
	api.GET("/customers/:id/overview", requirePerm(auth.ViewCustomer), h.customerOverview)

	api.POST("/customers/:id/insurances", requirePerm(auth.ChangeInsurance), h.createInsurance)
	api.GET("/insurances/:policy", requirePerm(auth.ViewCustomer), h.getInsurance)
	api.PUT("/insurances/:policy", requirePerm(auth.ChangeInsurance), h.updateInsurance)
	api.DELETE("/insurances/:policy", requirePerm(auth.ChangeInsurance), h.deleteInsurance)

	api.POST("/customers/:id/warranties", requirePerm(auth.ChangeWarranty), h.createWarranty)
	api.GET("/warranties/:id", requirePerm(auth.ViewCustomer), h.getWarranty)
	api.PUT("/warranties/:id", requirePerm(auth.ChangeWarranty), h.updateWarranty)
	api.DELETE("/warranties/:id", requirePerm(auth.ChangeWarranty), h.deleteWarranty)

	api.POST("/customers/:id/defects", requirePerm(auth.ChangeDefect), h.createDefect)
	api.GET("/defects/deadlines", requirePerm(auth.ChangeDefect), h.defectDeadlines)
	api.GET("/defects/:id", requirePerm(auth.ViewCustomer), h.getDefect)
	api.PUT("/defects/:id", requirePerm(auth.ChangeDefect), h.updateDefect)
	api.DELETE("/defects/:id", requirePerm(auth.ChangeDefect), h.deleteDefect)
	api.POST("/defects/:id/solve", requirePerm(auth.ChangeDefect), h.solveDefect)
	api.GET("/incidents", requirePerm(auth.ViewCustomer), h.listIncidents)

	api.POST("/customers/:id/files", requirePerm(auth.ManageFiles), h.uploadFile)
	api.GET("/files/:id/url", requirePerm(auth.ViewCustomer), h.fileURL)
	api.DELETE("/files/:id", requirePerm(auth.ManageFiles), h.deleteFile)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// requestLogWriter feeds gin's access log into logrus when it can.
func requestLogWriter(logger logrus.FieldLogger) io.Writer {
	switch l := logger.(type) {
	case *logrus.Logger:
		return l.Writer()
	case *logrus.Entry:
		return l.Writer()
	}
	return logrus.StandardLogger().Writer()
}
