package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	defaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ExpiryHorizonDays != 30 || cfg.Location != time.UTC {
		t.Fatalf("unexpected horizon/location %d %v", cfg.ExpiryHorizonDays, cfg.Location)
	}
	if cfg.MinIO.Enabled() {
		t.Fatalf("minio should be disabled without endpoint")
	}
	if err := cfg.RequireJWT(); err == nil {
		t.Fatalf("expected missing JWT secret error")
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"CORS_ALLOWED_ORIGINS":     "http://a.test, http://b.test,",
		"TIMEZONE":                 "Asia/Kuala_Lumpur",
		"SHUTDOWN_TIMEOUT_SECONDS": 3,
		"MINIO_ENDPOINT":           "minio:9000",
		"JWT_SECRET":               "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.Location.String() != "Asia/Kuala_Lumpur" {
		t.Fatalf("unexpected location %s", cfg.Location)
	}
	if cfg.ShutdownTimeout != 3*time.Second || !cfg.MinIO.Enabled() {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if err := cfg.RequireJWT(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidation(t *testing.T) {
	if _, err := fromViper(newViper(map[string]any{"EXPIRY_HORIZON_DAYS": 0})); err == nil {
		t.Fatalf("expected horizon error")
	}
	if _, err := fromViper(newViper(map[string]any{"TIMEZONE": "Mars/Olympus"})); err == nil {
		t.Fatalf("expected timezone error")
	}
	if _, err := fromViper(newViper(map[string]any{"DB_DSN": ""})); err == nil {
		t.Fatalf("expected dsn error")
	}
}
