package main

import (
	"context"
	"flag"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/auth"
	"insurance-tracker/internal/config"
	"insurance-tracker/internal/db"
	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	"insurance-tracker/internal/migrate"
	"insurance-tracker/internal/seed"
)

func main() {
	var tokenTTL time.Duration
	flag.DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "Lifetime of the printed demo token (needs JWT_SECRET)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment).WithField("app", "seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, logger); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	now := time.Now()
	if err := seed.Apply(ctx, pool, domain.Today(now, cfg.Location), logger); err != nil {
		logger.WithError(err).Fatal("seed apply")
	}

	if cfg.JWTSecret == "" {
		logger.Info("seed applied; set JWT_SECRET to print a demo token")
		return
	}
	tok, err := auth.Sign(cfg.JWTSecret, "demo-admin", auth.All, tokenTTL, now)
	if err != nil {
		logger.WithError(err).Fatal("sign demo token")
	}
	fmt.Printf("Demo token (all permissions, valid %s):\n%s\n", tokenTTL, tok)
}
