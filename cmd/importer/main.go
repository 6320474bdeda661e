package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/config"
	"insurance-tracker/internal/db"
	"insurance-tracker/internal/importer"
	"insurance-tracker/internal/logging"
	insurancerepo "insurance-tracker/internal/repository/insurance"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to insurance policy CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment).WithField("app", "importer")
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.WithError(err).Fatal("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, insurancerepo.NewPostgres(pool, logger), logger)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.WithError(err).Fatal("import failed")
	}

	for _, rowErr := range res.Errors {
		fmt.Fprintln(os.Stderr, rowErr.Error())
	}
	fmt.Printf("Imported %d policies (%d rejected, %d blank) in %s\n",
		res.Imported, len(res.Errors), res.Skipped, time.Since(start).Truncate(time.Millisecond))
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}
