// Package importer loads insurance policies from CSV exports.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	insurancesvc "insurance-tracker/internal/service/insurance"
)

type PolicyWriter interface {
	Upsert(ctx context.Context, in domain.Insurance) (*domain.Insurance, error)
}

// columns maps each field to the header names accepted for it. The second
// name is the column name of the legacy spreadsheet export.
var columns = map[string][]string{
	"policy_no":       {"policy_no", "no_insurance"},
	"customer_id":     {"customer_id", "id_customer"},
	"insurer":         {"insurer", "ins_co"},
	"sum_amount":      {"sum_amount"},
	"total_payable":   {"total_payable"},
	"starting_period": {"starting_period"},
	"end_period":      {"end_period"},
	"status":          {"status"},
}

var required = []string{"policy_no", "customer_id", "starting_period", "end_period"}

// RowError is a rejected row. Line is the row's line in the input file.
type RowError struct {
	Line     int
	PolicyNo string
	Err      error
}

func (e RowError) Error() string {
	if e.PolicyNo == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.PolicyNo, e.Err)
}

// Result summarises one import run.
type Result struct {
	Imported int
	Skipped  int
	Errors   []RowError
}

// CSVImporter reads policy rows and upserts every valid one. Invalid rows
// are reported and skipped.
type CSVImporter struct {
	reader *csv.Reader
	repo   PolicyWriter
	logger logrus.FieldLogger
}

func NewCSVImporter(r io.Reader, repo PolicyWriter, logger logrus.FieldLogger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader: csvr,
		repo:   repo,
		logger: logging.OrDiscard(logger),
	}
}

// Run imports every row. It only fails outright on an unreadable header,
// a malformed CSV stream, or a cancelled context.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, field := range required {
		if _, ok := index[field]; !ok {
			return res, fmt.Errorf("missing required column %q", field)
		}
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		line, _ := i.reader.FieldPos(0)

		in, ok := parseRow(record, index)
		if !ok {
			res.Skipped++
			continue
		}
		if err := i.save(ctx, in); err != nil {
			if !domain.IsValidation(err) && !errors.Is(err, domain.ErrNotFound) {
				return res, fmt.Errorf("line %d (%s): %w", line, in.PolicyNo, err)
			}
			res.Errors = append(res.Errors, RowError{Line: line, PolicyNo: in.PolicyNo, Err: err})
			i.logger.WithError(err).WithField("line", line).Warn("policy row rejected")
			continue
		}
		res.Imported++
	}
	return res, nil
}

func (i *CSVImporter) save(ctx context.Context, in insurancesvc.Input) error {
	p, err := in.Parse()
	if err != nil {
		return err
	}
	_, err = i.repo.Upsert(ctx, p)
	return err
}

// headerIndex resolves each field to its column, accepting any of the
// field's header names case-insensitively.
func headerIndex(headers []string) map[string]int {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := byName[h]; !dup {
			byName[h] = i
		}
	}
	idx := make(map[string]int, len(columns))
	for field, names := range columns {
		for _, n := range names {
			if pos, ok := byName[n]; ok {
				idx[field] = pos
				break
			}
		}
	}
	return idx
}

// parseRow reports false for blank rows.
func parseRow(record []string, index map[string]int) (insurancesvc.Input, bool) {
	in := insurancesvc.Input{
		PolicyNo:       pick(record, index, "policy_no"),
		CustomerID:     pick(record, index, "customer_id"),
		Insurer:        pick(record, index, "insurer"),
		SumAmount:      pick(record, index, "sum_amount"),
		TotalPayable:   pick(record, index, "total_payable"),
		StartingPeriod: pick(record, index, "starting_period"),
		EndPeriod:      pick(record, index, "end_period"),
		Status:         pick(record, index, "status"),
	}
	if in == (insurancesvc.Input{}) {
		return in, false
	}
	return in, true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
