package customer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/expiry"
	custrepo "insurance-tracker/internal/repository/customer"
)

// PageSize is the number of customers per list page.
const PageSize = 10

// ListQuery carries the raw list parameters from the request.
type ListQuery struct {
	Search string
	Field  string
	Sort   string
	Page   string
}

// Row is one customer with its three group summaries.
type Row struct {
	domain.Customer
	Insurance expiry.Summary `json:"insurance"`
	Warranty  expiry.Summary `json:"warranty"`
	Liability expiry.Summary `json:"liability"`
}

// Page is one page of the customer list.
type Page struct {
	Rows       []Row  `json:"rows"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Total      int    `json:"total"`
	Search     string `json:"search"`
	Field      string `json:"field"`
	Sort       string `json:"sort"`
}

// List searches, sorts and pages customers. Unknown search fields fall back
// to all fields and unknown sort keys to the customer name. A page number
// that is not an integer shows the first page; one outside the range shows
// the last page.
func (s *Service) List(ctx context.Context, q ListQuery, today time.Time) (Page, error) {
	field := strings.TrimSpace(q.Field)
	if _, ok := custrepo.SearchFields[field]; !ok {
		field = "all"
	}
	sortArg, key, desc := normalizeSort(q.Sort)
	filter := custrepo.Filter{Search: strings.TrimSpace(q.Search), Field: field}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("count customers: %w", err)
	}
	pages := max(1, (total+PageSize-1)/PageSize)
	page := pageNumber(q.Page, pages)

	customers, err := s.repo.List(ctx, custrepo.ListQuery{
		Filter:  filter,
		SortKey: key,
		Desc:    desc,
		Limit:   PageSize,
		Offset:  (page - 1) * PageSize,
	})
	if err != nil {
		return Page{}, fmt.Errorf("list customers: %w", err)
	}

	rows := make([]Row, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, s.row(ctx, c, today))
	}
	return Page{
		Rows:       rows,
		Page:       page,
		TotalPages: pages,
		Total:      total,
		Search:     filter.Search,
		Field:      field,
		Sort:       sortArg,
	}, nil
}

// row never fails: a customer whose items cannot be read shows gray.
func (s *Service) row(ctx context.Context, c domain.Customer, today time.Time) Row {
	r := Row{Customer: c, Insurance: expiry.Empty, Warranty: expiry.Empty, Liability: expiry.Empty}
	g, err := s.groups(ctx, c.ID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", c.ID).Warn("customer status unavailable")
		return r
	}
	r.Insurance = s.aggregate(g.insuranceDates(), today)
	r.Warranty = s.aggregate(g.warrantyDates(), today)
	r.Liability = s.aggregate(g.liabilityDates(), today)
	return r
}

func normalizeSort(arg string) (string, string, bool) {
	arg = strings.TrimSpace(arg)
	name, desc := strings.CutPrefix(arg, "-")
	if _, ok := custrepo.SortKeys[name]; !ok {
		return custrepo.DefaultSortKey, custrepo.DefaultSortKey, false
	}
	return arg, name, desc
}

func pageNumber(raw string, pages int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > pages {
		return pages
	}
	return n
}
