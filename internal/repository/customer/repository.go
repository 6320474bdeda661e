package customer

import (
	"context"

	"insurance-tracker/internal/domain"
)

// SearchFields maps the accepted search selectors to their columns. "all"
// matches any of them.
var SearchFields = map[string][]string{
	"name":    {"name"},
	"id":      {"id"},
	"email":   {"email"},
	"address": {"address"},
	"phone":   {"phone"},
	"all":     {"name", "id", "email", "address", "phone"},
}

// SortKeys maps the accepted sort keys to their columns.
var SortKeys = map[string]string{
	"id_customer":   "id",
	"customer_name": "name",
	"email":         "email",
	"phone_num":     "phone",
}

// DefaultSortKey orders lists when no valid key is given.
const DefaultSortKey = "customer_name"

// Filter narrows a customer listing.
type Filter struct {
	Search string
	Field  string
}

// ListQuery is a Filter plus ordering and paging.
type ListQuery struct {
	Filter
	SortKey string
	Desc    bool
	Limit   int
	Offset  int
}

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f Filter) (int, error)
	List(ctx context.Context, q ListQuery) ([]domain.Customer, error)
}
