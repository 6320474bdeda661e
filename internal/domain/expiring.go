package domain

import "time"

// ItemKind names the record types tracked for expiry.
type ItemKind string

const (
	KindInsurance ItemKind = "insurance"
	KindWarranty  ItemKind = "warranty"
	KindLiability ItemKind = "liability"
)

// ExpiringItem is a tracked record reduced to the date that decides its
// status, with enough context to display it.
type ExpiringItem struct {
	Kind         ItemKind  `json:"kind"`
	Ref          string    `json:"ref"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Label        string    `json:"label"`
	Date         time.Time `json:"date"`
}
