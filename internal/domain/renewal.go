package domain

import "time"

// RenewalNotice marks one yearly renewal checkpoint of a policy as due.
// A notice exists at most once per (policy, year) and only moves from
// pending to dismissed.
type RenewalNotice struct {
	ID          int64     `json:"id"`
	PolicyNo    string    `json:"policyNo"`
	RenewalYear int       `json:"renewalYear"`
	DueDate     time.Time `json:"dueDate"`
	Dismissed   bool      `json:"dismissed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PendingRenewal is a notice joined with the policy owner for display.
type PendingRenewal struct {
	RenewalNotice
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Insurer      string    `json:"insurer"`
	EndPeriod    time.Time `json:"endPeriod"`
}
