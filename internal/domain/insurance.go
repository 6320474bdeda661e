package domain

import (
	"strings"
	"time"
)

// Insurance is a multi-year policy identified by its policy number.
type Insurance struct {
	PolicyNo          string    `json:"policyNo"`
	CustomerID        string    `json:"customerId"`
	Insurer           string    `json:"insurer"`
	SumAmountCents    int64     `json:"sumAmountCents"`
	TotalPayableCents int64     `json:"totalPayableCents"`
	StartingPeriod    time.Time `json:"startingPeriod"`
	EndPeriod         time.Time `json:"endPeriod"`
	Status            string    `json:"status"`
}

// Validate rejects policies the renewal math cannot handle.
func (i Insurance) Validate() error {
	if strings.TrimSpace(i.PolicyNo) == "" {
		return Invalid("policyNo", "required")
	}
	if strings.TrimSpace(i.CustomerID) == "" {
		return Invalid("customerId", "required")
	}
	if i.StartingPeriod.IsZero() {
		return Invalid("startingPeriod", "required")
	}
	if i.EndPeriod.IsZero() {
		return Invalid("endPeriod", "required")
	}
	if i.EndPeriod.Before(i.StartingPeriod) {
		return Invalid("endPeriod", "must not be before startingPeriod")
	}
	if i.SumAmountCents < 0 || i.TotalPayableCents < 0 {
		return Invalid("amount", "must not be negative")
	}
	return nil
}
