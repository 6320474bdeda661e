package domain

import (
	"strings"
	"time"
)

// WarrantyProducts are the product names offered when recording a warranty.
var WarrantyProducts = ChoiceSet{
	Field: "product",
	Presets: []string{
		"Inverter",
		"String Inverter",
		"Hybrid Inverter",
		"Battery-based Inverter",
		"Micro Inverter",
		"Central Optimiser",
		"Central Inverter",
	},
	Required: true,
}

// Warranty covers one installed product for a date range.
type Warranty struct {
	ID         int64     `json:"id"`
	CustomerID string    `json:"customerId"`
	Product    Choice    `json:"product"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Details    string    `json:"details"`
}

func (w Warranty) Validate() error {
	if strings.TrimSpace(w.CustomerID) == "" {
		return Invalid("customerId", "required")
	}
	if w.Product.IsZero() {
		return Invalid("product", "required")
	}
	if w.StartDate.IsZero() {
		return Invalid("startDate", "required")
	}
	if w.EndDate.IsZero() {
		return Invalid("endDate", "required")
	}
	if w.EndDate.Before(w.StartDate) {
		return Invalid("endDate", "must not be before startDate")
	}
	return nil
}
