package domain

import (
	"strings"
	"time"
)

// InChargeChoices lists the staff who can own a customer account.
var InChargeChoices = ChoiceSet{
	Field:   "inCharge",
	Presets: []string{"Alwin", "Henry", "Vanessa", "Loh"},
}

// ProposalByChoices lists the engineers who prepare proposals. The same
// names are offered for the engineers field.
var ProposalByChoices = ChoiceSet{
	Field:   "proposalBy",
	Presets: []string{"Haziq", "Asyraf", "Faqihah", "Farah", "Loh"},
}

// Customer is the root record; policies, warranties, defects and files
// belong to exactly one customer.
type Customer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	InCharge    Choice     `json:"inCharge"`
	ProposalBy  Choice     `json:"proposalBy"`
	Engineers   []string   `json:"engineers"`
	Installer   string     `json:"installer"`
	InstalledOn *time.Time `json:"installedOn,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate checks the fields every write requires.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return Invalid("id", "required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("name", "required")
	}
	return nil
}

// JoinEngineers renders the engineers list for storage.
func JoinEngineers(names []string) string {
	return strings.Join(names, ",")
}

// SplitEngineers parses a stored engineers list.
func SplitEngineers(s string) []string {
	out := []string{}
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// MergeEngineers combines the ticked names with a comma separated list of
// extra names, dropping blanks and repeats.
func MergeEngineers(selected []string, extra string) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	for _, n := range selected {
		add(n)
	}
	for _, n := range strings.Split(extra, ",") {
		add(n)
	}
	return out
}
