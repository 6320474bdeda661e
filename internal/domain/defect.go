package domain

import (
	"strings"
	"time"
)

// DefectTypes are the preset defect causes. A bare "Other" is kept as is.
var DefectTypes = ChoiceSet{
	Field:     "type",
	Presets:   []string{"Lighting Strike", "Fire Disaster"},
	BareOther: true,
}

type DefectStatus string

const (
	DefectPending DefectStatus = "Pending"
	DefectSolved  DefectStatus = "Solved"
)

// Defect records either a liability period (no accident date) or an
// incident (accident date set).
type Defect struct {
	ID                 int64        `json:"id"`
	CustomerID         string       `json:"customerId"`
	ReportDate         time.Time    `json:"reportDate"`
	AccidentDate       *time.Time   `json:"accidentDate,omitempty"`
	ResolutionDeadline time.Time    `json:"resolutionDeadline"`
	Type               Choice       `json:"type"`
	Status             DefectStatus `json:"status"`
}

// IsIncident reports whether the record is a reported accident rather than
// a liability period.
func (d Defect) IsIncident() bool {
	return d.AccidentDate != nil
}

func (d Defect) Validate() error {
	if strings.TrimSpace(d.CustomerID) == "" {
		return Invalid("customerId", "required")
	}
	if d.ReportDate.IsZero() {
		return Invalid("reportDate", "required")
	}
	if d.ResolutionDeadline.IsZero() {
		return Invalid("resolutionDeadline", "required")
	}
	switch d.Status {
	case DefectPending, DefectSolved:
	default:
		return Invalid("status", "must be Pending or Solved")
	}
	return nil
}
