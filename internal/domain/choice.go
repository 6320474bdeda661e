package domain

import (
	"slices"
	"strings"
)

// OtherOption is the selector that switches a choice field to free text.
const OtherOption = "Other"

// Choice is either one of a field's preset options or caller-supplied text.
type Choice struct {
	Value  string `json:"value"`
	Custom bool   `json:"custom"`
}

func (c Choice) String() string { return c.Value }

// IsZero reports an unset choice.
func (c Choice) IsZero() bool { return c.Value == "" }

// ChoiceSet describes the options a choice field accepts.
type ChoiceSet struct {
	Field    string
	Presets  []string
	Required bool
	// BareOther keeps "Other" itself when no text accompanies it.
	BareOther bool
}

// Resolve turns a form selection plus its free-text companion into a Choice.
// Preset names match case-insensitively.
func (s ChoiceSet) Resolve(selected, other string) (Choice, error) {
	selected = strings.TrimSpace(selected)
	other = strings.TrimSpace(other)
	if selected == "" {
		if s.Required {
			return Choice{}, Invalid(s.Field, "required")
		}
		return Choice{}, nil
	}
	if strings.EqualFold(selected, OtherOption) {
		if other != "" {
			return s.FromStored(other), nil
		}
		if s.BareOther {
			return Choice{Value: OtherOption}, nil
		}
		return Choice{}, Invalid(s.Field, "you selected Other but did not specify a value")
	}
	for _, p := range s.Presets {
		if strings.EqualFold(p, selected) {
			return Choice{Value: p}, nil
		}
	}
	return Choice{}, Invalid(s.Field, "unknown option "+selected)
}

// FromStored rebuilds a Choice from its persisted text.
func (s ChoiceSet) FromStored(v string) Choice {
	if v == "" {
		return Choice{}
	}
	if slices.Contains(s.Presets, v) || (s.BareOther && v == OtherOption) {
		return Choice{Value: v}
	}
	return Choice{Value: v, Custom: true}
}
