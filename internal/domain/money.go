package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a decimal amount such as "1,250.50" into cents. Blank
// input is zero.
func ParseAmount(field, s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, Invalid(field, "must have at most two decimal places")
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 || strings.HasPrefix(whole, "+") {
		return 0, Invalid(field, "must be a non-negative amount")
	}
	if units > (math.MaxInt64-99)/100 {
		return 0, Invalid(field, "is too large")
	}
	var cents int64
	if hasFrac {
		frac += strings.Repeat("0", 2-len(frac))
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 || strings.HasPrefix(frac, "+") || strings.HasPrefix(frac, "-") {
			return 0, Invalid(field, "must be a non-negative amount")
		}
	}
	return units*100 + cents, nil
}
