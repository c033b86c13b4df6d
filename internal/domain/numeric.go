package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimalOrZero parses a decimal string from the API into a float64,
// returning 0 for empty, null, or malformed input. The API serializes most
// USD amounts as strings and occasionally omits them; aggregation is kept
// total-resilient by defaulting at this boundary instead of failing.
func ParseDecimalOrZero(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
