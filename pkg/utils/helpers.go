package utils

import (
	"strconv"
	"strings"
)

// ParseNullableFloat parses a CSV cell into a nullable float. Empty
// cells and unparseable values map to nil rather than an error, so
// sparse early-history rows load cleanly.
func ParseNullableFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FormatFloat renders a float with the shortest representation that
// round-trips, keeping exported tables byte-stable across runs.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatNullableFloat renders nil as an empty cell.
func FormatNullableFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatFloat(*v)
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}
