package pipeline

import (
	"cmp"
	"slices"
	"strings"

	"rosterscraper/internal/models"
)

// SortByID orders records by their first column. Numeric ids compare by
// value and sort before non-numeric ones such as "-". Ties keep their order.
func SortByID(records []models.Record) {
	slices.SortStableFunc(records, func(a, b models.Record) int {
		return CompareIDs(a.Get(0), b.Get(0))
	})
}

// CompareIDs compares two entity ids.
func CompareIDs(a, b string) int {
	an, bn := isDigits(a), isDigits(b)
	switch {
	case an && bn:
		a, b = trimZeros(a), trimZeros(b)
		if len(a) != len(b) {
			return cmp.Compare(len(a), len(b))
		}
		return strings.Compare(a, b)
	case an:
		return -1
	case bn:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}
