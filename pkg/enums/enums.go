// Package enums holds the string enums persisted on orders and exposed
// through the admin API. Parsing is strict: values are matched exactly as
// stored, and anything else is rejected so bad filter input surfaces as a
// 400 instead of an empty result set.
package enums

import "fmt"

func parseMember[T ~string](valid []T, value, label string) (T, error) {
	for _, candidate := range valid {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", label, value)
}

func isMember[T ~string](valid []T, value T) bool {
	for _, candidate := range valid {
		if candidate == value {
			return true
		}
	}
	return false
}
