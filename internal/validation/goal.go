package validation

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const DateLayout = "2006-01-02"

// ValidateTargetDate accepts an empty value or a calendar date in YYYY-MM-DD form.
func ValidateTargetDate(date string) error {
	if date == "" {
		return nil
	}
	_, err := time.Parse(DateLayout, date)
	if err != nil {
		return Invalid("target_date", "target_date must be a date in YYYY-MM-DD format")
	}
	return nil
}

// ValidatePerson requires name to be one of the configured household members.
func ValidatePerson(name string, persons []string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Invalid("person", "person is required")
	}
	if !slices.Contains(persons, trimmed) {
		return Invalid("person", "person must be one of %s", strings.Join(persons, ", "))
	}
	return nil
}

// NormalizeCategory trims the category, falls back to def when empty and
// maps case-insensitive matches of a recommended category onto its
// canonical spelling. Anything else is kept as typed.
func NormalizeCategory(category, def string, recommended []string) (string, error) {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return def, nil
	}
	if len([]rune(trimmed)) > 50 {
		return "", Invalid("category", "category must be at most 50 characters")
	}
	folded := cases.Fold().String(trimmed)
	for _, c := range recommended {
		if cases.Fold().String(c) == folded {
			return c, nil
		}
	}
	return trimmed, nil
}
