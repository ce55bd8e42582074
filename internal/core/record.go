package core

import (
	"strings"
	"time"
)

// DateFormat is the calendar date layout used everywhere a record date
// crosses a boundary: input, storage and query parameters.
const DateFormat = "2006-01-02"

// Record is one expense entry. ID and CreatedAt are assigned exactly once at
// insertion; Date is user-editable and independent of CreatedAt, which serves
// as the stable sort key for every listing.
type Record struct {
	ID          string
	Amount      float64
	Category    string
	Description string
	Owner       string
	Date        string // YYYY-MM-DD
	CreatedAt   time.Time
}

// Validate checks the field-level invariants: positive amount, non-blank
// description and a well-formed date. Registry membership (category, owner)
// is the engine's concern, not the record's.
func (r Record) Validate() error {
	if r.Amount <= 0 {
		return &ValidationError{Field: "amount", Value: r.Amount, Reason: "must be positive"}
	}
	if strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Field: "description", Value: r.Description, Reason: "must not be empty"}
	}
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Reason: "must be YYYY-MM-DD"}
	}
	return t.UTC(), nil
}

// Today returns the current date in record form.
func Today() string {
	return time.Now().UTC().Format(DateFormat)
}

// CategoryKey derives a registry key from a display name: lowercase with
// spaces, ampersands and dashes stripped ("Food & Dining" -> "fooddining").
func CategoryKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, cut := range []string{" ", "&", "-"} {
		key = strings.ReplaceAll(key, cut, "")
	}
	return key
}
