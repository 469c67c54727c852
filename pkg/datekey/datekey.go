// Package datekey maps calendar days to the string keys their records are stored under.
//
// A key is always derived from the local calendar fields of a time (year, month, day in
// the time's own location). Converting to UTC first would move late-evening times onto
// the next day's key.
package datekey

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateKey identifies one calendar day, formatted "YYYY-MM-DD". The zero value means no date.
type DateKey string

const (
	layout      = "2006-01-02"
	costsPrefix = "COSTS2:"
)

var ErrInvalidDateKey = errors.New("invalid date key")

var shape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Encode returns the key of the calendar day t falls on in its own location.
func Encode(t time.Time) DateKey {
	return Of(t.Year(), t.Month(), t.Day())
}

// Of builds a key from calendar components without normalising them.
func Of(year int, month time.Month, day int) DateKey {
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", year, int(month), day))
}

// Parse validates s as a key of an existing calendar day.
func Parse(s string) (DateKey, error) {
	if !shape.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
	}
	if _, err := time.Parse(layout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
	}
	return DateKey(s), nil
}

// IsKey reports whether s has the shape of a date key. Used when scanning a store
// that holds other kinds of keys too.
func IsKey(s string) bool {
	return shape.MatchString(s)
}

// Decode rebuilds midnight of the key's day in loc.
func Decode(k DateKey, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(layout, string(k), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, string(k))
	}
	return t, nil
}

// CostKey is the storage key of the cost record belonging to k.
func CostKey(k DateKey) string {
	return costsPrefix + string(k)
}

func (k DateKey) IsZero() bool {
	return k == ""
}

func (k DateKey) String() string {
	return string(k)
}

// Components splits a well-formed key; ok is false otherwise.
func (k DateKey) Components() (year int, month time.Month, day int, ok bool) {
	t, err := time.Parse(layout, string(k))
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Year(), t.Month(), t.Day(), true
}
