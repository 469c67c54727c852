package itinerary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	MinuteStep = 5
	// PlaceholderText is what an empty day shows instead of entries. Older clients persisted
	// it verbatim, so stored content containing it counts as no content.
	PlaceholderText = "今日尚無行程"
)

var (
	ErrInvalidTime       = errors.New("invalid time of day")
	ErrEmptyDescription  = errors.New("description must not be empty")
	ErrNewRowPending     = errors.New("a new entry is already being added")
	ErrRowNotFound       = errors.New("itinerary row not found")
	ErrNotEditing        = errors.New("entries can only be deleted in edit mode")
	ErrEditModeActive    = errors.New("single entries cannot be edited while edit mode is on")
	ErrRowNotEditable    = errors.New("row is not being edited")
	ErrInvalidValidation = errors.New("unknown bulk validation policy")
)

// Entry is one timed item of a day's itinerary.
type Entry struct {
	Hour        int
	Minute      int
	Description string
}

// MinuteOfDay is the ordering key of the entry.
func (e Entry) MinuteOfDay() int {
	return e.Hour*60 + e.Minute
}

// Time renders the entry time as "HH:MM".
func (e Entry) Time() string {
	return fmt.Sprintf("%02d:%02d", e.Hour, e.Minute)
}

func (e Entry) String() string {
	return e.Time() + " " + e.Description
}

// ValidateTime checks hour in 0..23 and minute on the five-minute grid.
func ValidateTime(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidTime, hour)
	}
	if minute < 0 || minute > 55 || minute%MinuteStep != 0 {
		return fmt.Errorf("%w: minute %d", ErrInvalidTime, minute)
	}
	return nil
}

// Validate checks the time grid and requires a non-blank description.
func (e Entry) Validate() error {
	if err := ValidateTime(e.Hour, e.Minute); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// DayItinerary holds the entries of one day. No entries means the day shows the placeholder.
type DayItinerary struct {
	Entries []Entry
}

func (d DayItinerary) IsEmpty() bool {
	return len(d.Entries) == 0
}

// Sorted returns a copy ordered by time of day; entries at the same time keep their order.
func (d DayItinerary) Sorted() DayItinerary {
	entries := append([]Entry(nil), d.Entries...)
	SortEntries(entries)
	return DayItinerary{Entries: entries}
}

// SortEntries orders entries in place by time of day, stable on ties.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MinuteOfDay() < entries[j].MinuteOfDay()
	})
}

// Lines renders the day the way it is listed to the user.
func (d DayItinerary) Lines() []string {
	if d.IsEmpty() {
		return []string{PlaceholderText}
	}
	lines := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		lines = append(lines, e.String())
	}
	return lines
}
