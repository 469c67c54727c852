package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"
)

type entryRecord struct {
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	Description string `json:"description"`
}

type dayRecord struct {
	Entries []entryRecord `json:"entries"`
}

// Encode serializes a day for storage.
func Encode(day DayItinerary) (string, error) {
	record := dayRecord{Entries: make([]entryRecord, 0, len(day.Entries))}
	for _, e := range day.Entries {
		record.Entries = append(record.Entries, entryRecord{Hour: e.Hour, Minute: e.Minute, Description: e.Description})
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("could not encode itinerary: %w", err)
	}
	return string(data), nil
}

// Decode parses stored content. Blank and placeholder content decode to an empty day.
func Decode(content string) (DayItinerary, error) {
	if IsBlankContent(content) {
		return DayItinerary{}, nil
	}
	var record dayRecord
	if err := json.Unmarshal([]byte(content), &record); err != nil {
		return DayItinerary{}, fmt.Errorf("could not decode itinerary: %w", err)
	}
	day := DayItinerary{Entries: make([]Entry, 0, len(record.Entries))}
	for _, r := range record.Entries {
		day.Entries = append(day.Entries, Entry{Hour: r.Hour, Minute: r.Minute, Description: r.Description})
	}
	return day, nil
}

// IsBlankContent reports whether stored content holds no itinerary: a record without
// entries, empty or whitespace text, or legacy markup showing the placeholder.
func IsBlankContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return true
	}
	var record dayRecord
	if err := json.Unmarshal([]byte(trimmed), &record); err == nil {
		return len(record.Entries) == 0
	}
	return strings.Contains(trimmed, PlaceholderText)
}
