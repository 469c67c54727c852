package event_bus

import (
	"time"

	"github.com/familytrip/tripplanner/pkg/datekey"
)

const (
	TypeItineraryDaySaved EventType = "itinerary.day.saved"
	TypeDateSelected      EventType = "planner.date.selected"
	TypeMonthChanged      EventType = "planner.month.changed"
)

// ItineraryDaySaved is published after a day's itinerary was written or removed.
type ItineraryDaySaved struct {
	Date       datekey.DateKey
	Entries    int
	HasContent bool
}

type DateSelected struct {
	Previous datekey.DateKey
	Date     datekey.DateKey
}

type MonthChanged struct {
	Year  int
	Month time.Month
}
