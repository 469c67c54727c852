// Package planner drives one planning session: the visible month, the selected day, the
// itinerary editor of that day and the cost comparison modal.
package planner

import (
	"context"
	"time"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/pkg/datekey"
)

// Session owns the month shown by every calendar and the day selected in the main planner.
// Changes are announced on the event bus.
type Session struct {
	bus      *event_bus.EventBus
	year     int
	month    time.Month
	selected datekey.DateKey
}

func NewSession(bus *event_bus.EventBus, year int, month time.Month) *Session {
	s := &Session{bus: bus}
	s.year, s.month = normaliseMonth(year, month)
	return s
}

func normaliseMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

func (s *Session) VisibleMonth() (int, time.Month) {
	return s.year, s.month
}

func (s *Session) Selected() datekey.DateKey {
	return s.selected
}

func (s *Session) SelectDate(ctx context.Context, key datekey.DateKey) error {
	previous := s.selected
	s.selected = key
	return s.bus.Publish(event_bus.NewEvent(ctx, event_bus.TypeDateSelected, event_bus.DateSelected{
		Previous: previous,
		Date:     key,
	}))
}

func (s *Session) ShowMonth(ctx context.Context, year int, month time.Month) error {
	s.year, s.month = normaliseMonth(year, month)
	return s.bus.Publish(event_bus.NewEvent(ctx, event_bus.TypeMonthChanged, event_bus.MonthChanged{
		Year:  s.year,
		Month: s.month,
	}))
}

func (s *Session) ShowPreviousMonth(ctx context.Context) error {
	return s.ShowMonth(ctx, s.year, s.month-1)
}

func (s *Session) ShowNextMonth(ctx context.Context) error {
	return s.ShowMonth(ctx, s.year, s.month+1)
}
