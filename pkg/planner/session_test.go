package planner

import (
	"testing"
	"time"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AnnouncesChanges(t *testing.T) {
	// given
	bus := event_bus.NewEventBus()
	session := NewSession(bus, 2025, time.March)
	var months []event_bus.MonthChanged
	var selections []event_bus.DateSelected
	event_bus.SubscribeTyped(bus, event_bus.TypeMonthChanged, func(e event_bus.EventT[event_bus.MonthChanged]) error {
		months = append(months, e.Data)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.TypeDateSelected, func(e event_bus.EventT[event_bus.DateSelected]) error {
		selections = append(selections, e.Data)
		return nil
	})

	// when
	require.NoError(t, session.SelectDate(ctx, "2025-03-10"))
	require.NoError(t, session.SelectDate(ctx, "2025-03-11"))
	require.NoError(t, session.ShowPreviousMonth(ctx))
	require.NoError(t, session.ShowPreviousMonth(ctx))
	require.NoError(t, session.ShowPreviousMonth(ctx))

	// then
	assert.Equal(t, []event_bus.DateSelected{
		{Previous: "", Date: "2025-03-10"},
		{Previous: "2025-03-10", Date: "2025-03-11"},
	}, selections)
	assert.Equal(t, []event_bus.MonthChanged{
		{Year: 2025, Month: time.February},
		{Year: 2025, Month: time.January},
		{Year: 2024, Month: time.December},
	}, months)
	assert.Equal(t, datekey.DateKey("2025-03-11"), session.Selected())
}

func TestNewSession_NormalisesMonth(t *testing.T) {
	session := NewSession(event_bus.NewEventBus(), 2025, 0)

	year, month := session.VisibleMonth()

	assert.Equal(t, 2024, year)
	assert.Equal(t, time.December, month)
}
