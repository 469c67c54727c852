package planner

import (
	"context"
	"testing"
	"time"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/internal/utils"
	"github.com/familytrip/tripplanner/pkg/calendar"
	"github.com/familytrip/tripplanner/pkg/cost"
	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/familytrip/tripplanner/pkg/itinerary"
	"github.com/familytrip/tripplanner/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

// newTestPlanner builds a started planner on kv, the way a fresh page load does.
func newTestPlanner(t *testing.T, kv storage.Store, now time.Time) *Planner {
	bus := event_bus.NewEventBus()
	itineraries := itinerary.NewService(itinerary.NewStore(kv), bus)
	costs := cost.NewService(cost.NewRepository(kv), itineraries)
	p := NewPlanner(bus, itineraries, costs, &utils.MockClock{FixedNow: now}, itinerary.BulkValidationNone)
	t.Cleanup(p.Close)
	require.NoError(t, p.Start(ctx))
	return p
}

func march(day int) time.Time {
	return time.Date(2025, time.March, day, 9, 0, 0, 0, time.Local)
}

func addEntry(t *testing.T, p *Planner, hour, minute int, description string) {
	row, err := p.Editor().BeginNew()
	require.NoError(t, err)
	_, err = p.Editor().SetDraft(row.ID, hour, minute, description)
	require.NoError(t, err)
	require.NoError(t, p.Editor().Commit(ctx, row.ID))
}

func classesAt(t *testing.T, grid calendar.Grid, key datekey.DateKey) []string {
	row, col, ok := grid.Find(key)
	require.True(t, ok, "%s not in grid %s", key, grid.Title)
	return grid.Weeks[row][col].Classes
}

func TestPlanner_StartOpensToday(t *testing.T) {
	p := newTestPlanner(t, storage.NewMemoryStore(), march(5))

	assert.Equal(t, datekey.DateKey("2025-03-05"), p.Session().Selected())
	assert.Equal(t, datekey.DateKey("2025-03-05"), p.Editor().Date())
	assert.True(t, p.Editor().ShowsPlaceholder())
	assert.Equal(t, "2025 年 3 月", p.Grid().Title)
	assert.Equal(t, []string{calendar.ClassTodaySelected}, classesAt(t, p.Grid(), "2025-03-05"))
}

func TestPlanner_StartPurgesEmptyRecords(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, "2025-03-01", itinerary.PlaceholderText))
	require.NoError(t, kv.Set(ctx, "2025-03-02", " "))

	newTestPlanner(t, kv, march(5))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPlanner_EntrySurvivesReload(t *testing.T) {
	// given
	kv := storage.NewMemoryStore()
	first := newTestPlanner(t, kv, march(5))
	require.NoError(t, first.SelectDate(ctx, "2025-03-10"))
	addEntry(t, first, 14, 30, "SceneryPark")

	// when
	reloaded := newTestPlanner(t, kv, march(5))
	require.NoError(t, reloaded.SelectDate(ctx, "2025-03-10"))

	// then
	assert.Equal(t, []string{"14:30 SceneryPark"}, reloaded.Editor().Snapshot().Lines())
	require.NoError(t, reloaded.SelectDate(ctx, "2025-03-12"))
	assert.Equal(t, []string{calendar.ClassHasContent}, classesAt(t, reloaded.Grid(), "2025-03-10"))
	assert.Equal(t, []string{calendar.ClassSelected}, classesAt(t, reloaded.Grid(), "2025-03-12"))
}

func TestPlanner_CalendarFollowsSavedEntries(t *testing.T) {
	p := newTestPlanner(t, storage.NewMemoryStore(), march(5))
	require.NoError(t, p.SelectDate(ctx, "2025-03-10"))
	assert.Equal(t, []string{calendar.ClassSelected}, classesAt(t, p.Grid(), "2025-03-10"))

	addEntry(t, p, 8, 0, "Zoo")

	assert.Equal(t, []string{calendar.ClassHasContent, calendar.ClassSelected}, classesAt(t, p.Grid(), "2025-03-10"))
}

func TestPlanner_SwitchingDaysKeepsEachDay(t *testing.T) {
	p := newTestPlanner(t, storage.NewMemoryStore(), march(5))
	require.NoError(t, p.SelectDate(ctx, "2025-03-10"))
	addEntry(t, p, 14, 30, "SceneryPark")
	require.NoError(t, p.SelectDate(ctx, "2025-03-11"))
	assert.True(t, p.Editor().ShowsPlaceholder())
	addEntry(t, p, 9, 0, "Museum")

	require.NoError(t, p.SelectDate(ctx, "2025-03-10"))

	assert.Equal(t, []string{"14:30 SceneryPark"}, p.Editor().Snapshot().Lines())
}

func TestPlanner_ClickSelectsCellDate(t *testing.T) {
	p := newTestPlanner(t, storage.NewMemoryStore(), march(5))

	require.NoError(t, p.Click(ctx, 2, 3))

	assert.Equal(t, datekey.DateKey("2025-03-12"), p.Session().Selected())
	assert.Equal(t, datekey.DateKey("2025-03-12"), p.Editor().Date())
	assert.ErrorIs(t, p.Click(ctx, 0, 0), ErrBlankCell)
}

func TestPlanner_MonthNavigation(t *testing.T) {
	// given
	p := newTestPlanner(t, storage.NewMemoryStore(), march(5))
	require.NoError(t, p.SelectDate(ctx, "2025-03-10"))
	addEntry(t, p, 8, 0, "Zoo")
	_, err := p.Editor().BeginNew()
	require.NoError(t, err)

	// when
	require.NoError(t, p.ShowNextMonth(ctx))

	// then
	assert.Equal(t, "2025 年 4 月", p.Grid().Title)
	assert.Equal(t, datekey.DateKey("2025-03-10"), p.Editor().Date())
	// the pending new row is gone after the reload
	assert.Len(t, p.Editor().Rows(), 1)

	require.NoError(t, p.ShowPreviousMonth(ctx))
	require.NoError(t, p.ShowPreviousMonth(ctx))
	assert.Equal(t, "2025 年 2 月", p.Grid().Title)
}

func TestPlanner_MonthWrapsAcrossYears(t *testing.T) {
	p := newTestPlanner(t, storage.NewMemoryStore(), time.Date(2024, time.December, 31, 23, 0, 0, 0, time.Local))

	require.NoError(t, p.ShowNextMonth(ctx))

	year, month := p.Session().VisibleMonth()
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.January, month)
}

func TestPlanner_SelectingOtherMonthShowsIt(t *testing.T) {
	p := newTestPlanner(t, storage.NewMemoryStore(), march(5))

	require.NoError(t, p.SelectDate(ctx, "2025-05-01"))

	assert.Equal(t, "2025 年 5 月", p.Grid().Title)
	assert.Equal(t, []string{calendar.ClassSelected}, classesAt(t, p.Grid(), "2025-05-01"))
}

func TestPlanner_ReloadsDaySavedElsewhere(t *testing.T) {
	// given
	kv := storage.NewMemoryStore()
	p := newTestPlanner(t, kv, march(5))
	zoo := itinerary.DayItinerary{Entries: []itinerary.Entry{{Hour: 8, Description: "Zoo"}}}

	// when
	require.NoError(t, p.itineraries.SaveDay(ctx, "2025-03-05", zoo))
	require.NoError(t, p.SelectDate(ctx, "2025-03-06"))

	// then
	day, err := p.itineraries.GetDay(ctx, "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00 Zoo"}, day.Lines())
	require.NoError(t, p.SelectDate(ctx, "2025-03-05"))
	assert.Len(t, p.Editor().Rows(), 1)
}

func TestPlanner_EditorFollowsDaySavedElsewhere(t *testing.T) {
	p := newTestPlanner(t, storage.NewMemoryStore(), march(5))
	zoo := itinerary.DayItinerary{Entries: []itinerary.Entry{{Hour: 8, Description: "Zoo"}}}

	require.NoError(t, p.itineraries.SaveDay(ctx, "2025-03-05", zoo))

	assert.Equal(t, []string{"08:00 Zoo"}, p.Editor().Snapshot().Lines())
	assert.False(t, p.Editor().ShowsPlaceholder())
}

func TestPlanner_UnreadableDayIsKeptWhenUntouched(t *testing.T) {
	// given
	kv := storage.NewMemoryStore()
	legacy := "<div>08:00 Zoo</div>"
	require.NoError(t, kv.Set(ctx, "2025-03-05", legacy))
	p := newTestPlanner(t, kv, march(5))
	require.True(t, p.Editor().ShowsPlaceholder())

	// when
	require.NoError(t, p.SelectDate(ctx, "2025-03-06"))

	// then
	stored, found, err := kv.Get(ctx, "2025-03-05")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, legacy, stored)
	assert.Equal(t, []string{calendar.ClassHasContent}, classesAt(t, p.Grid(), "2025-03-05"))
}
