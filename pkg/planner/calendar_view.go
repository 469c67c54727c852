package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/internal/utils"
	"github.com/familytrip/tripplanner/pkg/calendar"
	"github.com/familytrip/tripplanner/pkg/datekey"
	log "github.com/sirupsen/logrus"
)

var ErrBlankCell = errors.New("no day at this position")

// CalendarView keeps a rendered grid of the session month up to date. Each view has its own
// selection and click target; views share the month through the session.
type CalendarView struct {
	name      string
	session   *Session
	content   calendar.ContentSource
	clock     utils.Clock
	selection func() datekey.DateKey
	onSelect  func(ctx context.Context, key datekey.DateKey) error

	active       bool
	grid         calendar.Grid
	clickCtx     context.Context
	clickErr     error
	unsubscribes []func()
}

func NewCalendarView(
	name string,
	session *Session,
	bus *event_bus.EventBus,
	content calendar.ContentSource,
	clock utils.Clock,
	selection func() datekey.DateKey,
	onSelect func(ctx context.Context, key datekey.DateKey) error,
) *CalendarView {
	v := &CalendarView{
		name:      name,
		session:   session,
		content:   content,
		clock:     clock,
		selection: selection,
		onSelect:  onSelect,
	}
	refresh := func(e event_bus.Event) error {
		return v.Refresh(e.Context())
	}
	v.unsubscribes = append(v.unsubscribes,
		bus.Subscribe(event_bus.TypeMonthChanged, refresh),
		bus.Subscribe(event_bus.TypeDateSelected, refresh),
		bus.Subscribe(event_bus.TypeItineraryDaySaved, refresh),
	)
	return v
}

// Activate turns re-rendering on and renders right away.
func (v *CalendarView) Activate(ctx context.Context) error {
	v.active = true
	return v.Refresh(ctx)
}

// Deactivate stops re-rendering; the last grid stays readable.
func (v *CalendarView) Deactivate() {
	v.active = false
}

func (v *CalendarView) Active() bool {
	return v.active
}

// Refresh renders the session month again. Inactive views are left alone.
func (v *CalendarView) Refresh(ctx context.Context) error {
	if !v.active {
		return nil
	}
	withContent, err := v.content.DatesWithContent(ctx)
	if err != nil {
		return fmt.Errorf("%s calendar: %w", v.name, err)
	}
	year, month := v.session.VisibleMonth()
	v.grid = calendar.Render(calendar.Params{
		Year:        year,
		Month:       month,
		Selected:    v.selection(),
		Today:       datekey.Encode(v.clock.Now()),
		WithContent: withContent,
		OnSelect:    v.dispatch,
	})
	log.Debugf("rendered %s calendar for %s", v.name, v.grid.Title)
	return nil
}

func (v *CalendarView) Grid() calendar.Grid {
	return v.grid
}

// Click selects the day at week row and weekday column of the current grid.
func (v *CalendarView) Click(ctx context.Context, row, col int) error {
	v.clickCtx, v.clickErr = ctx, nil
	defer func() { v.clickCtx = nil }()
	if !v.grid.Click(row, col) {
		return fmt.Errorf("%w: row %d, column %d", ErrBlankCell, row, col)
	}
	return v.clickErr
}

func (v *CalendarView) dispatch(key datekey.DateKey) {
	ctx := v.clickCtx
	if ctx == nil {
		ctx = context.Background()
	}
	v.clickErr = v.onSelect(ctx, key)
}

// Close detaches the view from the event bus.
func (v *CalendarView) Close() {
	for _, unsubscribe := range v.unsubscribes {
		unsubscribe()
	}
	v.unsubscribes = nil
}
