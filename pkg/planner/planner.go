package planner

import (
	"context"
	"fmt"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/internal/utils"
	"github.com/familytrip/tripplanner/pkg/calendar"
	"github.com/familytrip/tripplanner/pkg/cost"
	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/familytrip/tripplanner/pkg/itinerary"
	log "github.com/sirupsen/logrus"
)

// Planner is the main page controller. Only one day is loaded into the editor at a time;
// whatever the editor holds is saved before another day is loaded.
type Planner struct {
	session     *Session
	itineraries itinerary.Service
	editor      *itinerary.Editor
	clock       utils.Clock
	view        *CalendarView
	costs       *CostModal
	unsubscribe func()
}

func NewPlanner(
	bus *event_bus.EventBus,
	itineraries itinerary.Service,
	costs cost.Service,
	clock utils.Clock,
	policy itinerary.BulkValidation,
) *Planner {
	now := clock.Now()
	p := &Planner{
		session:     NewSession(bus, now.Year(), now.Month()),
		itineraries: itineraries,
		editor:      itinerary.NewEditor(itineraries, policy),
		clock:       clock,
	}
	p.view = NewCalendarView("main", p.session, bus, itineraries, clock, p.session.Selected, p.SelectDate)
	p.costs = NewCostModal(p.session, bus, itineraries, costs, clock)
	p.unsubscribe = event_bus.SubscribeTyped(bus, event_bus.TypeItineraryDaySaved, p.reloadOnForeignSave)
	return p
}

// Start clears empty records left from earlier sessions, then opens today.
func (p *Planner) Start(ctx context.Context) error {
	if _, err := p.itineraries.PurgeEmpty(ctx); err != nil {
		return err
	}
	today := datekey.Encode(p.clock.Now())
	if err := p.load(ctx, today); err != nil {
		return err
	}
	if err := p.session.SelectDate(ctx, today); err != nil {
		return err
	}
	return p.view.Activate(ctx)
}

// SelectDate saves the day being edited, then loads key. The visible month follows the
// selection.
func (p *Planner) SelectDate(ctx context.Context, key datekey.DateKey) error {
	if err := p.saveCurrent(ctx); err != nil {
		return err
	}
	if year, month, _, ok := key.Components(); ok {
		if y, m := p.session.VisibleMonth(); y != year || m != month {
			if err := p.session.ShowMonth(ctx, year, month); err != nil {
				return err
			}
		}
	}
	if err := p.load(ctx, key); err != nil {
		return err
	}
	return p.session.SelectDate(ctx, key)
}

// Click selects the day at the given position of the main calendar.
func (p *Planner) Click(ctx context.Context, row, col int) error {
	return p.view.Click(ctx, row, col)
}

func (p *Planner) ShowPreviousMonth(ctx context.Context) error {
	return p.changeMonth(ctx, p.session.ShowPreviousMonth)
}

func (p *Planner) ShowNextMonth(ctx context.Context) error {
	return p.changeMonth(ctx, p.session.ShowNextMonth)
}

// changeMonth saves the editor and reloads the selected day, which drops unsaved rows.
func (p *Planner) changeMonth(ctx context.Context, move func(context.Context) error) error {
	if err := p.saveCurrent(ctx); err != nil {
		return err
	}
	if err := move(ctx); err != nil {
		return err
	}
	return p.load(ctx, p.session.Selected())
}

func (p *Planner) saveCurrent(ctx context.Context) error {
	if p.editor.Date().IsZero() {
		return nil
	}
	return p.editor.Save(ctx)
}

// reloadOnForeignSave replaces the editor content when its day was saved by someone else,
// so the next switch does not write the old rows back.
func (p *Planner) reloadOnForeignSave(e event_bus.EventT[event_bus.ItineraryDaySaved]) error {
	if e.Data.Date != p.editor.Date() || p.editor.OwnsSave(e.Context()) {
		return nil
	}
	log.Infof("itinerary of %s changed outside the planner, reloading", e.Data.Date)
	return p.load(e.Context(), e.Data.Date)
}

func (p *Planner) load(ctx context.Context, key datekey.DateKey) error {
	day, err := p.itineraries.GetDay(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load itinerary of %s: %w", key, err)
	}
	p.editor.Load(key, day)
	log.Debugf("loaded %d itinerary entries of %s", len(day.Entries), key)
	return nil
}

func (p *Planner) Session() *Session {
	return p.session
}

func (p *Planner) Editor() *itinerary.Editor {
	return p.editor
}

func (p *Planner) Costs() *CostModal {
	return p.costs
}

func (p *Planner) Grid() calendar.Grid {
	return p.view.Grid()
}

// Close detaches the planner and both calendars from the event bus.
func (p *Planner) Close() {
	p.unsubscribe()
	p.view.Close()
	p.costs.view.Close()
}
