package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/familytrip/tripplanner/internal/utils"
	"github.com/familytrip/tripplanner/pkg/calendar"
	"github.com/familytrip/tripplanner/pkg/cost"
	"github.com/familytrip/tripplanner/pkg/datekey"
	log "github.com/sirupsen/logrus"
)

var (
	ErrModalClosed    = errors.New("cost modal is not open")
	ErrNoDateSelected = errors.New("no date selected for costs")
)

// NoDateNotice is shown when cost rows are edited before a day is picked.
const NoDateNotice = "請先選擇一個日期"

// CostModal edits the cost comparison of one day picked on its own calendar. Nothing is
// stored until Save.
type CostModal struct {
	session *Session
	costs   cost.Service
	view    *CalendarView

	open     bool
	selected datekey.DateKey
	ledger   *cost.Ledger
}

func NewCostModal(
	session *Session,
	bus *event_bus.EventBus,
	content calendar.ContentSource,
	costs cost.Service,
	clock utils.Clock,
) *CostModal {
	m := &CostModal{session: session, costs: costs}
	m.view = NewCalendarView("cost", session, bus, content, clock, m.Selected, m.Select)
	return m
}

// Open shows the modal with no day selected and editing disabled.
func (m *CostModal) Open(ctx context.Context) error {
	m.open = true
	m.selected = ""
	m.ledger = nil
	return m.view.Activate(ctx)
}

// Close hides the modal and drops unsaved edits.
func (m *CostModal) Close() {
	m.open = false
	m.selected = ""
	m.ledger = nil
	m.view.Deactivate()
}

func (m *CostModal) IsOpen() bool {
	return m.open
}

func (m *CostModal) Selected() datekey.DateKey {
	return m.selected
}

// Editable reports whether a day is selected and its ledger loaded.
func (m *CostModal) Editable() bool {
	return m.ledger != nil
}

// Select loads the costs of key. Days without itinerary are refused with cost.ErrNoItinerary
// and the current selection stays.
func (m *CostModal) Select(ctx context.Context, key datekey.DateKey) error {
	if !m.open {
		return ErrModalClosed
	}
	ok, err := m.costs.CanEdit(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", cost.ErrNoItinerary, key)
	}
	record, err := m.costs.GetRecord(ctx, key)
	if err != nil {
		return err
	}
	m.selected = key
	m.ledger = cost.NewLedger(record)
	return m.view.Refresh(ctx)
}

// Click selects the day at the given position of the modal calendar.
func (m *CostModal) Click(ctx context.Context, row, col int) error {
	if !m.open {
		return ErrModalClosed
	}
	return m.view.Click(ctx, row, col)
}

// ShowPreviousMonth moves the month shared with the main planner.
func (m *CostModal) ShowPreviousMonth(ctx context.Context) error {
	if !m.open {
		return ErrModalClosed
	}
	return m.session.ShowPreviousMonth(ctx)
}

func (m *CostModal) ShowNextMonth(ctx context.Context) error {
	if !m.open {
		return ErrModalClosed
	}
	return m.session.ShowNextMonth(ctx)
}

func (m *CostModal) Grid() calendar.Grid {
	return m.view.Grid()
}

func (m *CostModal) requireLedger() (*cost.Ledger, error) {
	if !m.open {
		return nil, ErrModalClosed
	}
	if m.ledger == nil {
		return nil, ErrNoDateSelected
	}
	return m.ledger, nil
}

func (m *CostModal) AddRow(scheme cost.SchemeID) (cost.Row, error) {
	ledger, err := m.requireLedger()
	if err != nil {
		return cost.Row{}, err
	}
	return ledger.AddRow(scheme)
}

func (m *CostModal) UpdateRow(scheme cost.SchemeID, rowID string, field cost.Field, value string) (cost.Row, error) {
	ledger, err := m.requireLedger()
	if err != nil {
		return cost.Row{}, err
	}
	return ledger.UpdateRow(scheme, rowID, field, value)
}

func (m *CostModal) RemoveRow(scheme cost.SchemeID, rowID string) error {
	ledger, err := m.requireLedger()
	if err != nil {
		return err
	}
	return ledger.RemoveRow(scheme, rowID)
}

func (m *CostModal) Rename(scheme cost.SchemeID, name string) error {
	ledger, err := m.requireLedger()
	if err != nil {
		return err
	}
	return ledger.Rename(scheme, name)
}

// Record returns the working state, or the default record while no day is selected.
func (m *CostModal) Record() cost.Record {
	if m.ledger == nil {
		return cost.DefaultRecord()
	}
	a, _ := m.ledger.Scheme(cost.SchemeA)
	b, _ := m.ledger.Scheme(cost.SchemeB)
	return cost.Record{SchemeA: a, SchemeB: b}
}

// Save stores the ledger of the selected day and closes the modal.
func (m *CostModal) Save(ctx context.Context) error {
	ledger, err := m.requireLedger()
	if err != nil {
		return err
	}
	if err := m.costs.SaveRecord(ctx, m.selected, ledger.Record()); err != nil {
		return err
	}
	log.Infof("saved costs of %s", m.selected)
	m.Close()
	return nil
}
