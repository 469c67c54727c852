package itinerary

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/google/uuid"
)

type RowMode string

const (
	ModeView RowMode = "view"
	ModeEdit RowMode = "edit"
	ModeNew  RowMode = "new"
)

// BulkValidation decides whether leaving edit mode rejects blank descriptions.
// Single-row commits always reject them.
type BulkValidation string

const (
	BulkValidationNone   BulkValidation = "none"
	BulkValidationStrict BulkValidation = "strict"
)

func ParseBulkValidation(s string) (BulkValidation, error) {
	switch BulkValidation(strings.ToLower(strings.TrimSpace(s))) {
	case "", BulkValidationNone:
		return BulkValidationNone, nil
	case BulkValidationStrict:
		return BulkValidationStrict, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidValidation, s)
}

var ErrNoDateLoaded = errors.New("no date loaded into the editor")

// Row is one line of the editor. Entry holds the committed values, Draft the values of the
// edit fields; a new row has no committed values yet.
type Row struct {
	ID    string
	Mode  RowMode
	Entry Entry
	Draft Entry
}

// DaySaver persists a day's committed entries.
type DaySaver interface {
	SaveDay(ctx context.Context, key datekey.DateKey, day DayItinerary) error
}

// Editor is the add/edit/delete state machine for the entries of one day.
type Editor struct {
	saver   DaySaver
	policy  BulkValidation
	date    datekey.DateKey
	rows    []Row
	editing bool
	// dirty is set while committed rows differ from what was loaded or last saved
	dirty bool
}

type editorSaveKey struct{}

func NewEditor(saver DaySaver, policy BulkValidation) *Editor {
	if policy == "" {
		policy = BulkValidationNone
	}
	return &Editor{saver: saver, policy: policy}
}

// Load replaces the editor content with day. Pending new or edited rows are dropped.
func (e *Editor) Load(key datekey.DateKey, day DayItinerary) {
	e.date = key
	e.editing = false
	e.dirty = false
	e.rows = make([]Row, 0, len(day.Entries))
	for _, entry := range day.Entries {
		e.rows = append(e.rows, Row{ID: uuid.NewString(), Mode: ModeView, Entry: entry, Draft: entry})
	}
	e.sortRows()
}

func (e *Editor) Date() datekey.DateKey {
	return e.date
}

func (e *Editor) Policy() BulkValidation {
	return e.policy
}

// Editing reports whether bulk edit mode is on.
func (e *Editor) Editing() bool {
	return e.editing
}

func (e *Editor) Rows() []Row {
	return slices.Clone(e.rows)
}

// Dirty reports whether committed rows have not been saved yet.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// OwnsSave reports whether a save carrying ctx was issued by this editor.
func (e *Editor) OwnsSave(ctx context.Context) bool {
	owner, _ := ctx.Value(editorSaveKey{}).(*Editor)
	return owner == e
}

// ShowsPlaceholder is true when there is no row at all, committed or pending.
func (e *Editor) ShowsPlaceholder() bool {
	return len(e.rows) == 0
}

// Snapshot returns the committed entries in display order. New rows are not included and
// rows being edited contribute their last committed values.
func (e *Editor) Snapshot() DayItinerary {
	entries := make([]Entry, 0, len(e.rows))
	for _, r := range e.rows {
		if r.Mode == ModeNew {
			continue
		}
		entries = append(entries, r.Entry)
	}
	return DayItinerary{Entries: entries}
}

// BeginNew opens a blank row at the top of the list, set to 00:00.
func (e *Editor) BeginNew() (Row, error) {
	if e.date.IsZero() {
		return Row{}, ErrNoDateLoaded
	}
	for _, r := range e.rows {
		if r.Mode == ModeNew {
			return Row{}, ErrNewRowPending
		}
	}
	row := Row{ID: uuid.NewString(), Mode: ModeNew}
	e.rows = append([]Row{row}, e.rows...)
	return row, nil
}

// BeginEdit switches one committed row to its edit fields.
func (e *Editor) BeginEdit(id string) (Row, error) {
	if e.editing {
		return Row{}, ErrEditModeActive
	}
	i, err := e.find(id)
	if err != nil {
		return Row{}, err
	}
	if e.rows[i].Mode != ModeView {
		return e.rows[i], nil
	}
	e.rows[i].Mode = ModeEdit
	e.rows[i].Draft = e.rows[i].Entry
	return e.rows[i], nil
}

// SetDraft fills the edit fields of a new or edited row.
func (e *Editor) SetDraft(id string, hour, minute int, description string) (Row, error) {
	i, err := e.find(id)
	if err != nil {
		return Row{}, err
	}
	if e.rows[i].Mode == ModeView {
		return Row{}, ErrRowNotEditable
	}
	if err := ValidateTime(hour, minute); err != nil {
		return Row{}, err
	}
	e.rows[i].Draft = Entry{Hour: hour, Minute: minute, Description: description}
	return e.rows[i], nil
}

// Commit turns a new or singly edited row into a committed one, re-sorts and saves the day.
// A blank description is rejected and leaves the row untouched.
func (e *Editor) Commit(ctx context.Context, id string) error {
	i, err := e.find(id)
	if err != nil {
		return err
	}
	row := e.rows[i]
	switch row.Mode {
	case ModeView:
		return ErrRowNotEditable
	case ModeEdit:
		if e.editing {
			return ErrEditModeActive
		}
	}

	description := strings.TrimSpace(row.Draft.Description)
	if description == "" {
		return ErrEmptyDescription
	}
	committed := Entry{Hour: row.Draft.Hour, Minute: row.Draft.Minute, Description: description}
	mode := ModeView
	if e.editing {
		// rows committed while bulk mode is on join the other rows in their edit fields
		mode = ModeEdit
	}

	if row.Mode == ModeNew {
		// a new entry goes after existing ones so equal times keep insertion order
		e.rows = append(e.rows[:i], e.rows[i+1:]...)
		e.rows = append(e.rows, Row{ID: row.ID, Mode: mode, Entry: committed, Draft: committed})
	} else {
		e.rows[i] = Row{ID: row.ID, Mode: ModeView, Entry: committed, Draft: committed}
	}

	e.dirty = true
	e.sortRows()
	return e.persist(ctx)
}

// Cancel discards a new row, or reverts a singly edited row to its committed values.
func (e *Editor) Cancel(id string) error {
	i, err := e.find(id)
	if err != nil {
		return err
	}
	switch e.rows[i].Mode {
	case ModeNew:
		e.rows = append(e.rows[:i], e.rows[i+1:]...)
	case ModeEdit:
		if e.editing {
			return ErrEditModeActive
		}
		e.rows[i].Mode = ModeView
		e.rows[i].Draft = e.rows[i].Entry
	}
	return nil
}

// ToggleEditMode flips bulk edit mode. Turning it on opens every committed row for editing
// with its current values. Turning it off commits every edited row from its edit fields,
// drops a pending new row, re-sorts and saves. Only BulkValidationStrict checks descriptions
// on the way out.
func (e *Editor) ToggleEditMode(ctx context.Context) error {
	if !e.editing {
		e.editing = true
		for i := range e.rows {
			if e.rows[i].Mode == ModeView {
				e.rows[i].Mode = ModeEdit
				e.rows[i].Draft = e.rows[i].Entry
			}
		}
		return nil
	}

	if e.policy == BulkValidationStrict {
		for _, r := range e.rows {
			if r.Mode == ModeEdit && strings.TrimSpace(r.Draft.Description) == "" {
				return ErrEmptyDescription
			}
		}
	}

	rows := make([]Row, 0, len(e.rows))
	for _, r := range e.rows {
		switch r.Mode {
		case ModeNew:
			continue
		case ModeEdit:
			r.Entry = r.Draft
			r.Mode = ModeView
		}
		rows = append(rows, r)
	}
	e.rows = rows
	e.editing = false
	e.dirty = true
	e.sortRows()
	return e.persist(ctx)
}

// Delete removes a row right away. Only available in edit mode.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if !e.editing {
		return ErrNotEditing
	}
	i, err := e.find(id)
	if err != nil {
		return err
	}
	e.rows = append(e.rows[:i], e.rows[i+1:]...)
	e.dirty = true
	e.sortRows()
	return e.persist(ctx)
}

// Save writes the committed entries of the current day when they changed since the last
// load or save. An unchanged day is left as stored, whatever was written there meanwhile.
func (e *Editor) Save(ctx context.Context) error {
	if e.date.IsZero() {
		return ErrNoDateLoaded
	}
	if !e.dirty {
		return nil
	}
	return e.persist(ctx)
}

func (e *Editor) persist(ctx context.Context) error {
	if e.date.IsZero() {
		return ErrNoDateLoaded
	}
	ctx = context.WithValue(ctx, editorSaveKey{}, e)
	if err := e.saver.SaveDay(ctx, e.date, e.Snapshot()); err != nil {
		return fmt.Errorf("failed to save itinerary: %w", err)
	}
	e.dirty = false
	return nil
}

// sortRows keeps pending new rows on top and orders the rest by committed time, stable on ties.
func (e *Editor) sortRows() {
	sort.SliceStable(e.rows, func(i, j int) bool {
		a, b := e.rows[i], e.rows[j]
		if (a.Mode == ModeNew) != (b.Mode == ModeNew) {
			return a.Mode == ModeNew
		}
		return a.Entry.MinuteOfDay() < b.Entry.MinuteOfDay()
	})
}

func (e *Editor) find(id string) (int, error) {
	for i, r := range e.rows {
		if r.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrRowNotFound, id)
}
