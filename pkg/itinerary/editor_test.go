package itinerary

import (
	"context"
	"errors"
	"testing"

	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	saves   []DayItinerary
	lastCtx context.Context
	err     error
}

func (s *recordingSaver) SaveDay(ctx context.Context, key datekey.DateKey, day DayItinerary) error {
	if s.err != nil {
		return s.err
	}
	s.saves = append(s.saves, day)
	s.lastCtx = ctx
	return nil
}

func (s *recordingSaver) last() DayItinerary {
	return s.saves[len(s.saves)-1]
}

func setupEditor(t *testing.T, policy BulkValidation, entries ...Entry) (*Editor, *recordingSaver) {
	saver := &recordingSaver{}
	editor := NewEditor(saver, policy)
	editor.Load("2025-03-10", DayItinerary{Entries: entries})
	return editor, saver
}

func descriptions(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Entry.Description)
	}
	return out
}

func addEntry(t *testing.T, editor *Editor, hour, minute int, description string) {
	row, err := editor.BeginNew()
	require.NoError(t, err)
	_, err = editor.SetDraft(row.ID, hour, minute, description)
	require.NoError(t, err)
	require.NoError(t, editor.Commit(context.Background(), row.ID))
}

func TestEditor_AddEntryToEmptyDay(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationNone)
	assert.True(t, editor.ShowsPlaceholder())

	// when
	addEntry(t, editor, 14, 30, "SceneryPark")

	// then
	assert.False(t, editor.ShowsPlaceholder())
	assert.Equal(t, []string{"14:30 SceneryPark"}, saver.last().Lines())
	rows := editor.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, ModeView, rows[0].Mode)
}

func TestEditor_NewRowStartsAtMidnightOnTop(t *testing.T) {
	editor, _ := setupEditor(t, BulkValidationNone, Entry{Hour: 8, Minute: 0, Description: "Zoo"})

	row, err := editor.BeginNew()

	require.NoError(t, err)
	assert.Equal(t, ModeNew, row.Mode)
	assert.Equal(t, "00:00", row.Draft.Time())
	assert.Equal(t, row.ID, editor.Rows()[0].ID)
	assert.Equal(t, []string{"08:00 Zoo"}, editor.Snapshot().Lines())
}

func TestEditor_OnlyOneNewRow(t *testing.T) {
	editor, _ := setupEditor(t, BulkValidationNone)
	_, err := editor.BeginNew()
	require.NoError(t, err)

	_, err = editor.BeginNew()

	assert.ErrorIs(t, err, ErrNewRowPending)
	assert.Len(t, editor.Rows(), 1)
}

func TestEditor_CommitRequiresDescription(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationNone)
	row, err := editor.BeginNew()
	require.NoError(t, err)
	_, err = editor.SetDraft(row.ID, 9, 0, "   ")
	require.NoError(t, err)

	// when
	err = editor.Commit(ctx, row.ID)

	// then
	assert.ErrorIs(t, err, ErrEmptyDescription)
	assert.Empty(t, saver.saves)
	rows := editor.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, ModeNew, rows[0].Mode)
}

func TestEditor_CommitTrimsDescription(t *testing.T) {
	editor, saver := setupEditor(t, BulkValidationNone)

	addEntry(t, editor, 9, 0, "  Breakfast  ")

	assert.Equal(t, "Breakfast", saver.last().Entries[0].Description)
}

func TestEditor_SetDraftRejectsOffGridMinute(t *testing.T) {
	editor, _ := setupEditor(t, BulkValidationNone)
	row, err := editor.BeginNew()
	require.NoError(t, err)

	_, err = editor.SetDraft(row.ID, 9, 7, "Walk")

	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestEditor_EqualTimesKeepInsertionOrder(t *testing.T) {
	editor, saver := setupEditor(t, BulkValidationNone)

	addEntry(t, editor, 9, 5, "A")
	addEntry(t, editor, 9, 5, "B")
	addEntry(t, editor, 8, 0, "C")

	assert.Equal(t, []string{"08:00 C", "09:05 A", "09:05 B"}, saver.last().Lines())
	assert.Equal(t, []string{"C", "A", "B"}, descriptions(editor.Rows()))
}

func TestEditor_CancelNewRow(t *testing.T) {
	editor, saver := setupEditor(t, BulkValidationNone)
	row, err := editor.BeginNew()
	require.NoError(t, err)

	require.NoError(t, editor.Cancel(row.ID))

	assert.True(t, editor.ShowsPlaceholder())
	assert.Empty(t, saver.saves)
}

func TestEditor_SingleRowEditAndCancel(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationNone,
		Entry{Hour: 8, Minute: 0, Description: "Zoo"},
		Entry{Hour: 12, Minute: 0, Description: "Lunch"},
	)
	id := editor.Rows()[0].ID

	// when
	_, err := editor.BeginEdit(id)
	require.NoError(t, err)
	_, err = editor.SetDraft(id, 13, 0, "Aquarium")
	require.NoError(t, err)
	require.NoError(t, editor.Cancel(id))

	// then
	assert.Equal(t, []string{"08:00 Zoo", "12:00 Lunch"}, editor.Snapshot().Lines())
	assert.Equal(t, ModeView, editor.Rows()[0].Mode)
	assert.Empty(t, saver.saves)
}

func TestEditor_SingleRowEditCommitResorts(t *testing.T) {
	editor, saver := setupEditor(t, BulkValidationNone,
		Entry{Hour: 8, Minute: 0, Description: "Zoo"},
		Entry{Hour: 12, Minute: 0, Description: "Lunch"},
	)
	id := editor.Rows()[0].ID
	_, err := editor.BeginEdit(id)
	require.NoError(t, err)
	_, err = editor.SetDraft(id, 13, 0, "Aquarium")
	require.NoError(t, err)

	require.NoError(t, editor.Commit(ctx, id))

	assert.Equal(t, []string{"12:00 Lunch", "13:00 Aquarium"}, saver.last().Lines())
}

func TestEditor_DeleteOnlyInEditMode(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationNone,
		Entry{Hour: 8, Minute: 0, Description: "Zoo"},
		Entry{Hour: 12, Minute: 0, Description: "Lunch"},
	)
	id := editor.Rows()[0].ID
	assert.ErrorIs(t, editor.Delete(ctx, id), ErrNotEditing)

	// when
	require.NoError(t, editor.ToggleEditMode(ctx))
	err := editor.Delete(ctx, id)

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00 Lunch"}, saver.last().Lines())
}

func TestEditor_BulkEditCommitsDraftsAsTyped(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationNone,
		Entry{Hour: 8, Minute: 0, Description: "Zoo"},
		Entry{Hour: 12, Minute: 0, Description: "Lunch"},
	)
	require.NoError(t, editor.ToggleEditMode(ctx))
	assert.True(t, editor.Editing())
	rows := editor.Rows()
	_, err := editor.SetDraft(rows[0].ID, 15, 0, "")
	require.NoError(t, err)
	_, err = editor.SetDraft(rows[1].ID, 12, 0, " Lunch ")
	require.NoError(t, err)

	// when
	err = editor.ToggleEditMode(ctx)

	// then
	require.NoError(t, err)
	assert.False(t, editor.Editing())
	assert.Equal(t, []Entry{
		{Hour: 12, Minute: 0, Description: " Lunch "},
		{Hour: 15, Minute: 0, Description: ""},
	}, saver.last().Entries)
}

func TestEditor_StrictBulkEditRejectsBlankDescription(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationStrict, Entry{Hour: 8, Minute: 0, Description: "Zoo"})
	require.NoError(t, editor.ToggleEditMode(ctx))
	id := editor.Rows()[0].ID
	_, err := editor.SetDraft(id, 8, 0, " ")
	require.NoError(t, err)

	// when
	err = editor.ToggleEditMode(ctx)

	// then
	assert.ErrorIs(t, err, ErrEmptyDescription)
	assert.True(t, editor.Editing())
	assert.Empty(t, saver.saves)
}

func TestEditor_LeavingEditModeDropsNewRow(t *testing.T) {
	editor, saver := setupEditor(t, BulkValidationNone, Entry{Hour: 8, Minute: 0, Description: "Zoo"})
	require.NoError(t, editor.ToggleEditMode(ctx))
	row, err := editor.BeginNew()
	require.NoError(t, err)
	_, err = editor.SetDraft(row.ID, 9, 0, "Pending")
	require.NoError(t, err)

	require.NoError(t, editor.ToggleEditMode(ctx))

	assert.Equal(t, []string{"08:00 Zoo"}, saver.last().Lines())
	assert.Len(t, editor.Rows(), 1)
}

func TestEditor_SingleEditBlockedInBulkMode(t *testing.T) {
	editor, _ := setupEditor(t, BulkValidationNone, Entry{Hour: 8, Minute: 0, Description: "Zoo"})
	require.NoError(t, editor.ToggleEditMode(ctx))
	id := editor.Rows()[0].ID

	_, err := editor.BeginEdit(id)
	assert.ErrorIs(t, err, ErrEditModeActive)
	assert.ErrorIs(t, editor.Commit(ctx, id), ErrEditModeActive)
}

func TestEditor_UnknownRow(t *testing.T) {
	editor, _ := setupEditor(t, BulkValidationNone)

	_, err := editor.BeginEdit("missing")

	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestEditor_NoDateLoaded(t *testing.T) {
	editor := NewEditor(&recordingSaver{}, "")

	_, err := editor.BeginNew()

	assert.ErrorIs(t, err, ErrNoDateLoaded)
	assert.ErrorIs(t, editor.Save(ctx), ErrNoDateLoaded)
}

func TestEditor_SaveFailureIsReturned(t *testing.T) {
	editor, saver := setupEditor(t, BulkValidationNone)
	saver.err = errors.New("disk full")
	row, err := editor.BeginNew()
	require.NoError(t, err)
	_, err = editor.SetDraft(row.ID, 9, 0, "Walk")
	require.NoError(t, err)

	err = editor.Commit(ctx, row.ID)

	assert.ErrorContains(t, err, "disk full")
}

func TestEditor_SaveSkipsUnchangedDay(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationNone, Entry{Hour: 8, Description: "Zoo"})

	// when
	err := editor.Save(ctx)

	// then
	require.NoError(t, err)
	assert.Empty(t, saver.saves)
	assert.False(t, editor.Dirty())
}

func TestEditor_SaveRetriesAfterFailedCommit(t *testing.T) {
	// given
	editor, saver := setupEditor(t, BulkValidationNone)
	saver.err = errors.New("disk full")
	row, err := editor.BeginNew()
	require.NoError(t, err)
	_, err = editor.SetDraft(row.ID, 9, 0, "Walk")
	require.NoError(t, err)
	require.Error(t, editor.Commit(ctx, row.ID))
	require.True(t, editor.Dirty())
	saver.err = nil

	// when
	err = editor.Save(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, saver.saves, 1)
	assert.Equal(t, []string{"09:00 Walk"}, saver.last().Lines())
	assert.False(t, editor.Dirty())
}

func TestEditor_OwnsSave(t *testing.T) {
	editor, saver := setupEditor(t, BulkValidationNone)
	other, _ := setupEditor(t, BulkValidationNone)

	addEntry(t, editor, 9, 0, "Walk")

	assert.True(t, editor.OwnsSave(saver.lastCtx))
	assert.False(t, other.OwnsSave(saver.lastCtx))
	assert.False(t, editor.OwnsSave(context.Background()))
}

func TestParseBulkValidation(t *testing.T) {
	policy, err := ParseBulkValidation("")
	require.NoError(t, err)
	assert.Equal(t, BulkValidationNone, policy)

	policy, err = ParseBulkValidation(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, BulkValidationStrict, policy)

	_, err = ParseBulkValidation("lenient")
	assert.ErrorIs(t, err, ErrInvalidValidation)
}
