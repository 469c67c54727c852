package planner

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/familytrip/tripplanner/internal/rest"
	"github.com/familytrip/tripplanner/pkg/calendar"
	"github.com/familytrip/tripplanner/pkg/cost"
	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/familytrip/tripplanner/pkg/itinerary"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// EmptyDescriptionNotice is shown when an entry is committed without text.
const EmptyDescriptionNotice = "請輸入行程內容"

// Handler exposes the planner session. Requests are served one at a time, together with
// every route wrapped by Exclusive.
type Handler struct {
	mu      sync.Mutex
	planner *Planner
}

type DraftDTO struct {
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	Description string `json:"description"`
}

type RowDTO struct {
	ID          string   `json:"id"`
	Mode        string   `json:"mode"`
	Time        string   `json:"time"`
	Description string   `json:"description"`
	Draft       DraftDTO `json:"draft"`
}

type StateDTO struct {
	Selected       string           `json:"selected"`
	Calendar       calendar.GridDTO `json:"calendar"`
	Day            itinerary.DayDTO `json:"day"`
	Rows           []RowDTO         `json:"rows"`
	Editing        bool             `json:"editing"`
	Placeholder    string           `json:"placeholder,omitempty"`
	BulkValidation string           `json:"bulkValidation"`
}

type CostModalDTO struct {
	Open     bool             `json:"open"`
	Selected string           `json:"selected,omitempty"`
	Editable bool             `json:"editable"`
	Notice   string           `json:"notice,omitempty"`
	Calendar calendar.GridDTO `json:"calendar"`
	Record   cost.RecordDTO   `json:"record"`
}

type SelectRequest struct {
	Date string `json:"date"`
	Row  *int   `json:"row"`
	Col  *int   `json:"col"`
}

type CostRowRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type RenameRequest struct {
	Name string `json:"name"`
}

func NewHandler(planner *Planner) *Handler {
	return &Handler{planner: planner}
}

// Exclusive serves next under the session lock. Routes that save itineraries outside the
// session need it, since the saved event re-renders the session calendars and reloads the
// editor.
func (h *Handler) Exclusive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	log.Debug("Getting planner state")
	h.writeState(w)
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	log.Debugf("Selecting planner date %+v", req)

	var err error
	if req.Row != nil && req.Col != nil {
		err = h.planner.Click(r.Context(), *req.Row, *req.Col)
	} else {
		var key datekey.DateKey
		key, err = datekey.Parse(req.Date)
		if err == nil {
			err = h.planner.SelectDate(r.Context(), key)
		}
	}
	if err != nil {
		writePlannerError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) ChangeMonth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	direction := mux.Vars(r)["direction"]
	log.Debugf("Moving planner month %s", direction)

	var err error
	switch direction {
	case "previous":
		err = h.planner.ShowPreviousMonth(r.Context())
	case "next":
		err = h.planner.ShowNextMonth(r.Context())
	default:
		rest.WriteError(w, http.StatusBadRequest, "Invalid direction", "direction must be 'previous' or 'next'")
		return
	}
	if err != nil {
		writePlannerError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) NewRow(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	log.Debug("Adding itinerary row")
	if _, err := h.planner.Editor().BeginNew(); err != nil {
		writePlannerError(w, err)
		return
	}
	h.writeStateWithStatus(w, http.StatusCreated)
}

func (h *Handler) SetDraft(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var draft DraftDTO
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	rowID := mux.Vars(r)["rowId"]
	log.Debugf("Updating draft of row %s", rowID)
	if _, err := h.planner.Editor().SetDraft(rowID, draft.Hour, draft.Minute, draft.Description); err != nil {
		writePlannerError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) CommitRow(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, "Committing", func(e *itinerary.Editor, rowID string) error {
		return e.Commit(r.Context(), rowID)
	})
}

func (h *Handler) CancelRow(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, "Cancelling", func(e *itinerary.Editor, rowID string) error {
		return e.Cancel(rowID)
	})
}

func (h *Handler) EditRow(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, "Editing", func(e *itinerary.Editor, rowID string) error {
		_, err := e.BeginEdit(rowID)
		return err
	})
}

func (h *Handler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, "Deleting", func(e *itinerary.Editor, rowID string) error {
		return e.Delete(r.Context(), rowID)
	})
}

func (h *Handler) rowAction(w http.ResponseWriter, r *http.Request, verb string, action func(*itinerary.Editor, string) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rowID := mux.Vars(r)["rowId"]
	log.Debugf("%s row %s", verb, rowID)
	if err := action(h.planner.Editor(), rowID); err != nil {
		writePlannerError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) ToggleEditMode(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	log.Debug("Toggling edit mode")
	if err := h.planner.Editor().ToggleEditMode(r.Context()); err != nil {
		writePlannerError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) GetCosts(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeCosts(w)
}

func (h *Handler) OpenCosts(w http.ResponseWriter, r *http.Request) {
	h.costAction(w, r, func(m *CostModal) error { return m.Open(r.Context()) })
}

func (h *Handler) CloseCosts(w http.ResponseWriter, r *http.Request) {
	h.costAction(w, r, func(m *CostModal) error {
		m.Close()
		return nil
	})
}

func (h *Handler) SaveCosts(w http.ResponseWriter, r *http.Request) {
	h.costAction(w, r, func(m *CostModal) error { return m.Save(r.Context()) })
}

func (h *Handler) SelectCostDate(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	h.costAction(w, r, func(m *CostModal) error {
		if req.Row != nil && req.Col != nil {
			return m.Click(r.Context(), *req.Row, *req.Col)
		}
		key, err := datekey.Parse(req.Date)
		if err != nil {
			return err
		}
		return m.Select(r.Context(), key)
	})
}

func (h *Handler) ChangeCostMonth(w http.ResponseWriter, r *http.Request) {
	direction := mux.Vars(r)["direction"]
	if direction != "previous" && direction != "next" {
		rest.WriteError(w, http.StatusBadRequest, "Invalid direction", "direction must be 'previous' or 'next'")
		return
	}
	h.costAction(w, r, func(m *CostModal) error {
		if direction == "previous" {
			return m.ShowPreviousMonth(r.Context())
		}
		return m.ShowNextMonth(r.Context())
	})
}

func (h *Handler) AddCostRow(w http.ResponseWriter, r *http.Request) {
	h.schemeAction(w, r, http.StatusCreated, func(m *CostModal, scheme cost.SchemeID) error {
		_, err := m.AddRow(scheme)
		return err
	})
}

func (h *Handler) UpdateCostRow(w http.ResponseWriter, r *http.Request) {
	var req CostRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	h.schemeAction(w, r, http.StatusOK, func(m *CostModal, scheme cost.SchemeID) error {
		_, err := m.UpdateRow(scheme, mux.Vars(r)["rowId"], cost.Field(req.Field), req.Value)
		return err
	})
}

func (h *Handler) DeleteCostRow(w http.ResponseWriter, r *http.Request) {
	h.schemeAction(w, r, http.StatusOK, func(m *CostModal, scheme cost.SchemeID) error {
		return m.RemoveRow(scheme, mux.Vars(r)["rowId"])
	})
}

func (h *Handler) RenameScheme(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	h.schemeAction(w, r, http.StatusOK, func(m *CostModal, scheme cost.SchemeID) error {
		return m.Rename(scheme, req.Name)
	})
}

func (h *Handler) costAction(w http.ResponseWriter, r *http.Request, action func(*CostModal) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	log.Debugf("Cost modal %s %s", r.Method, r.URL.Path)
	if err := action(h.planner.Costs()); err != nil {
		writePlannerError(w, err)
		return
	}
	h.writeCosts(w)
}

func (h *Handler) schemeAction(w http.ResponseWriter, r *http.Request, status int, action func(*CostModal, cost.SchemeID) error) {
	scheme, err := cost.ParseSchemeID(mux.Vars(r)["scheme"])
	if err != nil {
		writePlannerError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	log.Debugf("Cost scheme %s %s %s", scheme, r.Method, r.URL.Path)
	if err := action(h.planner.Costs(), scheme); err != nil {
		writePlannerError(w, err)
		return
	}
	rest.WriteJSON(w, status, h.costsDTO())
}

func (h *Handler) writeState(w http.ResponseWriter) {
	h.writeStateWithStatus(w, http.StatusOK)
}

func (h *Handler) writeStateWithStatus(w http.ResponseWriter, status int) {
	rest.WriteJSON(w, status, StateToDTO(h.planner))
}

func (h *Handler) writeCosts(w http.ResponseWriter) {
	rest.WriteJSON(w, http.StatusOK, h.costsDTO())
}

func (h *Handler) costsDTO() CostModalDTO {
	return CostModalToDTO(h.planner.Costs())
}

func StateToDTO(p *Planner) StateDTO {
	editor := p.Editor()
	dto := StateDTO{
		Selected:       p.Session().Selected().String(),
		Calendar:       calendar.GridToDTO(p.Grid()),
		Day:            itinerary.DayToDTO(editor.Date(), editor.Snapshot()),
		Rows:           make([]RowDTO, 0),
		Editing:        editor.Editing(),
		BulkValidation: string(editor.Policy()),
	}
	if editor.ShowsPlaceholder() {
		dto.Placeholder = itinerary.PlaceholderText
	}
	for _, row := range editor.Rows() {
		dto.Rows = append(dto.Rows, RowDTO{
			ID:          row.ID,
			Mode:        string(row.Mode),
			Time:        row.Entry.Time(),
			Description: row.Entry.Description,
			Draft: DraftDTO{
				Hour:        row.Draft.Hour,
				Minute:      row.Draft.Minute,
				Description: row.Draft.Description,
			},
		})
	}
	return dto
}

func CostModalToDTO(m *CostModal) CostModalDTO {
	dto := CostModalDTO{
		Open:     m.IsOpen(),
		Selected: m.Selected().String(),
		Editable: m.Editable(),
		Calendar: calendar.GridToDTO(m.Grid()),
		Record:   cost.RecordToDTO(m.Selected(), m.Record()),
	}
	if m.IsOpen() && !m.Editable() {
		dto.Notice = NoDateNotice
	}
	return dto
}

func writePlannerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, itinerary.ErrEmptyDescription):
		rest.WriteError(w, http.StatusBadRequest, EmptyDescriptionNotice, err.Error())
	case errors.Is(err, cost.ErrNoItinerary):
		rest.WriteError(w, http.StatusConflict, cost.NoItineraryNotice, err.Error())
	case errors.Is(err, ErrNoDateSelected):
		rest.WriteError(w, http.StatusConflict, NoDateNotice, err.Error())
	case errors.Is(err, itinerary.ErrRowNotFound), errors.Is(err, cost.ErrRowNotFound):
		rest.WriteError(w, http.StatusNotFound, "Row not found", err.Error())
	case errors.Is(err, itinerary.ErrInvalidTime),
		errors.Is(err, datekey.ErrInvalidDateKey),
		errors.Is(err, ErrBlankCell),
		errors.Is(err, cost.ErrUnknownScheme),
		errors.Is(err, cost.ErrUnknownCategory),
		errors.Is(err, cost.ErrUnknownField):
		rest.WriteError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, itinerary.ErrNewRowPending),
		errors.Is(err, itinerary.ErrEditModeActive),
		errors.Is(err, itinerary.ErrNotEditing),
		errors.Is(err, itinerary.ErrRowNotEditable),
		errors.Is(err, itinerary.ErrNoDateLoaded),
		errors.Is(err, cost.ErrFieldDisabled),
		errors.Is(err, ErrModalClosed):
		rest.WriteError(w, http.StatusConflict, "Operation not allowed", err.Error())
	default:
		log.Errorf("planner request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
