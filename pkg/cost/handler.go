package cost

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/familytrip/tripplanner/internal/rest"
	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

// RowDTO carries the amount as a JSON number like the stored record does. Requests may
// also send it as text such as "3,500".
type RowDTO struct {
	ID              string          `json:"id,omitempty"`
	Category        string          `json:"category"`
	Note            string          `json:"note"`
	Amount          json.RawMessage `json:"amount"`
	FormattedAmount string          `json:"formattedAmount"`
	Disabled        bool            `json:"disabled"`
}

type SchemeDTO struct {
	Name  string   `json:"name"`
	Rows  []RowDTO `json:"rows"`
	Total string   `json:"total"`
}

type RecordDTO struct {
	Date    string    `json:"date"`
	SchemeA SchemeDTO `json:"schemeA"`
	SchemeB SchemeDTO `json:"schemeB"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetCosts(w http.ResponseWriter, r *http.Request) {
	date, err := datekey.Parse(mux.Vars(r)["date"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD format")
		return
	}
	log.Debugf("Getting costs of %s", date)
	record, err := h.service.GetRecord(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, RecordToDTO(date, record))
}

func (h *Handler) PutCosts(w http.ResponseWriter, r *http.Request) {
	date, err := datekey.Parse(mux.Vars(r)["date"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD format")
		return
	}
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	log.Debugf("Saving costs of %s", date)

	record, err := DTOToRecord(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid cost row", err.Error())
		return
	}
	if err := h.service.SaveRecord(r.Context(), date, record); err != nil {
		if errors.Is(err, ErrNoItinerary) {
			rest.WriteError(w, http.StatusConflict, NoItineraryNotice, err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	saved, err := h.service.GetRecord(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, RecordToDTO(date, saved))
}

func RecordToDTO(date datekey.DateKey, record Record) RecordDTO {
	return RecordDTO{
		Date:    date.String(),
		SchemeA: SchemeToDTO(record.SchemeA),
		SchemeB: SchemeToDTO(record.SchemeB),
	}
}

func SchemeToDTO(s Scheme) SchemeDTO {
	dto := SchemeDTO{Name: s.Name, Rows: make([]RowDTO, 0, len(s.Rows)), Total: FormatAmount(s.Total())}
	for _, row := range s.Rows {
		dto.Rows = append(dto.Rows, RowDTO{
			ID:              row.ID,
			Category:        string(row.Category),
			Note:            row.Note,
			Amount:          json.RawMessage(row.Amount.String()),
			FormattedAmount: FormatAmount(row.Amount),
			Disabled:        !row.Counts(),
		})
	}
	return dto
}

func DTOToRecord(dto RecordDTO) (Record, error) {
	a, err := dtoToScheme(dto.SchemeA)
	if err != nil {
		return Record{}, err
	}
	b, err := dtoToScheme(dto.SchemeB)
	if err != nil {
		return Record{}, err
	}
	return Record{SchemeA: a, SchemeB: b}, nil
}

func dtoToScheme(dto SchemeDTO) (Scheme, error) {
	s := Scheme{Name: dto.Name, Rows: make([]Row, 0, len(dto.Rows))}
	for _, r := range dto.Rows {
		category, err := ParseCategory(r.Category)
		if err != nil {
			return Scheme{}, err
		}
		s.Rows = append(s.Rows, Row{ID: r.ID, Category: category, Note: r.Note, Amount: amountFromJSON(r.Amount)})
	}
	return s, nil
}
