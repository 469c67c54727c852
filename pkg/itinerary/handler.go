package itinerary

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/familytrip/tripplanner/internal/rest"
	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

type EntryDTO struct {
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

type DayDTO struct {
	Date    string     `json:"date"`
	Entries []EntryDTO `json:"entries"`
	Lines   []string   `json:"lines"`
}

type DatesDTO struct {
	Dates []string `json:"dates"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing dates with itinerary")
	dates, err := h.service.DatesWithContent(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dto := DatesDTO{Dates: make([]string, 0, len(dates))}
	for d := range dates {
		dto.Dates = append(dto.Dates, d.String())
	}
	sort.Strings(dto.Dates)
	rest.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	key, ok := dateFromPath(w, r)
	if !ok {
		return
	}
	log.Debugf("Getting itinerary of %s", key)
	day, err := h.service.GetDay(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, DayToDTO(key, day))
}

func (h *Handler) PutDay(w http.ResponseWriter, r *http.Request) {
	key, ok := dateFromPath(w, r)
	if !ok {
		return
	}
	var dto DayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	log.Debugf("Saving itinerary of %s with %d entries", key, len(dto.Entries))

	day := DayItinerary{Entries: make([]Entry, 0, len(dto.Entries))}
	for _, e := range dto.Entries {
		entry := Entry{Hour: e.Hour, Minute: e.Minute, Description: e.Description}
		if err := entry.Validate(); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid itinerary entry", err.Error())
			return
		}
		day.Entries = append(day.Entries, entry)
	}

	if err := h.service.SaveDay(r.Context(), key, day); err != nil {
		if errors.Is(err, ErrInvalidTime) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid itinerary entry", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, DayToDTO(key, day.Sorted()))
}

func (h *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	key, ok := dateFromPath(w, r)
	if !ok {
		return
	}
	log.Debugf("Deleting itinerary of %s", key)
	if err := h.service.SaveDay(r.Context(), key, DayItinerary{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func dateFromPath(w http.ResponseWriter, r *http.Request) (datekey.DateKey, bool) {
	key, err := datekey.Parse(mux.Vars(r)["date"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD format")
		return "", false
	}
	return key, true
}

func DayToDTO(key datekey.DateKey, day DayItinerary) DayDTO {
	dto := DayDTO{Date: key.String(), Entries: make([]EntryDTO, 0, len(day.Entries)), Lines: day.Lines()}
	for _, e := range day.Entries {
		dto.Entries = append(dto.Entries, EntryDTO{Hour: e.Hour, Minute: e.Minute, Time: e.Time(), Description: e.Description})
	}
	return dto
}
