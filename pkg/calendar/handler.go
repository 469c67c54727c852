package calendar

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/familytrip/tripplanner/internal/rest"
	"github.com/familytrip/tripplanner/internal/utils"
	"github.com/familytrip/tripplanner/pkg/datekey"
	log "github.com/sirupsen/logrus"
)

// ContentSource lists the days that have something planned.
type ContentSource interface {
	DatesWithContent(ctx context.Context) (map[datekey.DateKey]struct{}, error)
}

type Handler struct {
	content ContentSource
	clock   utils.Clock
}

type CellDTO struct {
	Day     int      `json:"day,omitempty"`
	Date    string   `json:"date,omitempty"`
	Classes []string `json:"classes"`
}

type GridDTO struct {
	Year     int                    `json:"year"`
	Month    int                    `json:"month"`
	Title    string                 `json:"title"`
	Weekdays []string               `json:"weekdays"`
	Weeks    [][DaysPerWeek]CellDTO `json:"weeks"`
}

func NewHandler(content ContentSource, clock utils.Clock) *Handler {
	return &Handler{content: content, clock: clock}
}

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	log.Debug("Rendering calendar")
	now := h.clock.Now()
	year, month := now.Year(), now.Month()

	query := r.URL.Query()
	if s := query.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid year", "'year' must be a number between 1 and 9999")
			return
		}
		year = y
	}
	if s := query.Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month", "'month' must be a number between 1 and 12")
			return
		}
		month = time.Month(m)
	}
	var selected datekey.DateKey
	if s := query.Get("selected"); s != "" {
		key, err := datekey.Parse(s)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid selected date", "'selected' must be in YYYY-MM-DD format")
			return
		}
		selected = key
	}

	withContent, err := h.content.DatesWithContent(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	grid := Render(Params{
		Year:        year,
		Month:       month,
		Selected:    selected,
		Today:       datekey.Encode(now),
		WithContent: withContent,
	})
	rest.WriteJSON(w, http.StatusOK, GridToDTO(grid))
}

func GridToDTO(g Grid) GridDTO {
	dto := GridDTO{
		Year:     g.Year,
		Month:    int(g.Month),
		Title:    g.Title,
		Weekdays: WeekdayLabels[:],
		Weeks:    make([][DaysPerWeek]CellDTO, 0, len(g.Weeks)),
	}
	for _, week := range g.Weeks {
		var row [DaysPerWeek]CellDTO
		for i, cell := range week {
			classes := cell.Classes
			if classes == nil {
				classes = []string{}
			}
			row[i] = CellDTO{Day: cell.Day, Date: cell.Date.String(), Classes: classes}
		}
		dto.Weeks = append(dto.Weeks, row)
	}
	return dto
}
