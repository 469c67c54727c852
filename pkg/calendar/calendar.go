// Package calendar renders a month as a grid of day cells.
//
// Rendering is a pure function of its Params. The same renderer serves every calendar on
// screen; each caller passes its own selection and click callback.
package calendar

import (
	"fmt"
	"time"

	"github.com/familytrip/tripplanner/pkg/datekey"
)

const (
	ClassTodaySelected = "today-selected"
	ClassHasContent    = "has-content"
	ClassTodayMuted    = "today-muted"
	ClassSelected      = "selected"
)

const DaysPerWeek = 7

// WeekdayLabels are the column headers, Sunday first.
var WeekdayLabels = [DaysPerWeek]string{"日", "一", "二", "三", "四", "五", "六"}

type Params struct {
	Year int
	// Month is 1-based, as time.Month.
	Month       time.Month
	Selected    datekey.DateKey
	Today       datekey.DateKey
	WithContent map[datekey.DateKey]struct{}
	OnSelect    func(datekey.DateKey)
}

// Cell is one square of the grid. Blank cells have no Day and no Date.
type Cell struct {
	Day     int
	Date    datekey.DateKey
	Classes []string

	onSelect func(datekey.DateKey)
}

func (c Cell) IsBlank() bool {
	return c.Date.IsZero()
}

func (c Cell) HasClass(class string) bool {
	for _, cl := range c.Classes {
		if cl == class {
			return true
		}
	}
	return false
}

// Click reports the cell's own date to the select callback. Blank cells ignore clicks.
func (c Cell) Click() {
	if c.IsBlank() || c.onSelect == nil {
		return
	}
	c.onSelect(c.Date)
}

type Grid struct {
	Year  int
	Month time.Month
	Title string
	Weeks [][DaysPerWeek]Cell
}

// Cell returns the cell at week row and weekday column.
func (g Grid) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= len(g.Weeks) || col < 0 || col >= DaysPerWeek {
		return Cell{}, false
	}
	return g.Weeks[row][col], true
}

// Click dispatches a click by coordinates. It reports false for blank or out of range cells.
func (g Grid) Click(row, col int) bool {
	cell, ok := g.Cell(row, col)
	if !ok || cell.IsBlank() {
		return false
	}
	cell.Click()
	return true
}

// Find returns the coordinates of the cell showing key.
func (g Grid) Find(key datekey.DateKey) (row, col int, ok bool) {
	for r, week := range g.Weeks {
		for c, cell := range week {
			if cell.Date == key && !cell.IsBlank() {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Render lays out the month in weeks starting on Sunday.
func Render(p Params) Grid {
	first := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	grid := Grid{
		Year:  first.Year(),
		Month: first.Month(),
		Title: fmt.Sprintf("%d 年 %d 月", first.Year(), int(first.Month())),
	}

	var week [DaysPerWeek]Cell
	col := lead
	for day := 1; day <= daysInMonth; day++ {
		key := datekey.Of(first.Year(), first.Month(), day)
		week[col] = Cell{
			Day:      day,
			Date:     key,
			Classes:  classesFor(key, p),
			onSelect: p.OnSelect,
		}
		col++
		if col == DaysPerWeek {
			grid.Weeks = append(grid.Weeks, week)
			week = [DaysPerWeek]Cell{}
			col = 0
		}
	}
	if col > 0 {
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

func classesFor(key datekey.DateKey, p Params) []string {
	_, hasContent := p.WithContent[key]
	isToday := !p.Today.IsZero() && key == p.Today
	isSelected := !p.Selected.IsZero() && key == p.Selected

	var classes []string
	switch {
	case isToday && isSelected:
		return []string{ClassTodaySelected}
	case isToday && hasContent:
		classes = append(classes, ClassHasContent)
	case isToday:
		classes = append(classes, ClassTodayMuted)
	case hasContent:
		classes = append(classes, ClassHasContent)
	}
	if isSelected {
		classes = append(classes, ClassSelected)
	}
	return classes
}
