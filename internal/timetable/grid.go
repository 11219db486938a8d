// Package timetable projects the sparse per-day slot lists returned by the
// API into a dense day-by-period grid ready for display.
package timetable

import (
	"strings"

	"github.com/schedulify/schedulify-cli/internal/models"
)

// View selects which auxiliary slot fields are rendered. The projection is
// otherwise identical for teacher and class timetables.
type View int

const (
	// TeacherView renders the class group and section a teacher meets.
	TeacherView View = iota
	// ClassView renders the teacher assigned to the class section.
	ClassView
)

// Cell is one day/period entry. A nil Slot marks a free period.
type Cell struct {
	Slot    *models.ScheduleSlot
	Subject string
	Detail  string
	LabRoom string
}

// Free reports whether no lesson is scheduled in this cell.
func (c Cell) Free() bool { return c.Slot == nil }

// Grid is the dense day-by-period projection. It is entirely derived state:
// recomputed on every load and never persisted.
type Grid struct {
	Days    []models.Day
	Periods int
	cells   map[models.Day][]Cell
}

// Cell returns the entry for the given day and period. Out-of-range lookups
// return a free cell.
func (g Grid) Cell(day models.Day, period int) Cell {
	row, ok := g.cells[day]
	if !ok || period < 0 || period >= len(row) {
		return Cell{}
	}
	return row[period]
}

// Project builds the full days-by-periods cross product from a sparse week.
// Every requested cell is defined even when the input has no slots at all.
// When a day holds two slots with the same period the first one in payload
// order wins: duplicates are a server data-integrity violation the client
// only has to survive, not detect. Identifiers missing from the metadata
// dictionary fall back to the raw id, so projection never fails.
func Project(week models.Week, days []models.Day, periods int, meta models.Metadata, view View) Grid {
	if len(days) == 0 {
		days = models.WeekDays
	}
	if periods <= 0 {
		periods = models.DefaultPeriodsPerDay
	}

	grid := Grid{Days: days, Periods: periods, cells: make(map[models.Day][]Cell, len(days))}
	for _, day := range days {
		row := make([]Cell, periods)
		for _, slot := range week[day] {
			if slot.Period < 0 || slot.Period >= periods {
				continue
			}
			if !row[slot.Period].Free() {
				continue
			}
			row[slot.Period] = render(slot, meta, view)
		}
		grid.cells[day] = row
	}
	return grid
}

func render(slot models.ScheduleSlot, meta models.Metadata, view View) Cell {
	cell := Cell{
		Slot:    &slot,
		Subject: meta.SubjectName(slot.SubjectID),
		LabRoom: slot.LabRoomID,
	}
	switch view {
	case ClassView:
		cell.Detail = meta.TeacherName(slot.TeacherID)
	default:
		cell.Detail = strings.TrimSpace(meta.ClassName(slot.ClassGroupID) + " " + slot.SectionID)
	}
	return cell
}
