package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulify/schedulify-cli/internal/models"
)

func TestProjectTeacherWeek(t *testing.T) {
	week := models.Week{
		models.Monday: {{Period: 2, SubjectID: "SUB1", ClassGroupID: "C10"}},
	}
	meta := models.Metadata{
		Subjects: map[string]string{"SUB1": "Math"},
		Classes:  map[string]string{"C10": "Grade 10"},
	}

	grid := Project(week, models.WeekDays, 8, meta, TeacherView)

	cell := grid.Cell(models.Monday, 2)
	require.False(t, cell.Free())
	assert.Equal(t, "Math", cell.Subject)
	assert.Equal(t, "Grade 10", cell.Detail)

	// Every other cell of the 6x8 grid is defined and free.
	filled := 0
	for _, day := range grid.Days {
		for period := 0; period < grid.Periods; period++ {
			if !grid.Cell(day, period).Free() {
				filled++
			}
		}
	}
	assert.Equal(t, 1, filled)
}

func TestProjectClassView(t *testing.T) {
	week := models.Week{
		models.Tuesday: {{Period: 0, SubjectID: "SUB2", TeacherID: "T1", LabRoomID: "L1"}},
	}
	meta := models.Metadata{
		Subjects: map[string]string{"SUB2": "Physics"},
		Teachers: map[string]string{"T1": "Ms. Rao"},
	}

	grid := Project(week, models.WeekDays, 8, meta, ClassView)

	cell := grid.Cell(models.Tuesday, 0)
	require.False(t, cell.Free())
	assert.Equal(t, "Physics", cell.Subject)
	assert.Equal(t, "Ms. Rao", cell.Detail)
	assert.Equal(t, "L1", cell.LabRoom)
}

func TestProjectMissingMetadataFallsBackToRawIDs(t *testing.T) {
	week := models.Week{
		models.Friday: {{Period: 5, SubjectID: "SUBX", ClassGroupID: "CX", SectionID: "B"}},
	}

	grid := Project(week, models.WeekDays, 8, models.Metadata{}, TeacherView)

	cell := grid.Cell(models.Friday, 5)
	require.False(t, cell.Free())
	assert.Equal(t, "SUBX", cell.Subject)
	assert.Equal(t, "CX B", cell.Detail)
}

func TestProjectDuplicatePeriodFirstWins(t *testing.T) {
	week := models.Week{
		models.Wednesday: {
			{Period: 3, SubjectID: "first"},
			{Period: 3, SubjectID: "second"},
		},
	}

	grid := Project(week, models.WeekDays, 8, models.Metadata{}, TeacherView)
	assert.Equal(t, "first", grid.Cell(models.Wednesday, 3).Subject)
}

func TestProjectEmptyWeekStillCoversCrossProduct(t *testing.T) {
	grid := Project(models.Week{}, models.WeekDays, 8, models.Metadata{}, TeacherView)

	assert.Len(t, grid.Days, 6)
	assert.Equal(t, 8, grid.Periods)
	for _, day := range grid.Days {
		for period := 0; period < grid.Periods; period++ {
			assert.True(t, grid.Cell(day, period).Free())
		}
	}
}

func TestProjectIgnoresOutOfRangePeriods(t *testing.T) {
	week := models.Week{
		models.Monday: {{Period: -1, SubjectID: "a"}, {Period: 8, SubjectID: "b"}},
	}

	grid := Project(week, models.WeekDays, 8, models.Metadata{}, TeacherView)
	for period := 0; period < 8; period++ {
		assert.True(t, grid.Cell(models.Monday, period).Free())
	}
}

func TestProjectDeterministic(t *testing.T) {
	week := models.Week{
		models.Monday:   {{Period: 1, SubjectID: "SUB1", ClassGroupID: "C1"}},
		models.Thursday: {{Period: 7, SubjectID: "SUB2", ClassGroupID: "C2", SectionID: "A"}},
	}
	meta := models.Metadata{Subjects: map[string]string{"SUB1": "Math", "SUB2": "History"}}

	first := Project(week, models.WeekDays, 8, meta, TeacherView)
	second := Project(week, models.WeekDays, 8, meta, TeacherView)

	for _, day := range first.Days {
		for period := 0; period < first.Periods; period++ {
			assert.Equal(t, first.Cell(day, period), second.Cell(day, period))
		}
	}
}

func TestProjectDefaultsDimensions(t *testing.T) {
	grid := Project(models.Week{}, nil, 0, models.Metadata{}, TeacherView)
	assert.Equal(t, models.WeekDays, grid.Days)
	assert.Equal(t, models.DefaultPeriodsPerDay, grid.Periods)
}
