package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padelpoint/internal/models"
)

// local builds a business-timezone instant converted to UTC, the way
// bookings are stored.
func local(e *Engine, y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, e.Location()).UTC()
}

func day(e *Engine, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, e.Location())
}

func TestDayBounds(t *testing.T) {
	e := New(300)
	start, end := e.DayBounds(day(e, 2026, 3, 10))

	// Business midnight of 2026-03-10 at UTC+5 is 2026-03-09T19:00Z.
	assert.Equal(t, time.Date(2026, 3, 9, 19, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC), end)
}

func TestDayView(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		{ID: 3, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 12, 0), End: local(e, 2026, 3, 10, 13, 0)},
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 9, 0), End: local(e, 2026, 3, 10, 10, 30)},
		// Started the previous day, ends on the selected day: list view
		// intentionally hides cross-midnight continuations.
		{ID: 2, Status: models.StatusActive, Start: local(e, 2026, 3, 9, 23, 0), End: local(e, 2026, 3, 10, 1, 0)},
		// Different day entirely.
		{ID: 4, Status: models.StatusActive, Start: local(e, 2026, 3, 11, 9, 0), End: local(e, 2026, 3, 11, 10, 0)},
		// Deleted bookings never appear.
		{ID: 5, Status: models.StatusDeleted, Start: local(e, 2026, 3, 10, 15, 0), End: local(e, 2026, 3, 10, 16, 0)},
	}

	got := e.DayView(bookings, d)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestDayView_SortTieBreakByID(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)
	at := local(e, 2026, 3, 10, 9, 0)

	bookings := []models.Booking{
		{ID: 7, Status: models.StatusActive, Start: at, End: at.Add(time.Hour)},
		{ID: 2, Status: models.StatusActive, Start: at, End: at.Add(2 * time.Hour)},
	}

	got := e.DayView(bookings, d)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(7), got[1].ID)
}

func TestCalendarWindow_BoundaryClipping(t *testing.T) {
	e := New(300)
	// Booking 23:30 day D to 01:30 day D+1.
	b := models.Booking{
		ID:     1,
		Status: models.StatusActive,
		Start:  local(e, 2026, 3, 10, 23, 30),
		End:    local(e, 2026, 3, 11, 1, 30),
	}

	t.Run("day D clips tail at midnight", func(t *testing.T) {
		blocks, err := e.CalendarWindow([]models.Booking{b}, day(e, 2026, 3, 10))
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, local(e, 2026, 3, 10, 23, 30), blocks[0].Start)
		assert.Equal(t, local(e, 2026, 3, 11, 0, 0), blocks[0].End)
		assert.Equal(t, 23*60+30, blocks[0].TopOffset)
		assert.Equal(t, 30, blocks[0].Height)
	})

	t.Run("day D+1 clips head at midnight", func(t *testing.T) {
		blocks, err := e.CalendarWindow([]models.Booking{b}, day(e, 2026, 3, 11))
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, local(e, 2026, 3, 11, 0, 0), blocks[0].Start)
		assert.Equal(t, local(e, 2026, 3, 11, 1, 30), blocks[0].End)
		assert.Equal(t, 0, blocks[0].TopOffset)
		assert.Equal(t, 90, blocks[0].Height)
	})
}

func TestCalendarWindow_ColumnAssignment(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		// A and B overlap; C is alone in the evening.
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 0), End: local(e, 2026, 3, 10, 12, 0)},
		{ID: 2, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 11, 0), End: local(e, 2026, 3, 10, 13, 0)},
		{ID: 3, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 18, 0), End: local(e, 2026, 3, 10, 19, 0)},
	}

	blocks, err := e.CalendarWindow(bookings, d)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, 0, blocks[0].ColumnIndex)
	assert.Equal(t, 2, blocks[0].ColumnCount)
	assert.Equal(t, 1, blocks[1].ColumnIndex)
	assert.Equal(t, 2, blocks[1].ColumnCount)

	// Zero overlap: full width.
	assert.Equal(t, 0, blocks[2].ColumnIndex)
	assert.Equal(t, 1, blocks[2].ColumnCount)
	assert.Equal(t, 100.0, blocks[2].Width())
}

func TestCalendarWindow_OverlapSymmetry(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 9, 0), End: local(e, 2026, 3, 10, 12, 0)},
		{ID: 2, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 0), End: local(e, 2026, 3, 10, 11, 0)},
		{ID: 3, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 30), End: local(e, 2026, 3, 10, 14, 0)},
		{ID: 4, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 13, 0), End: local(e, 2026, 3, 10, 15, 0)},
	}

	blocks, err := e.CalendarWindow(bookings, d)
	require.NoError(t, err)

	for i := range blocks {
		for j := range blocks {
			assert.Equal(t, intersects(&blocks[i], &blocks[j]), intersects(&blocks[j], &blocks[i]),
				"overlap between %d and %d must be symmetric", blocks[i].Booking.ID, blocks[j].Booking.ID)
		}
	}
}

func TestCalendarWindow_FullCoverage(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 9, 0), End: local(e, 2026, 3, 10, 12, 0)},
		{ID: 2, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 0), End: local(e, 2026, 3, 10, 11, 0)},
		{ID: 3, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 30), End: local(e, 2026, 3, 10, 13, 0)},
		{ID: 4, Status: models.StatusActive, Start: local(e, 2026, 3, 9, 23, 0), End: local(e, 2026, 3, 10, 2, 0)},
	}

	blocks, err := e.CalendarWindow(bookings, d)
	require.NoError(t, err)

	for _, lb := range blocks {
		assert.Less(t, lb.ColumnIndex, lb.ColumnCount)
		assert.GreaterOrEqual(t, lb.ColumnCount, 1)
	}

	// At every minute of the day, concurrent block widths must not
	// exceed 100%.
	dayStart, _ := e.DayBounds(d)
	for minute := 0; minute < 24*60; minute++ {
		at := dayStart.Add(time.Duration(minute) * time.Minute)
		total := 0.0
		for i := range blocks {
			if !blocks[i].Start.After(at) && blocks[i].End.After(at) {
				total += blocks[i].Width()
			}
		}
		assert.LessOrEqual(t, total, 100.0+1e-9, "width overflow at minute %d", minute)
	}
}

func TestCalendarWindow_Idempotence(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		{ID: 2, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 0), End: local(e, 2026, 3, 10, 12, 0)},
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 0), End: local(e, 2026, 3, 10, 11, 0)},
		{ID: 3, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 11, 30), End: local(e, 2026, 3, 10, 13, 0)},
	}

	first, err := e.CalendarWindow(bookings, d)
	require.NoError(t, err)

	// Same snapshot, shuffled source order: identical layout.
	shuffled := []models.Booking{bookings[2], bookings[0], bookings[1]}
	second, err := e.CalendarWindow(shuffled, d)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// Equal starts tie-break by id.
	assert.Equal(t, int64(1), first[0].Booking.ID)
	assert.Equal(t, int64(2), first[1].Booking.ID)
}

func TestCalendarWindow_DeletedExcluded(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		{ID: 1, Status: models.StatusDeleted, Start: local(e, 2026, 3, 10, 10, 0), End: local(e, 2026, 3, 10, 12, 0)},
	}

	blocks, err := e.CalendarWindow(bookings, d)
	require.NoError(t, err)
	assert.Empty(t, blocks)

	assert.Empty(t, e.DayView(bookings, d))
	assert.False(t, e.HourOccupancy(bookings, d, 10))
}

func TestCalendarWindow_InvalidInterval(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 12, 0), End: local(e, 2026, 3, 10, 10, 0)},
	}

	_, err := e.CalendarWindow(bookings, d)
	assert.ErrorIs(t, err, models.ErrInvalidInterval)
}

func TestHourOccupancy_CrossMidnight(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)
	next := day(e, 2026, 3, 11)

	// Booking 22:00 on day D to 02:00 on day D+1.
	bookings := []models.Booking{
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 22, 0), End: local(e, 2026, 3, 11, 2, 0)},
	}

	assert.True(t, e.HourOccupancy(bookings, d, 22))
	assert.True(t, e.HourOccupancy(bookings, d, 23))
	assert.False(t, e.HourOccupancy(bookings, d, 21))

	assert.True(t, e.HourOccupancy(bookings, next, 0))
	assert.True(t, e.HourOccupancy(bookings, next, 1))
	assert.False(t, e.HourOccupancy(bookings, next, 2))
	assert.False(t, e.HourOccupancy(bookings, next, 3))
}

func TestHourOccupancy_SameDay(t *testing.T) {
	e := New(300)
	d := day(e, 2026, 3, 10)

	bookings := []models.Booking{
		{ID: 1, Status: models.StatusActive, Start: local(e, 2026, 3, 10, 10, 0), End: local(e, 2026, 3, 10, 11, 30)},
	}

	assert.False(t, e.HourOccupancy(bookings, d, 9))
	assert.True(t, e.HourOccupancy(bookings, d, 10))
	// Hour-granular window [startHour, endHour): the trailing partial
	// hour does not mark hour 11 as occupied.
	assert.False(t, e.HourOccupancy(bookings, d, 11))
	assert.False(t, e.HourOccupancy(bookings, d, 12))

	hours := e.OccupiedHours(bookings, d)
	assert.True(t, hours[10])
	assert.False(t, hours[12])
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		err   bool
	}{
		{
			name:  "rfc3339 with zone",
			input: "2026-03-10T10:00:00+05:00",
			want:  time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 utc",
			input: "2026-03-10T10:00:00Z",
			want:  time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			// No zone marker: treated as UTC regardless of host timezone.
			name:  "naive treated as utc",
			input: "2026-03-10T10:00:00",
			want:  time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "malformed",
			input: "tomorrow at noon",
			err:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstant(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}
