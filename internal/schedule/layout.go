package schedule

import (
	"fmt"
	"sort"
	"time"

	"padelpoint/internal/models"
)

// LayoutBlock is a booking's computed on-screen rectangle for the timeline:
// vertical position by time, horizontal position by overlap-column
// assignment. Offsets are minutes from the business-day start, so a block
// clipped at midnight has TopOffset 0 or Height ending at 1440.
type LayoutBlock struct {
	Booking     models.Booking `json:"booking"`
	Start       time.Time      `json:"start"` // clipped to the day window, UTC
	End         time.Time      `json:"end"`   // clipped to the day window, UTC
	TopOffset   int            `json:"top_offset"`
	Height      int            `json:"height"`
	ColumnIndex int            `json:"column_index"`
	ColumnCount int            `json:"column_count"`
}

// Width returns the block's horizontal extent in percent.
// ColumnCount is at least 1 by construction, so this never divides by zero.
func (lb *LayoutBlock) Width() float64 {
	return 100.0 / float64(lb.ColumnCount)
}

// Left returns the block's horizontal offset in percent.
func (lb *LayoutBlock) Left() float64 {
	return float64(lb.ColumnIndex) * lb.Width()
}

// CalendarWindow computes the timeline layout for the selected day.
//
// It selects non-deleted bookings whose interval intersects the business
// day, clips them at the day boundaries, and assigns each one a column
// index and column count so that concurrent bookings render side by side.
// Overlap uses half-open [start, end) semantics over the clipped intervals
// and is symmetric: if A is in B's overlap set then B is in A's.
//
// The result is deterministic for an unchanged snapshot: blocks are ordered
// by clipped start time with id as the tie-break.
func (e *Engine) CalendarWindow(bookings []models.Booking, day time.Time) ([]LayoutBlock, error) {
	dayStart, dayEnd := e.DayBounds(day)

	blocks := make([]LayoutBlock, 0)
	for _, b := range bookings {
		if b.Deleted() {
			continue
		}
		if err := b.ValidateInterval(); err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		if b.End.Before(dayStart) || b.Start.After(dayEnd) {
			continue
		}
		blocks = append(blocks, LayoutBlock{
			Booking: b,
			Start:   clampTime(b.Start, dayStart, dayEnd),
			End:     clampTime(b.End, dayStart, dayEnd),
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if !blocks[i].Start.Equal(blocks[j].Start) {
			return blocks[i].Start.Before(blocks[j].Start)
		}
		return blocks[i].Booking.ID < blocks[j].Booking.ID
	})

	for i := range blocks {
		blocks[i].TopOffset = int(blocks[i].Start.Sub(dayStart) / time.Minute)
		blocks[i].Height = int(blocks[i].End.Sub(blocks[i].Start) / time.Minute)

		// The overlap set always contains the block itself, so
		// ColumnCount >= 1 even for zero-height boundary clips.
		index, count := 0, 0
		for j := range blocks {
			if j != i && !intersects(&blocks[i], &blocks[j]) {
				continue
			}
			count++
			if j < i {
				index++
			}
		}
		blocks[i].ColumnIndex = index
		blocks[i].ColumnCount = count
	}

	return blocks, nil
}

// intersects checks clipped half-open intervals [start, end).
func intersects(a, b *LayoutBlock) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func clampTime(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}
