// Package reports computes revenue aggregates over booking snapshots.
package reports

import (
	"time"

	"padelpoint/internal/models"
)

// Agg is a count/revenue pair for one grouping bucket.
type Agg struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ReportBooking is the slim booking projection embedded in a report.
type ReportBooking struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"court_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     float64   `json:"price"`
	Paid      bool      `json:"paid"`
	Status    string    `json:"status"`
}

// Report is a revenue summary for a date range. Soft-deleted bookings are
// included: historical reports keep the full record.
type Report struct {
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	BookingsCount int               `json:"bookings_count"`
	TotalRevenue  float64           `json:"total_revenue"`
	PaidAmount    float64           `json:"paid_amount"`
	UnpaidAmount  float64           `json:"unpaid_amount"`
	PerDay        map[string]Agg    `json:"per_day"`
	PerCourt      map[int64]Agg     `json:"per_court"`
	Bookings      []ReportBooking   `json:"bookings"`
}

// Build aggregates the bookings of [start, end] into a report. Days are
// keyed by the booking's start date in loc, the business timezone.
func Build(bookings []models.Booking, start, end time.Time, loc *time.Location) *Report {
	r := &Report{
		StartDate: start.In(loc).Format("2006-01-02"),
		EndDate:   end.In(loc).Format("2006-01-02"),
		PerDay:    make(map[string]Agg),
		PerCourt:  make(map[int64]Agg),
		Bookings:  make([]ReportBooking, 0, len(bookings)),
	}

	paid, total := Totals(bookings)
	r.BookingsCount = len(bookings)
	r.TotalRevenue = total
	r.PaidAmount = paid
	r.UnpaidAmount = total - paid

	for _, b := range bookings {
		dayKey := b.Start.In(loc).Format("2006-01-02")

		day := r.PerDay[dayKey]
		day.Count++
		day.Revenue += b.Price
		r.PerDay[dayKey] = day

		court := r.PerCourt[b.CourtID]
		court.Count++
		court.Revenue += b.Price
		r.PerCourt[b.CourtID] = court

		r.Bookings = append(r.Bookings, ReportBooking{
			ID:        b.ID,
			CourtID:   b.CourtID,
			StartTime: b.Start,
			EndTime:   b.End,
			Price:     b.Price,
			Paid:      b.Paid,
			Status:    b.Status,
		})
	}

	return r
}

// Totals recomputes paid and total revenue from raw booking rows. Callers
// use this instead of any stored aggregate, so a stale or wrong stored
// total can never surface in the UI.
func Totals(bookings []models.Booking) (paid, total float64) {
	for _, b := range bookings {
		total += b.Price
		if b.Paid {
			paid += b.Price
		}
	}
	return paid, total
}

// Redacted returns the empty shell that non-admin users receive: the
// range and booking count, with every monetary figure zeroed.
func (r *Report) Redacted() *Report {
	return &Report{
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		BookingsCount: r.BookingsCount,
		PerDay:        map[string]Agg{},
		PerCourt:      map[int64]Agg{},
		Bookings:      []ReportBooking{},
	}
}
