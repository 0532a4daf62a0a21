package reports

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsMirror pushes revenue reports into a Google spreadsheet so that
// management can follow the numbers without touching the back office.
type SheetsMirror struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsMirror authenticates with a service-account credentials file.
func NewSheetsMirror(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsMirror, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsMirror{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Push replaces the spreadsheet's report range with the given report.
func (m *SheetsMirror) Push(ctx context.Context, r *Report) error {
	values := [][]interface{}{
		{"Period", r.StartDate + " - " + r.EndDate},
		{"Bookings", r.BookingsCount},
		{"Total revenue", r.TotalRevenue},
		{"Paid", r.PaidAmount},
		{"Unpaid", r.UnpaidAmount},
		{},
		{"Date", "Bookings", "Revenue"},
	}

	days := make([]string, 0, len(r.PerDay))
	for day := range r.PerDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		agg := r.PerDay[day]
		values = append(values, []interface{}{day, agg.Count, agg.Revenue})
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := m.service.Spreadsheets.Values.
		Update(m.spreadsheetID, "Report!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update spreadsheet: %w", err)
	}
	return nil
}
