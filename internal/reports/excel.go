package reports

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter builds a workbook sheet by sheet.
type ExcelWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

// NewExcelWriter creates an empty workbook.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{file: excelize.NewFile()}
}

// AddSheet adds a new sheet and makes it current.
func (w *ExcelWriter) AddSheet(name string) error {
	// Excel limits sheet names to 31 chars.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

// WriteHeader writes bold column headers to the current sheet.
func (w *ExcelWriter) WriteHeader(columns []string) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}

	w.currentRow++
	return nil
}

// WriteRow writes a data row to the current sheet.
func (w *ExcelWriter) WriteRow(row []interface{}) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}

	w.currentRow++
	return nil
}

// Save writes the workbook to wr.
func (w *ExcelWriter) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// Close releases resources.
func (w *ExcelWriter) Close() error {
	return w.file.Close()
}

// WriteWorkbook renders a report as a three-sheet workbook: summary,
// per-day/per-court aggregates, and the raw booking rows.
func WriteWorkbook(r *Report, wr io.Writer) error {
	w := NewExcelWriter()
	defer w.Close()

	if err := w.AddSheet("Summary"); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"Field", "Value"}); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Start date", r.StartDate},
		{"End date", r.EndDate},
		{"Bookings", r.BookingsCount},
		{"Total revenue", r.TotalRevenue},
		{"Paid", r.PaidAmount},
		{"Unpaid", r.UnpaidAmount},
	}
	for _, row := range summary {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}

	if err := w.AddSheet("Per day"); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"Date", "Bookings", "Revenue"}); err != nil {
		return err
	}
	days := make([]string, 0, len(r.PerDay))
	for day := range r.PerDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		agg := r.PerDay[day]
		if err := w.WriteRow([]interface{}{day, agg.Count, agg.Revenue}); err != nil {
			return err
		}
	}

	if err := w.AddSheet("Bookings"); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"ID", "Court", "Start", "End", "Price", "Paid", "Status"}); err != nil {
		return err
	}
	for _, b := range r.Bookings {
		if err := w.WriteRow([]interface{}{
			b.ID,
			b.CourtID,
			b.StartTime.Format("2006-01-02 15:04"),
			b.EndTime.Format("2006-01-02 15:04"),
			b.Price,
			b.Paid,
			b.Status,
		}); err != nil {
			return err
		}
	}

	return w.Save(wr)
}
