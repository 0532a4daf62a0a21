// Package receipts renders PDF payment receipts for bookings.
package receipts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"padelpoint/internal/models"
)

// Generator writes receipt PDFs into a directory.
type Generator struct {
	dir string
	loc *time.Location
}

// NewGenerator creates the receipts directory if needed.
func NewGenerator(dir string, loc *time.Location) (*Generator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts dir: %w", err)
	}
	return &Generator{dir: dir, loc: loc}, nil
}

// Generate renders a receipt for the booking and returns the file path.
// Times are printed in the business timezone.
func (g *Generator) Generate(b *models.Booking, courtName string) (string, error) {
	number := uuid.New().String()[:8]
	filename := fmt.Sprintf("receipt_%d_%s.pdf", b.ID, number)
	path := filepath.Join(g.dir, filename)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "PadelPoint")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Receipt #%s", number))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", time.Now().In(g.loc).Format("2006-01-02 15:04")))
	pdf.Ln(12)

	rows := [][2]string{
		{"Booking", fmt.Sprintf("#%d", b.ID)},
		{"Court", courtName},
		{"Customer", b.CustomerName},
		{"Start", b.Start.In(g.loc).Format("2006-01-02 15:04")},
		{"End", b.End.In(g.loc).Format("2006-01-02 15:04")},
		{"Price", fmt.Sprintf("%.2f", b.Price)},
		{"Paid", paidLabel(b.Paid)},
	}

	pdf.SetFont("Helvetica", "", 12)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(40, 9, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 9, row[1], "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

func paidLabel(paid bool) string {
	if paid {
		return "yes"
	}
	return "no"
}
