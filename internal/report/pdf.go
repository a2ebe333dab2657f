package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"rfemassist/internal/runner"
)

var pdfWidths = []float64{8, 58, 16, 16, 16, 18, 18, 18, 18}

// WritePDF writes a one-table summary. Error text is left to the workbook.
func WritePDF(w io.Writer, title string, ms []runner.Metrics, now time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Successfully processed: %d/%d inputs", runner.SuccessCount(ms), len(ms)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	for i, c := range columns[:len(pdfWidths)] {
		pdf.CellFormat(pdfWidths[i], 7, c, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, m := range ms {
		for i, v := range row(m)[:len(pdfWidths)] {
			align := "C"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(pdfWidths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
