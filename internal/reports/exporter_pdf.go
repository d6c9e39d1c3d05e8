package reports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a submission report as a PDF document.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) Export(report *SubmissionReport, w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, report.ProjectName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s, reporting year %d %s",
		report.Organization, report.ReportingYear, report.ReportingPeriod), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", report.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Totals (t CO2e)", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	totals := [][2]string{
		{"Scope 1", report.Scope1Total},
		{"Scope 2", report.Scope2Total},
		{"Scope 3", report.Scope3Total},
		{"Total", report.TotalCO2e},
	}
	for _, row := range totals {
		pdf.CellFormat(40, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	headers := []string{"Criteria", "Scope", "Category", "Quantity", "Unit", "Factor", "GWP", "kg CO2e", "t CO2e"}
	widths := []float64{22, 18, 70, 24, 18, 24, 16, 28, 28}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, head := range headers {
		pdf.CellFormat(widths[i], 7, head, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	pdf.SetFillColor(240, 244, 250)
	for _, line := range report.Lines {
		cells := []string{
			line.CriteriaNumber, line.Scope, truncate(line.Category, 52),
			line.Quantity, line.Unit, line.EmissionFactor, line.GWP,
			line.EmissionsKg, line.EmissionsT,
		}
		for i, cell := range cells {
			align := "L"
			if i >= 3 && i != 4 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	if report.LockedAt != nil {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Locked at %s", report.LockedAt.Format("2006-01-02 15:04 MST")),
			"", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
