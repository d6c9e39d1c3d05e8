package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter writes a submission report as an Excel workbook.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

var xlsxColumns = []string{
	"Criteria", "Scope", "Category", "Quantity", "Unit",
	"Emission Factor", "GWP", "Emissions (kg CO2e)", "Emissions (t CO2e)", "Formula",
}

func (e *XLSXExporter) Export(report *SubmissionReport, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Emissions Report"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	boldStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return fmt.Errorf("failed to create bold style: %w", err)
	}

	// Summary block.
	file.SetCellValue(sheet, "A1", report.ProjectName)
	file.SetCellStyle(sheet, "A1", "A1", boldStyle)
	file.SetCellValue(sheet, "A2", fmt.Sprintf("%s, reporting year %d %s",
		report.Organization, report.ReportingYear, report.ReportingPeriod))
	file.SetCellValue(sheet, "A3", fmt.Sprintf("Status: %s", report.Status))

	file.SetCellValue(sheet, "A5", "Scope 1 total (t CO2e)")
	file.SetCellValue(sheet, "B5", report.Scope1Total)
	file.SetCellValue(sheet, "A6", "Scope 2 total (t CO2e)")
	file.SetCellValue(sheet, "B6", report.Scope2Total)
	file.SetCellValue(sheet, "A7", "Scope 3 total (t CO2e)")
	file.SetCellValue(sheet, "B7", report.Scope3Total)
	file.SetCellValue(sheet, "A8", "Total (t CO2e)")
	file.SetCellValue(sheet, "B8", report.TotalCO2e)
	file.SetCellStyle(sheet, "A8", "B8", boldStyle)

	// Line table.
	const headerRow = 10
	for i, col := range xlsxColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		file.SetCellValue(sheet, cell, col)
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for i, line := range report.Lines {
		row := headerRow + 1 + i
		values := []interface{}{
			line.CriteriaNumber, line.Scope, line.Category, line.Quantity, line.Unit,
			line.EmissionFactor, line.GWP, line.EmissionsKg, line.EmissionsT, line.Formula,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			file.SetCellValue(sheet, cell, v)
		}
	}

	file.SetPanes(sheet, &excelize.Panes{
		Freeze: true,
		YSplit: headerRow,
	})
	file.SetColWidth(sheet, "A", "C", 24)
	file.SetColWidth(sheet, "D", "I", 18)
	file.SetColWidth(sheet, "J", "J", 48)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
