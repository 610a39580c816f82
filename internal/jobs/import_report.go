package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/navafv/familyplus/internal/models"
)

const (
	reportOutcomesSheet = "Outcomes"
	reportSummarySheet  = "Summary"
)

var reportColumns = []struct {
	header string
	width  float64
}{
	{"Row", 8},
	{"Title", 45},
	{"Outcome", 12},
	{"Product ID", 12},
	{"Reason", 45},
	{"Warnings", 60},
}

// WriteImportReport saves the outcomes of an import run as an .xlsx workbook
func WriteImportReport(filePath, source string, startedAt time.Time, result models.ImportResult) error {
	f, err := BuildImportReport(source, startedAt, result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save import report: %w", err)
	}
	return nil
}

// BuildImportReport renders the outcomes workbook in memory
func BuildImportReport(source string, startedAt time.Time, result models.ImportResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", reportOutcomesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	failedStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "C00000"},
	})

	for i, col := range reportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportOutcomesSheet, cell, col.header)
		f.SetCellStyle(reportOutcomesSheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(reportOutcomesSheet, colName, colName, col.width)
	}

	for i, o := range result.Outcomes {
		row := i + 2
		values := []interface{}{o.Index + 1, o.Title, string(o.Kind), "", o.Reason, strings.Join(o.Warnings, "; ")}
		if o.ProductID != 0 {
			values[3] = o.ProductID
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(reportOutcomesSheet, start, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if o.Kind == models.ImportFailed {
			end, _ := excelize.CoordinatesToCellName(len(values), row)
			f.SetCellStyle(reportOutcomesSheet, start, end, failedStyle)
		}
	}

	f.NewSheet(reportSummarySheet)
	summary := [][]interface{}{
		{"Source", source},
		{"Started", startedAt.UTC().Format(time.RFC3339)},
		{"Total", result.TotalRows},
		{"Created", result.CreatedCount},
		{"Skipped", result.SkippedCount},
		{"Failed", result.FailedCount},
	}
	for i, row := range summary {
		f.SetCellValue(reportSummarySheet, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(reportSummarySheet, fmt.Sprintf("B%d", i+1), row[1])
	}
	f.SetColWidth(reportSummarySheet, "A", "A", 12)
	f.SetColWidth(reportSummarySheet, "B", "B", 80)

	return f, nil
}
