// Package reporting writes xlsx exports of ledger projections.
package reporting

import (
	"fmt"
	"path/filepath"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// WriteGapReport saves the gap projection as an xlsx file in outputDir and
// returns the full path of the written file.
func WriteGapReport(gaps []domain.GapEntry, outputDir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue(sheetName, "A1", "DocumentNumber")
	f.SetCellValue(sheetName, "B1", "DocumentYear")
	f.SetCellValue(sheetName, "C1", "DocumentMonth")
	f.SetCellValue(sheetName, "D1", "IsDiscard")

	for i, g := range gaps {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, g.DocumentNumber)
		f.SetCellValue(sheetName, "B"+row, g.DocumentYear)
		if g.DocumentMonth != nil {
			f.SetCellValue(sheetName, "C"+row, *g.DocumentMonth)
		}
		f.SetCellValue(sheetName, "D"+row, g.IsDiscard)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("gaps_%s.xlsx", uuid.NewString()))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save gap report: %w", err)
	}
	return path, nil
}

// WriteMonthlyOverview saves the deliveries of one month as an xlsx file in
// outputDir and returns the full path of the written file.
func WriteMonthlyOverview(records []domain.DeliveryRecord, year, month int, outputDir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headings := []string{
		"DocumentNumber", "DocumentGenre", "DocumentDate", "CompanyName",
		"DeliveryCity", "Quantity", "DeliveryDate", "Vehicle", "VehicleDriver",
		"Distance", "DocumentSource", "PageNumber",
	}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	for i, rec := range records {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, rec.DocumentNumber)
		f.SetCellValue(sheetName, "B"+row, rec.DocumentGenre)
		f.SetCellValue(sheetName, "C"+row, rec.DocumentDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, "D"+row, rec.CompanyName)
		f.SetCellValue(sheetName, "E"+row, rec.DeliveryCity)
		f.SetCellValue(sheetName, "F"+row, rec.Quantity)
		f.SetCellValue(sheetName, "G"+row, rec.DeliveryDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, "H"+row, rec.Vehicle)
		f.SetCellValue(sheetName, "I"+row, derefString(rec.VehicleDriver))
		if rec.Distance.Valid {
			f.SetCellValue(sheetName, "J"+row, rec.Distance.Decimal.String())
		}
		f.SetCellValue(sheetName, "K"+row, rec.DocumentSource)
		f.SetCellValue(sheetName, "L"+row, rec.PageNumber)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("overview_%04d_%02d.xlsx", year, month))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save monthly overview: %w", err)
	}
	return path, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
