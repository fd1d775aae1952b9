package render

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/compliance-tools/sonar-reporter/internal/report"
)

// SummarySheet writes the report model to a spreadsheet for offline review:
// one summary sheet with every project, plus one sheet per configured group.
func (r *Renderer) SummarySheet(model *report.Model) error {
	sheet := excelize.NewFile()
	sheetFile := filepath.Join(r.outputDir, SummarySheetFile)
	defer saveSheet(sheet, sheetFile)

	sheetName := "quality-gate-summary"
	idx, err := sheet.NewSheet(sheetName)
	if err != nil {
		log.Error(err)
	} else {
		sheet.SetActiveSheet(idx)
		createSheet(sheet, sheetName)
		var rowN int64 = 2
		populateSheet(sheet, sheetName, model.Projects, &rowN)
	}

	for _, group := range model.Groups {
		sheetName = fmt.Sprintf("group-%s", group.Name)
		if _, err := sheet.NewSheet(sheetName); err != nil {
			log.Error(err)
			continue
		}
		createSheet(sheet, sheetName)
		var rowN int64 = 2
		populateSheet(sheet, sheetName, group.Projects, &rowN)
	}

	return nil
}

// createSheet creates the spreadsheet headers.
func createSheet(sheet *excelize.File, sheetName string) {
	header := map[string]string{
		"A1": "Project", "B1": "Key", "C1": "Status",
		"D1": "Last_Analysis", "E1": "Failed_Conditions", "F1": "Dashboard"}

	// create header
	for k, v := range header {
		_ = sheet.SetCellValue(sheetName, k, v)
	}
}

// populateSheet fills each row per project item.
func populateSheet(sheet *excelize.File, sheetName string, projects []*report.Project, rowN *int64) {
	for _, p := range projects {
		failed := 0
		for _, cond := range p.Conditions {
			if cond.Status == report.StatusError {
				failed++
			}
		}
		_ = sheet.SetCellValue(sheetName, fmt.Sprintf("A%d", *rowN), p.Name)
		_ = sheet.SetCellValue(sheetName, fmt.Sprintf("B%d", *rowN), p.Key)
		_ = sheet.SetCellValue(sheetName, fmt.Sprintf("C%d", *rowN), p.Status)
		_ = sheet.SetCellValue(sheetName, fmt.Sprintf("D%d", *rowN), p.LastAnalysis)
		_ = sheet.SetCellValue(sheetName, fmt.Sprintf("E%d", *rowN), failed)
		_ = sheet.SetCellValue(sheetName, fmt.Sprintf("F%d", *rowN), p.URL)
		*(rowN) += 1
	}
}

// saveSheet writes the spreadsheet to disk.
func saveSheet(sheet *excelize.File, sheetFileName string) {
	if err := sheet.SaveAs(sheetFileName); err != nil {
		log.Error(err)
	}
}
