package analyses

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"recruit-backend/internal/completeness"
)

const (
	sheetSummary = "Summary"
	sheetMissing = "Missing Fields"
	sheetActions = "Priority Actions"
)

// ExportContentType is the media type of exported workbooks.
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildWorkbook renders a completed analysis as an xlsx workbook.
func BuildWorkbook(a Analysis) ([]byte, error) {
	if a.Result == nil {
		return nil, ErrNotReady
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetMissing, sheetActions} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeSummary(f, a, headerStyle); err != nil {
		return nil, err
	}
	if err := writeMissingFields(f, a.Result, headerStyle); err != nil {
		return nil, err
	}
	if err := writeActions(f, a.Result.PriorityActions, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, a Analysis, headerStyle int) error {
	r := a.Result
	completed := ""
	if a.CompletedAt != nil {
		completed = a.CompletedAt.UTC().Format(time.RFC3339)
	}
	rows := [][]any{
		{"Field", "Value"},
		{"Analysis ID", a.ID},
		{"Document ID", a.DocumentID},
		{"Document type", string(r.DocumentType)},
		{"Catalog version", r.CatalogVersion},
		{"Overall score", r.OverallScore},
		{"Critical gaps", len(r.Critical)},
		{"Recommended gaps", len(r.Recommended)},
		{"Optional gaps", len(r.Optional)},
		{"Completed at", completed},
	}
	if err := writeRows(f, sheetSummary, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 20)
	_ = f.SetColWidth(sheetSummary, "B", "B", 40)
	return f.SetCellStyle(sheetSummary, "A1", "B1", headerStyle)
}

func writeMissingFields(f *excelize.File, r *completeness.MissingDataAnalysis, headerStyle int) error {
	rows := [][]any{{"Importance", "Field", "State", "Reason", "Impact", "Estimated time", "Example"}}
	for _, tier := range [][]completeness.MissingField{r.Critical, r.Recommended, r.Optional} {
		for _, m := range tier {
			rows = append(rows, []any{string(m.Importance), m.Field, m.State, m.Reason, m.ImpactOnScore, m.EstimatedTime, m.Example})
		}
	}
	if err := writeRows(f, sheetMissing, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetMissing, "B", "B", 30)
	_ = f.SetColWidth(sheetMissing, "D", "D", 60)
	return f.SetCellStyle(sheetMissing, "A1", "G1", headerStyle)
}

func writeActions(f *excelize.File, actions []completeness.PriorityAction, headerStyle int) error {
	rows := [][]any{{"Rank", "Action", "Description", "Difficulty", "Estimated time", "Impact", "Fields"}}
	for i, a := range actions {
		rows = append(rows, []any{i + 1, a.Title, a.Description, string(a.Difficulty), a.EstimatedTime, a.ImpactScore, strings.Join(a.Fields, ", ")})
	}
	if err := writeRows(f, sheetActions, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetActions, "B", "C", 45)
	return f.SetCellStyle(sheetActions, "A1", "G1", headerStyle)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
