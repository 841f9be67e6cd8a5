// Package export writes a month's grid view to an Excel workbook: one sheet
// mirroring the roster table, one with the aggregates.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/himawari-care/shiftboard/internal/grid"
)

const (
	rosterSheet  = "シフト表"
	summarySheet = "集計"
)

// Summary reports how the export went. Row failures are counted, not fatal:
// a batch export surfaces an aggregate, never a per-row rollback.
type Summary struct {
	Rows   int `json:"rows"`
	Failed int `json:"failed"`
}

// WriteWorkbook renders the view into path.
func WriteWorkbook(view grid.View, path string) (Summary, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", rosterSheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return Summary{}, fmt.Errorf("create summary sheet: %w", err)
	}

	summary := writeRoster(f, view)
	writeSummary(f, view)

	if err := f.SaveAs(path); err != nil {
		return summary, fmt.Errorf("save workbook: %w", err)
	}
	return summary, nil
}

func writeRoster(f *excelize.File, view grid.View) Summary {
	var summary Summary

	header := []interface{}{"スタッフ名"}
	for _, day := range view.Header {
		header = append(header, day)
	}
	header = append(header, "月合計")
	setRow(f, rosterSheet, 1, header)

	for i, row := range view.Rows {
		values := []interface{}{row.StaffName}
		for _, cell := range row.Cells {
			values = append(values, cell.Label)
		}
		values = append(values, fmt.Sprintf("%d日", row.WorkedDays))

		summary.Rows++
		if err := setRow(f, rosterSheet, i+2, values); err != nil {
			summary.Failed++
		}
	}
	return summary
}

func writeSummary(f *excelize.File, view grid.View) {
	row := 1
	setRow(f, summarySheet, row, []interface{}{"月間集計", view.Title})
	row++
	for _, total := range view.CodeTotals {
		setRow(f, summarySheet, row, []interface{}{
			fmt.Sprintf("%s (%s)", total.Name, total.Code), total.Count,
		})
		row++
	}

	row++
	setRow(f, summarySheet, row, []interface{}{"ホーム別月間合計"})
	row++
	for _, total := range view.HomeTotals {
		setRow(f, summarySheet, row, []interface{}{
			total.Home + "ホーム", fmt.Sprintf("%d日", total.Days),
		})
		row++
	}

	if view.Source == "sample" {
		row++
		setRow(f, summarySheet, row, []interface{}{"※ サンプルデータから出力"})
	}
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
