package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/himawari-care/shiftboard/internal/grid"
	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/shift"
)

func testView() grid.View {
	m := make(shift.AssignmentMap)
	m.Set("s1", 1, shift.Assignment{Code: shift.CodeDay, Home: "A"})
	m.Set("s1", 2, shift.Assignment{Code: shift.CodeHoliday})

	snap := roster.Snapshot{
		Year: 2025, Month: 6, Days: 30,
		Source: roster.SourceLive,
		Staff: []shift.StaffMember{
			{ID: "s1", Name: "佐藤", Home: "A"},
		},
		Assignments: m,
	}
	return grid.Build(snap, "")
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	summary, err := WriteWorkbook(testView(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Rows)
	assert.Zero(t, summary.Failed)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(rosterSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "佐藤", name)

	day1, err := f.GetCellValue(rosterSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "A", day1)

	// Day 2 is a holiday: shown in the grid, not counted as worked.
	total, err := f.GetCellValue(rosterSheet, "AF2")
	require.NoError(t, err)
	assert.Equal(t, "1日", total)

	title, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2025年6月", title)
}

func TestWriteWorkbookSampleNote(t *testing.T) {
	view := testView()
	view.Source = roster.SourceSample
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	_, err := WriteWorkbook(view, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)

	found := false
	for _, row := range rows {
		for _, cell := range row {
			if cell == "※ サンプルデータから出力" {
				found = true
			}
		}
	}
	assert.True(t, found)
}
