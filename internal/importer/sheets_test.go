package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himawari-care/shiftboard/internal/shift"
)

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"staff_id", "day", "shift_code", "home"},
		{"s1", "1", "A", "A"},
		{"s2", "15", "b", "b"},
		{"s3", "30", "NONE", ""},
	}

	items, err := ParseRows(rows, 30)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "s1", items[0].StaffID)
	assert.Equal(t, 1, items[0].Day)
	assert.Equal(t, shift.CodeDay, items[0].Code)

	// Codes and homes are normalized to upper case.
	assert.Equal(t, shift.CodeNight, items[1].Code)
	assert.Equal(t, "B", items[1].Home)

	assert.Equal(t, shift.CodeNone, items[2].Code)
}

func TestParseRowsSkipsBlankRows(t *testing.T) {
	rows := [][]string{
		{"staff_id", "day", "shift_code", "home"},
		{"s1", "1", "A", "A"},
		{"", "", ""},
		{"s2", "2", "C", "B"},
	}

	items, err := ParseRows(rows, 30)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestParseRowsRejectsBadDay(t *testing.T) {
	rows := [][]string{
		{"staff_id", "day", "shift_code"},
		{"s1", "31", "A"},
	}

	_, err := ParseRows(rows, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad day")
}

func TestParseRowsRejectsUnknownCode(t *testing.T) {
	rows := [][]string{
		{"staff_id", "day", "shift_code"},
		{"s1", "1", "X"},
	}

	_, err := ParseRows(rows, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shift code")
}

func TestParseRowsRejectsMissingStaff(t *testing.T) {
	rows := [][]string{
		{"staff_id", "day", "shift_code"},
		{"", "1", "A"},
	}

	_, err := ParseRows(rows, 30)
	assert.Error(t, err)
}

func TestParseRowsNeedsData(t *testing.T) {
	_, err := ParseRows([][]string{{"staff_id", "day", "shift_code"}}, 30)
	assert.Error(t, err)
}

func TestSheetIDPattern(t *testing.T) {
	matches := sheetIDPattern.FindStringSubmatch(
		"https://docs.google.com/spreadsheets/d/1AbC_dEf-123/edit#gid=0")
	require.Len(t, matches, 2)
	assert.Equal(t, "1AbC_dEf-123", matches[1])

	assert.Nil(t, sheetIDPattern.FindStringSubmatch("https://example.com/sheet"))
}
