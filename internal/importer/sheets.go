// Package importer reads bulk shift assignments out of a Google Sheet and
// prepares them for the upstream bulk upsert endpoint. Expected columns:
// staff_id, day, shift_code, home. The first row is a header.
package importer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/shift"
)

const readRange = "A1:D1000"

var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// FromSheet fetches and parses the sheet behind a share URL.
func FromSheet(ctx context.Context, sheetURL, credentialsFile string, daysInMonth int) ([]roster.BulkItem, error) {
	matches := sheetIDPattern.FindStringSubmatch(sheetURL)
	if len(matches) < 2 {
		return nil, fmt.Errorf("not a Google Sheets URL: %s", sheetURL)
	}
	spreadsheetID := matches[1]

	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		var strRow []string
		for _, cell := range row {
			strRow = append(strRow, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, strRow)
	}

	return ParseRows(rows, daysInMonth)
}

// ParseRows validates the sheet body. Blank rows are skipped; a malformed
// value fails the whole import so a typo never half-applies.
func ParseRows(rows [][]string, daysInMonth int) ([]roster.BulkItem, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet needs a header row and at least one data row")
	}

	var items []roster.BulkItem
	for i, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		staffID := strings.TrimSpace(row[0])
		dayStr := strings.TrimSpace(row[1])
		code := shift.Code(strings.ToUpper(strings.TrimSpace(row[2])))
		home := ""
		if len(row) > 3 {
			home = strings.ToUpper(strings.TrimSpace(row[3]))
		}

		if staffID == "" && dayStr == "" {
			continue
		}
		if staffID == "" || dayStr == "" {
			return nil, fmt.Errorf("row %d: staff_id and day are required", i+2)
		}
		day, err := strconv.Atoi(dayStr)
		if err != nil || day < 1 || day > daysInMonth {
			return nil, fmt.Errorf("row %d: bad day %q (expected 1..%d)", i+2, dayStr, daysInMonth)
		}
		if !code.Valid() {
			return nil, fmt.Errorf("row %d: unknown shift code %q", i+2, row[2])
		}

		items = append(items, roster.BulkItem{
			StaffID: staffID,
			Day:     day,
			Code:    code,
			Home:    home,
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return items, nil
}
