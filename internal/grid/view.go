// Package grid derives the monthly table view and its aggregates from a
// roster snapshot. Building a view never touches the network or the state.
package grid

import (
	"fmt"

	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/shift"
)

// HomeFilterAll shows every staff member regardless of home.
const HomeFilterAll = "all"

type Cell struct {
	Day      int        `json:"day"`
	StaffID  string     `json:"staff_id"`
	Code     shift.Code `json:"code"`
	Label    string     `json:"label"`
	Class    string     `json:"class"`
	Home     string     `json:"home"`
	HomeCls  string     `json:"home_class"`
	Editable bool       `json:"editable"`
}

type Row struct {
	StaffID    string `json:"staff_id"`
	StaffName  string `json:"staff_name"`
	Home       string `json:"home"`
	Cells      []Cell `json:"cells"`
	WorkedDays int    `json:"worked_days"`
}

type CodeTotal struct {
	Code  shift.Code `json:"code"`
	Name  string     `json:"name"`
	Count int        `json:"count"`
}

type HomeTotal struct {
	Home string `json:"home"`
	Days int    `json:"days"`
}

type DayCount struct {
	Code  shift.Code `json:"code"`
	Count int        `json:"count"`
}

type DailyColumn struct {
	Day    int        `json:"day"`
	Counts []DayCount `json:"counts"`
}

// DailyBreakdown is the per-day per-code table for one selected home.
type DailyBreakdown struct {
	Home       string        `json:"home"`
	Columns    []DailyColumn `json:"columns"`
	MonthTotal int           `json:"month_total"`
}

// View is the fully derived render model for one month.
type View struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Days       int             `json:"days"`
	HomeFilter string          `json:"home_filter"`
	Source     roster.Source   `json:"source"`
	Title      string          `json:"title"`
	Header     []int           `json:"header"`
	Rows       []Row           `json:"rows"`
	CodeTotals []CodeTotal     `json:"code_totals"`
	HomeTotals []HomeTotal     `json:"home_totals"`
	Daily      *DailyBreakdown `json:"daily,omitempty"`
	Homes      []string        `json:"homes"`
}

// Build derives the view for a snapshot and a home filter. Pure function:
// same snapshot and filter, same view.
func Build(snap roster.Snapshot, homeFilter string) View {
	if homeFilter == "" {
		homeFilter = HomeFilterAll
	}

	view := View{
		Year:       snap.Year,
		Month:      snap.Month,
		Days:       snap.Days,
		HomeFilter: homeFilter,
		Source:     snap.Source,
		Title:      fmt.Sprintf("%d年%d月", snap.Year, snap.Month),
	}

	for day := 1; day <= snap.Days; day++ {
		view.Header = append(view.Header, day)
	}

	visible := filterStaff(snap.Staff, homeFilter)
	for _, member := range visible {
		row := Row{
			StaffID:    member.ID,
			StaffName:  member.Name,
			Home:       member.Home,
			WorkedDays: shift.WorkedDays(snap.Assignments, member.ID, snap.Days),
		}
		for day := 1; day <= snap.Days; day++ {
			a := snap.Assignments.At(member.ID, day)
			cell := Cell{
				Day:      day,
				StaffID:  member.ID,
				Code:     a.Code,
				Class:    a.Code.Info().Class,
				Home:     a.Home,
				HomeCls:  shift.HomeClass(a.Home),
				Editable: true,
			}
			// NONE renders blank.
			if a.Code != shift.CodeNone {
				cell.Label = string(a.Code)
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}

	codeTotals := shift.CodeTotals(snap.Assignments, visible, snap.Days)
	for _, code := range shift.Codes {
		if code == shift.CodeNone {
			continue
		}
		view.CodeTotals = append(view.CodeTotals, CodeTotal{
			Code:  code,
			Name:  code.Info().Name,
			Count: codeTotals[code],
		})
	}

	// Home totals always scan every staff member, not just the visible ones:
	// the right-hand panel compares homes against each other.
	homeTotals := shift.HomeTotals(snap.Assignments, snap.Staff, snap.Days)
	for _, home := range sortedHomes(snap.Staff, homeTotals) {
		view.HomeTotals = append(view.HomeTotals, HomeTotal{Home: home, Days: homeTotals[home]})
		view.Homes = append(view.Homes, home)
	}

	if homeFilter != HomeFilterAll {
		view.Daily = buildDaily(snap, homeFilter, homeTotals[homeFilter])
	}

	return view
}

func buildDaily(snap roster.Snapshot, home string, monthTotal int) *DailyBreakdown {
	breakdown := shift.DailyHomeBreakdown(snap.Assignments, snap.Staff, snap.Days, home)
	daily := &DailyBreakdown{Home: home, MonthTotal: monthTotal}
	for i, counts := range breakdown {
		column := DailyColumn{Day: i + 1}
		for _, code := range shift.Codes {
			if n, ok := counts[code]; ok && n > 0 {
				column.Counts = append(column.Counts, DayCount{Code: code, Count: n})
			}
		}
		daily.Columns = append(daily.Columns, column)
	}
	return daily
}

func filterStaff(staff []shift.StaffMember, homeFilter string) []shift.StaffMember {
	if homeFilter == HomeFilterAll {
		return staff
	}
	var out []shift.StaffMember
	for _, member := range staff {
		if member.Home == homeFilter {
			out = append(out, member)
		}
	}
	return out
}

// sortedHomes lists homes in a stable order: those present on staff records
// first in first-seen order, then any home that only appears on assignments.
func sortedHomes(staff []shift.StaffMember, totals map[string]int) []string {
	seen := make(map[string]bool)
	var homes []string
	for _, member := range staff {
		if member.Home != "" && !seen[member.Home] {
			seen[member.Home] = true
			homes = append(homes, member.Home)
		}
	}
	var extra []string
	for home := range totals {
		if !seen[home] {
			extra = append(extra, home)
		}
	}
	// Extras sorted for determinism.
	for i := 0; i < len(extra); i++ {
		for j := i + 1; j < len(extra); j++ {
			if extra[j] < extra[i] {
				extra[i], extra[j] = extra[j], extra[i]
			}
		}
	}
	return append(homes, extra...)
}
