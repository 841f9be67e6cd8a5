package shift

// Aggregation over an AssignmentMap. Every function is a pure map/reduce over
// cells: no reliance on staff order, and missing cells read as NONE.

// WorkedDays counts a staff member's assigned working days for the month.
// NONE and leave codes contribute zero.
func WorkedDays(m AssignmentMap, staffID string, days int) int {
	total := 0
	for day := 1; day <= days; day++ {
		if m.At(staffID, day).Code.IsWorking() {
			total++
		}
	}
	return total
}

// CodeTotals counts each non-NONE code across the given staff for the month.
// The sum over all codes equals the number of assigned cells.
func CodeTotals(m AssignmentMap, staff []StaffMember, days int) map[Code]int {
	totals := make(map[Code]int)
	for _, member := range staff {
		for day := 1; day <= days; day++ {
			code := m.At(member.ID, day).Code
			if code != CodeNone {
				totals[code]++
			}
		}
	}
	return totals
}

// HomeTotals counts working days per home across all staff. Leave codes are
// excluded: ten people on 公休 in home A is zero workload for home A.
func HomeTotals(m AssignmentMap, staff []StaffMember, days int) map[string]int {
	totals := make(map[string]int)
	for _, member := range staff {
		for day := 1; day <= days; day++ {
			a := m.At(member.ID, day)
			if a.Code.IsWorking() && a.Home != "" {
				totals[a.Home]++
			}
		}
	}
	return totals
}

// DailyHomeBreakdown counts each non-NONE code per day for a single home.
// Index 0 is day 1.
func DailyHomeBreakdown(m AssignmentMap, staff []StaffMember, days int, home string) []map[Code]int {
	breakdown := make([]map[Code]int, days)
	for i := range breakdown {
		breakdown[i] = make(map[Code]int)
	}
	for _, member := range staff {
		for day := 1; day <= days; day++ {
			a := m.At(member.ID, day)
			if a.Code == CodeNone || a.Home != home {
				continue
			}
			breakdown[day-1][a.Code]++
		}
	}
	return breakdown
}
