package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func staffOf(ids ...string) []StaffMember {
	var out []StaffMember
	for _, id := range ids {
		out = append(out, StaffMember{ID: id, Name: id, Home: "A"})
	}
	return out
}

func TestWorkedDaysCountsOnlyWorkingCodes(t *testing.T) {
	m := make(AssignmentMap)
	m.Set("s1", 1, Assignment{Code: CodeDay, Home: "A"})
	m.Set("s1", 2, Assignment{Code: CodeNight, Home: "A"})
	m.Set("s1", 3, Assignment{Code: CodeHoliday})
	m.Set("s1", 4, Assignment{Code: CodePaid})
	m.Set("s1", 5, Assignment{Code: CodeSpecial})
	m.Set("s1", 6, Assignment{Code: CodeNone})

	assert.Equal(t, 2, WorkedDays(m, "s1", 30))
}

func TestCodeTotalsExcludeOnlyUnassigned(t *testing.T) {
	m := make(AssignmentMap)
	m.Set("s1", 1, Assignment{Code: CodeDay, Home: "A"})
	m.Set("s1", 2, Assignment{Code: CodePaid})
	m.Set("s2", 1, Assignment{Code: CodeDay, Home: "B"})
	m.Set("s2", 2, Assignment{Code: CodeNone})

	totals := CodeTotals(m, staffOf("s1", "s2"), 30)

	assert.Equal(t, 2, totals[CodeDay])
	assert.Equal(t, 1, totals[CodePaid])
	assert.Zero(t, totals[CodeNone])
}

func TestCodeTotalsSumMatchesAssignedCells(t *testing.T) {
	m := make(AssignmentMap)
	m.Set("s1", 1, Assignment{Code: CodeDay})
	m.Set("s1", 2, Assignment{Code: CodeLate})
	m.Set("s2", 1, Assignment{Code: CodeHoliday})
	m.Set("s2", 3, Assignment{Code: CodeNone})

	totals := CodeTotals(m, staffOf("s1", "s2"), 30)
	sum := 0
	for _, n := range totals {
		sum += n
	}

	// Three cells carry a real code; the NONE cell contributes nothing.
	assert.Equal(t, 3, sum)
}

func TestHomeTotalsExcludeLeave(t *testing.T) {
	m := make(AssignmentMap)
	ids := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10"}
	for _, id := range ids {
		m.Set(id, 1, Assignment{Code: CodeHoliday, Home: "A"})
	}

	// A full house of holidays is zero workload for the home.
	totals := HomeTotals(m, staffOf(ids...), 30)

	assert.Zero(t, totals["A"])
}

func TestHomeTotalsCountWorkingDaysPerHome(t *testing.T) {
	m := make(AssignmentMap)
	m.Set("s1", 1, Assignment{Code: CodeDay, Home: "A"})
	m.Set("s1", 2, Assignment{Code: CodeNight, Home: "B"})
	m.Set("s2", 1, Assignment{Code: CodeLate, Home: "A"})
	m.Set("s2", 2, Assignment{Code: CodeDay, Home: ""})

	totals := HomeTotals(m, staffOf("s1", "s2"), 30)

	assert.Equal(t, 2, totals["A"])
	assert.Equal(t, 1, totals["B"])
	_, hasBlank := totals[""]
	assert.False(t, hasBlank)
}

func TestDailyHomeBreakdownIncludesLeaveCodes(t *testing.T) {
	m := make(AssignmentMap)
	m.Set("s1", 1, Assignment{Code: CodeDay, Home: "A"})
	m.Set("s2", 1, Assignment{Code: CodePaid, Home: "A"})
	m.Set("s1", 2, Assignment{Code: CodeDay, Home: "B"})

	breakdown := DailyHomeBreakdown(m, staffOf("s1", "s2"), 3, "A")

	assert.Len(t, breakdown, 3)
	assert.Equal(t, 1, breakdown[0][CodeDay])
	assert.Equal(t, 1, breakdown[0][CodePaid])
	assert.Empty(t, breakdown[1])
}
