// Package shift defines the roster domain: shift codes, staff, assignments,
// requests and the pure aggregation over them.
package shift

import (
	"strings"
	"time"
)

// Code is a work-pattern code as shown on the grid.
type Code string

const (
	CodeDay     Code = "A"    // 日勤
	CodeNight   Code = "B"    // 夜勤
	CodeLate    Code = "C"    // 遅番
	CodeEarly   Code = "EL"   // 早朝
	CodeHoliday Code = "N"    // 公休
	CodePaid    Code = "L"    // 有休
	CodeSpecial Code = "SP"   // 特休
	CodeNone    Code = "NONE" // 未定
)

// CodeInfo carries the fixed display attributes of a code.
type CodeInfo struct {
	Name  string
	Time  string
	Class string
}

var codeTable = map[Code]CodeInfo{
	CodeDay:     {Name: "日勤", Time: "10時～19時", Class: "shift-a"},
	CodeNight:   {Name: "夜勤", Time: "22時～7時", Class: "shift-b"},
	CodeLate:    {Name: "遅番", Time: "13時～22時", Class: "shift-c"},
	CodeEarly:   {Name: "早朝", Time: "7時～10時", Class: "shift-el"},
	CodeHoliday: {Name: "公休", Time: "", Class: "shift-n"},
	CodePaid:    {Name: "有休", Time: "", Class: "shift-l"},
	CodeSpecial: {Name: "特休", Time: "", Class: "shift-sp"},
	CodeNone:    {Name: "未定", Time: "", Class: "shift-none"},
}

// Codes lists every code in display order, NONE last.
var Codes = []Code{CodeDay, CodeNight, CodeLate, CodeEarly, CodeHoliday, CodePaid, CodeSpecial, CodeNone}

// Info returns display attributes; unknown codes read as NONE.
func (c Code) Info() CodeInfo {
	if info, ok := codeTable[c]; ok {
		return info
	}
	return codeTable[CodeNone]
}

// Valid reports whether c is a known code.
func (c Code) Valid() bool {
	_, ok := codeTable[c]
	return ok
}

// IsLeave reports whether c is a holiday/leave code. Leave days count toward
// per-code totals but never toward worked days or per-home workload.
func (c Code) IsLeave() bool {
	return c == CodeHoliday || c == CodePaid || c == CodeSpecial
}

// IsWorking reports whether c counts as workload: assigned and not leave.
func (c Code) IsWorking() bool {
	return c != CodeNone && !c.IsLeave()
}

// HomeClass derives the CSS class for a home identifier ("A" -> "home-a").
func HomeClass(home string) string {
	if home == "" {
		return ""
	}
	return "home-" + strings.ToLower(home)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
