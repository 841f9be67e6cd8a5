package roster

import (
	"github.com/himawari-care/shiftboard/internal/shift"
)

// Built-in fallback dataset shown when the staff list cannot be fetched, so
// the dashboard is never blank. Snapshots built from it are tagged
// SourceSample and the view surfaces that tag.

func sampleStaff() []shift.StaffMember {
	return []shift.StaffMember{
		{ID: "s1", Name: "平田 太郎", Home: "A"},
		{ID: "s2", Name: "山田 美咲", Home: "A"},
		{ID: "s3", Name: "高橋 大輔", Home: "A"},
		{ID: "s4", Name: "小林 彩香", Home: "A"},
		{ID: "s5", Name: "井上 隼人", Home: "A"},
		{ID: "s6", Name: "山崎 麻衣", Home: "A"},
		{ID: "s7", Name: "田中 悠斗", Home: "A"},
		{ID: "s8", Name: "村上 茉優", Home: "A"},
		{ID: "s9", Name: "佐藤 健太", Home: "A"},
		{ID: "s10", Name: "伊藤 愛美", Home: "A"},
	}
}

func sampleAssignments() shift.AssignmentMap {
	rows := map[string][]shift.Code{
		"s1":  {"C", "A", "C", "C", "EL", "C", "A", "EL", "N", "EL"},
		"s2":  {"N", "EL", "B", "NONE", "NONE", "C", "A", "NONE", "C", "A"},
		"s3":  {"N", "C", "N", "C", "L", "B", "C", "L", "C", "L"},
		"s4":  {"L", "C", "B", "NONE", "NONE", "C", "B", "NONE", "L", "C"},
		"s5":  {"L", "L", "NONE", "N", "A", "C", "A", "EL", "L", "EL"},
		"s6":  {"EL", "L", "L", "NONE", "B", "EL", "L", "NONE", "L", "N"},
		"s7":  {"NONE", "L", "C", "A", "A", "B", "A", "B", "EL", "NONE"},
		"s8":  {"NONE", "B", "N", "NONE", "C", "N", "B", "NONE", "N", "A"},
		"s9":  {"A", "C", "A", "B", "N", "A", "C", "A", "B", "N"},
		"s10": {"C", "A", "L", "C", "B", "L", "N", "C", "A", "B"},
	}

	m := make(shift.AssignmentMap, len(rows))
	for staffID, codes := range rows {
		for i, code := range codes {
			if code == shift.CodeNone {
				m.Set(staffID, i+1, shift.Unassigned)
				continue
			}
			m.Set(staffID, i+1, shift.Assignment{Code: code, Home: "A"})
		}
	}
	return m
}
