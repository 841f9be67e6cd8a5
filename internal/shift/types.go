package shift

// StaffMember is one row of the roster, cached client-side for the active view.
type StaffMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Home string `json:"home"`
}

// Assignment is one cell of the grid, keyed externally by (staffID, day).
type Assignment struct {
	Code Code   `json:"code"`
	Home string `json:"home"`
}

// Unassigned is the value of every cell that has no explicit assignment.
var Unassigned = Assignment{Code: CodeNone, Home: ""}

// Request statuses as the upstream encodes them.
const (
	StatusPending  = 0
	StatusApproved = 1
)

// Request is a staff member's desired assignment awaiting admin review,
// flattened from the upstream's nested date→home→code→users structure.
type Request struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Home     string `json:"home"`
	Code     Code   `json:"shift_code"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Status   int    `json:"status"`
}

// AssignmentMap indexes assignments by staff ID then day of month.
type AssignmentMap map[string]map[int]Assignment

// At reads a cell; missing cells read as Unassigned.
func (m AssignmentMap) At(staffID string, day int) Assignment {
	if days, ok := m[staffID]; ok {
		if a, ok := days[day]; ok {
			return a
		}
	}
	return Unassigned
}

// Set writes a cell, allocating the staff row if needed.
func (m AssignmentMap) Set(staffID string, day int, a Assignment) {
	if m[staffID] == nil {
		m[staffID] = make(map[int]Assignment)
	}
	m[staffID][day] = a
}

// Clone deep-copies the map so renders work on a stable snapshot.
func (m AssignmentMap) Clone() AssignmentMap {
	out := make(AssignmentMap, len(m))
	for staffID, days := range m {
		row := make(map[int]Assignment, len(days))
		for day, a := range days {
			row[day] = a
		}
		out[staffID] = row
	}
	return out
}
