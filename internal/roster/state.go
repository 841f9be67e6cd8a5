// Package roster holds the in-memory working copy of one month's shift
// assignments and requests. The upstream API remains the source of truth; the
// copy is discarded and rebuilt on every load.
package roster

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/shift"
)

// Source tells a reader whether a snapshot came from the upstream or from the
// built-in fallback dataset.
type Source string

const (
	SourceLive   Source = "live"
	SourceSample Source = "sample"
)

// Gateway is the slice of the upstream client the roster needs.
type Gateway interface {
	Get(ctx context.Context, endpoint string, params url.Values, out interface{}) error
	Post(ctx context.Context, endpoint string, body, out interface{}) error
}

// Snapshot is an immutable copy of the roster for rendering.
type Snapshot struct {
	Year, Month, Days int
	Source            Source
	Staff             []shift.StaffMember
	Assignments       shift.AssignmentMap
	Requests          []shift.Request
}

type cellKey struct {
	StaffID string
	Day     int
}

// State is the mutable roster. Reads and writes go through the state mutex;
// remote saves additionally serialize per cell so rapid edits of one cell
// cannot overtake each other.
type State struct {
	api    Gateway
	logger *zap.Logger

	mu          sync.Mutex
	year, month int
	days        int
	source      Source
	staff       []shift.StaffMember
	assignments shift.AssignmentMap
	requests    []shift.Request

	pendingMu sync.Mutex
	pending   map[cellKey]*sync.Mutex
}

func NewState(api Gateway, logger *zap.Logger) *State {
	return &State{
		api:         api,
		logger:      logger,
		assignments: make(shift.AssignmentMap),
		pending:     make(map[cellKey]*sync.Mutex),
	}
}

type staffResponse struct {
	Success bool                `json:"success"`
	Staff   []shift.StaffMember `json:"staff"`
}

type shiftsResponse struct {
	Success bool `json:"success"`
	Shifts  []struct {
		StaffID string     `json:"staff_id"`
		Day     int        `json:"day"`
		Code    shift.Code `json:"shift_code"`
		Home    string     `json:"home"`
	} `json:"shifts"`
}

type requestsResponse struct {
	Success bool `json:"success"`
	// date -> home -> code -> users
	Requests map[string]map[string]map[string][]struct {
		UserID   string `json:"user_id"`
		UserName string `json:"user_name"`
		Status   int    `json:"status"`
	} `json:"requests"`
}

// Load rebuilds the working copy for the given month. Load never returns an
// error: any failure falls back to the sample dataset and is logged.
func (s *State) Load(ctx context.Context, year, month int) {
	days := shift.DaysIn(year, month)

	staff, err := s.fetchStaff(ctx)
	if err != nil || len(staff) == 0 {
		if err != nil {
			s.logger.Error("❌ staff load failed, falling back to sample data", zap.Error(err))
		} else {
			s.logger.Warn("staff list empty, falling back to sample data")
		}
		s.install(year, month, days, SourceSample, sampleStaff(), sampleAssignments(), nil)
		return
	}

	assignments, err := s.fetchShifts(ctx, year, month)
	if err != nil {
		s.logger.Error("❌ shift load failed, falling back to sample data", zap.Error(err))
		s.install(year, month, days, SourceSample, sampleStaff(), sampleAssignments(), nil)
		return
	}

	requests, err := s.fetchRequests(ctx, year, month)
	if err != nil {
		// Requests are secondary; the grid still renders without them.
		s.logger.Warn("shift request load failed", zap.Error(err))
		requests = nil
	}
	mergeApproved(assignments, requests)

	s.install(year, month, days, SourceLive, staff, assignments, requests)
	s.logger.Info("roster loaded",
		zap.Int("year", year), zap.Int("month", month),
		zap.Int("staff", len(staff)), zap.Int("requests", len(requests)))
}

func (s *State) fetchStaff(ctx context.Context) ([]shift.StaffMember, error) {
	var resp staffResponse
	if err := s.api.Get(ctx, "/api/staff", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("staff fetch unsuccessful")
	}
	return resp.Staff, nil
}

func (s *State) fetchShifts(ctx context.Context, year, month int) (shift.AssignmentMap, error) {
	params := monthParams(year, month)
	var resp shiftsResponse
	if err := s.api.Get(ctx, "/api/shifts", params, &resp); err != nil {
		return nil, err
	}
	m := make(shift.AssignmentMap)
	for _, row := range resp.Shifts {
		m.Set(row.StaffID, row.Day, shift.Assignment{Code: row.Code, Home: row.Home})
	}
	return m, nil
}

func (s *State) fetchRequests(ctx context.Context, year, month int) ([]shift.Request, error) {
	params := monthParams(year, month)
	var resp requestsResponse
	if err := s.api.Get(ctx, "/api/shift-requests/get", params, &resp); err != nil {
		return nil, err
	}
	return flattenRequests(resp), nil
}

// flattenRequests turns the nested date→home→code→users structure into a flat
// list.
func flattenRequests(resp requestsResponse) []shift.Request {
	var out []shift.Request
	for date, homes := range resp.Requests {
		for home, codes := range homes {
			for code, users := range codes {
				for _, u := range users {
					out = append(out, shift.Request{
						Date:     date,
						Home:     home,
						Code:     shift.Code(code),
						UserID:   u.UserID,
						UserName: u.UserName,
						Status:   u.Status,
					})
				}
			}
		}
	}
	return out
}

// mergeApproved writes every approved request into the assignment map.
// Approved requests win over direct assignments for the same cell: approval
// is the later administrative act.
func mergeApproved(m shift.AssignmentMap, requests []shift.Request) {
	for _, req := range requests {
		if req.Status != shift.StatusApproved {
			continue
		}
		day, err := DayOf(req.Date)
		if err != nil {
			continue
		}
		m.Set(req.UserID, day, shift.Assignment{Code: req.Code, Home: req.Home})
	}
}

// DayOf extracts the day of month from a YYYY-MM-DD request date.
func DayOf(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("bad request date %q: %w", date, err)
	}
	return t.Day(), nil
}

func (s *State) install(year, month, days int, source Source, staff []shift.StaffMember, m shift.AssignmentMap, requests []shift.Request) {
	s.mu.Lock()
	s.year, s.month, s.days = year, month, days
	s.source = source
	s.staff = staff
	s.assignments = m
	s.requests = requests
	s.mu.Unlock()

	// Cell locks are scoped to the loaded roster; a rebuild starts fresh so
	// the map does not accumulate an entry per cell ever edited.
	s.pendingMu.Lock()
	s.pending = make(map[cellKey]*sync.Mutex)
	s.pendingMu.Unlock()
}

// Snapshot copies the current state for rendering.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	staff := make([]shift.StaffMember, len(s.staff))
	copy(staff, s.staff)
	requests := make([]shift.Request, len(s.requests))
	copy(requests, s.requests)
	return Snapshot{
		Year: s.year, Month: s.month, Days: s.days,
		Source:      s.source,
		Staff:       staff,
		Assignments: s.assignments.Clone(),
		Requests:    requests,
	}
}

// Assignment reads one cell; missing cells read as unassigned.
func (s *State) Assignment(staffID string, day int) shift.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.At(staffID, day)
}

// StaffHome returns the home of a staff member, for the edit modal default.
func (s *State) StaffHome(staffID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, member := range s.staff {
		if member.ID == staffID {
			return member.Home
		}
	}
	return ""
}

// SaveCell applies an edit locally, then persists it best-effort.
//
// The local write is never rolled back on remote failure (local-first
// policy); persisted reports whether the upstream accepted the write so the
// caller can surface a non-blocking notice. Saves for one cell run strictly
// in sequence.
func (s *State) SaveCell(ctx context.Context, staffID string, day int, code shift.Code, home string) (persisted bool) {
	lock := s.cellLock(cellKey{StaffID: staffID, Day: day})
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	year, month := s.year, s.month
	s.assignments.Set(staffID, day, shift.Assignment{Code: code, Home: home})
	s.mu.Unlock()

	var resp struct {
		Success bool `json:"success"`
	}
	err := s.api.Post(ctx, "/api/shifts", map[string]interface{}{
		"year":       year,
		"month":      month,
		"staff_id":   staffID,
		"day":        day,
		"shift_code": code,
		"home":       home,
	}, &resp)
	if err != nil {
		s.logger.Warn("shift save not persisted, keeping local change",
			zap.String("staff_id", staffID), zap.Int("day", day), zap.Error(err))
		return false
	}
	return resp.Success
}

func (s *State) cellLock(key cellKey) *sync.Mutex {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if lock, ok := s.pending[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.pending[key] = lock
	return lock
}

// PendingFirst returns the month's requests sorted for review: pending before
// approved, then by date and user for a stable listing.
func (s *State) PendingFirst() []shift.Request {
	snap := s.Snapshot()
	sort.SliceStable(snap.Requests, func(i, j int) bool {
		a, b := snap.Requests[i], snap.Requests[j]
		if a.Status != b.Status {
			return a.Status == shift.StatusPending
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.UserID < b.UserID
	})
	return snap.Requests
}

// Approve promotes a single request, then reloads from the backend so the
// local copy matches the server (never merged optimistically).
func (s *State) Approve(ctx context.Context, req shift.Request) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	err := s.api.Post(ctx, "/api/shift-requests/approve", map[string]interface{}{
		"date":       req.Date,
		"home":       req.Home,
		"shift_code": req.Code,
		"user_id":    req.UserID,
	}, &resp)
	if err != nil {
		return fmt.Errorf("approve request: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("approve rejected: %s", resp.Error)
	}
	s.reload(ctx)
	return nil
}

// BulkApprove submits all given requests in one batch and reports how many
// the upstream approved. Partial failure is an aggregate count, no rollback.
func (s *State) BulkApprove(ctx context.Context, reqs []shift.Request) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}
	items := make([]map[string]interface{}, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, map[string]interface{}{
			"date":       req.Date,
			"home":       req.Home,
			"shift_code": req.Code,
			"user_id":    req.UserID,
		})
	}
	var resp struct {
		Success       bool `json:"success"`
		ApprovedCount int  `json:"approved_count"`
	}
	err := s.api.Post(ctx, "/api/shift-requests/bulk-approve", map[string]interface{}{
		"requests": items,
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("bulk approve: %w", err)
	}
	s.reload(ctx)
	return resp.ApprovedCount, nil
}

// BulkUpsert pushes many assignments at once (sheet import path).
func (s *State) BulkUpsert(ctx context.Context, year, month int, items []BulkItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	payload := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		payload = append(payload, map[string]interface{}{
			"year":       year,
			"month":      month,
			"staff_id":   item.StaffID,
			"day":        item.Day,
			"shift_code": item.Code,
			"home":       item.Home,
		})
	}
	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := s.api.Post(ctx, "/api/shifts/bulk", map[string]interface{}{"shifts": payload}, &resp); err != nil {
		return 0, fmt.Errorf("bulk upsert: %w", err)
	}
	s.reload(ctx)
	return resp.Count, nil
}

// BulkItem is one row of a bulk shift upload.
type BulkItem struct {
	StaffID string
	Day     int
	Code    shift.Code
	Home    string
}

func (s *State) reload(ctx context.Context) {
	s.mu.Lock()
	year, month := s.year, s.month
	s.mu.Unlock()
	if year == 0 {
		return
	}
	s.Load(ctx, year, month)
}

func monthParams(year, month int) url.Values {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("month", strconv.Itoa(month))
	return params
}
