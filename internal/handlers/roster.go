package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/grid"
	"github.com/himawari-care/shiftboard/internal/live"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/session"
	"github.com/himawari-care/shiftboard/internal/shift"
)

type RosterHandler struct {
	state  *roster.State
	store  *session.Store
	hub    *live.Hub
	audit  *audit.Store
	logger *zap.Logger
}

func NewRosterHandler(state *roster.State, store *session.Store, hub *live.Hub, auditStore *audit.Store, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{state: state, store: store, hub: hub, audit: auditStore, logger: logger}
}

// monthOf reads year/month query params, defaulting to the current month.
func monthOf(r *http.Request) (int, int) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && v > 0 {
		year = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && v >= 1 && v <= 12 {
		month = v
	}
	return year, month
}

func (h *RosterHandler) buildView(r *http.Request) grid.View {
	year, month := monthOf(r)
	snap := h.state.Snapshot()
	if snap.Year != year || snap.Month != month || snap.Source == roster.SourceSample {
		// Sample data is a fallback, never a steady state: keep retrying the
		// upstream on every view until a live load succeeds. The load is
		// detached from the request context so a disconnecting viewer cannot
		// abort the shared snapshot mid-rebuild.
		h.state.Load(context.WithoutCancel(r.Context()), year, month)
		snap = h.state.Snapshot()
	}
	return grid.Build(snap, r.URL.Query().Get("home"))
}

// Page renders the monthly roster grid.
func (h *RosterHandler) Page(w http.ResponseWriter, r *http.Request) {
	view := h.buildView(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := grid.RenderHTML(w, view); err != nil {
		h.logger.Error("roster page render failed", zap.Error(err))
	}
}

// MyPage renders the grid trimmed to the signed-in user's own row.
func (h *RosterHandler) MyPage(w http.ResponseWriter, r *http.Request) {
	view := h.buildView(r)
	if user, ok := h.store.User(); ok {
		var own []grid.Row
		for _, row := range view.Rows {
			if row.StaffID == user.ID {
				own = append(own, row)
			}
		}
		view.Rows = own
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := grid.RenderHTML(w, view); err != nil {
		h.logger.Error("my page render failed", zap.Error(err))
	}
}

// View returns the derived grid as JSON for the client shell.
func (h *RosterHandler) View(w http.ResponseWriter, r *http.Request) {
	response.RespondWithJSON(w, http.StatusOK, h.buildView(r))
}

// Cell returns one cell's current assignment plus the choices the edit
// modal needs.
func (h *RosterHandler) Cell(w http.ResponseWriter, r *http.Request) {
	staffID := r.URL.Query().Get("staff_id")
	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if staffID == "" || err != nil || day < 1 {
		response.RespondWithError(w, http.StatusBadRequest, "staff_id and day are required")
		return
	}

	a := h.state.Assignment(staffID, day)
	home := a.Home
	if home == "" {
		home = h.state.StaffHome(staffID)
	}

	codes := make([]map[string]string, 0, len(shift.Codes))
	for _, code := range shift.Codes {
		info := code.Info()
		codes = append(codes, map[string]string{
			"code": string(code),
			"name": info.Name,
			"time": info.Time,
		})
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"staff_id": staffID,
		"day":      day,
		"code":     a.Code,
		"home":     home,
		"codes":    codes,
	})
}

type saveCellRequest struct {
	StaffID string     `json:"staff_id"`
	Day     int        `json:"day"`
	Code    shift.Code `json:"shift_code"`
	Home    string     `json:"home"`
}

// SaveCell applies one cell edit. The local grid updates immediately; when
// the upstream write fails the response carries persisted=false so the
// client can show a non-blocking notice.
func (h *RosterHandler) SaveCell(w http.ResponseWriter, r *http.Request) {
	var req saveCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.StaffID == "" || req.Day < 1 {
		response.RespondWithError(w, http.StatusBadRequest, "staff_id and day are required")
		return
	}
	if !req.Code.Valid() {
		response.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unknown shift code: %s", req.Code))
		return
	}

	persisted := h.state.SaveCell(r.Context(), req.StaffID, req.Day, req.Code, req.Home)

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "shift_edit",
		fmt.Sprintf("%s/day%d", req.StaffID, req.Day),
		fmt.Sprintf("code=%s home=%s persisted=%t", req.Code, req.Home, persisted))
	h.hub.RosterUpdated()

	payload := map[string]interface{}{
		"success":   true,
		"persisted": persisted,
	}
	if !persisted {
		payload["notice"] = "保存に失敗しました。変更は画面上のみ反映されています。"
	}
	response.RespondWithJSON(w, http.StatusOK, payload)
}
