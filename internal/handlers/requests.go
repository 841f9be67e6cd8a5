package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/live"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/session"
	"github.com/himawari-care/shiftboard/internal/shift"
)

type RequestsHandler struct {
	state  *roster.State
	store  *session.Store
	hub    *live.Hub
	audit  *audit.Store
	logger *zap.Logger
}

func NewRequestsHandler(state *roster.State, store *session.Store, hub *live.Hub, auditStore *audit.Store, logger *zap.Logger) *RequestsHandler {
	return &RequestsHandler{state: state, store: store, hub: hub, audit: auditStore, logger: logger}
}

// List returns the month's shift requests, pending ones first.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	requests := h.state.PendingFirst()
	pending := 0
	for _, req := range requests {
		if req.Status == shift.StatusPending {
			pending++
		}
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"requests":      requests,
		"pending_count": pending,
	})
}

type approveRequest struct {
	Date   string     `json:"date"`
	Home   string     `json:"home"`
	Code   shift.Code `json:"shift_code"`
	UserID string     `json:"user_id"`
}

// Approve promotes one request to an assignment and reloads the roster.
func (h *RequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Date == "" || req.UserID == "" {
		response.RespondWithError(w, http.StatusBadRequest, "date and user_id are required")
		return
	}

	err := h.state.Approve(r.Context(), shift.Request{
		Date: req.Date, Home: req.Home, Code: req.Code, UserID: req.UserID,
	})
	if err != nil {
		h.logger.Error("approve failed", zap.String("user_id", req.UserID), zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Approval failed")
		return
	}

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "request_approve",
		fmt.Sprintf("%s/%s", req.UserID, req.Date), string(req.Code))
	h.hub.RosterUpdated()

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type bulkApproveRequest struct {
	Requests []approveRequest `json:"requests"`
}

// BulkApprove submits a batch of approvals and reports the aggregate count.
func (h *RequestsHandler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req bulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Requests) == 0 {
		response.RespondWithError(w, http.StatusBadRequest, "No requests given")
		return
	}

	batch := make([]shift.Request, 0, len(req.Requests))
	for _, item := range req.Requests {
		batch = append(batch, shift.Request{
			Date: item.Date, Home: item.Home, Code: item.Code, UserID: item.UserID,
		})
	}

	approved, err := h.state.BulkApprove(r.Context(), batch)
	if err != nil {
		h.logger.Error("bulk approve failed", zap.Int("requested", len(batch)), zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Bulk approval failed")
		return
	}

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "request_bulk_approve", "",
		fmt.Sprintf("requested=%d approved=%d", len(batch), approved))
	h.hub.RosterUpdated()

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"approved_count": approved,
		"requested":      len(batch),
	})
}
