package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/session"
	"github.com/himawari-care/shiftboard/internal/shift"
	"github.com/himawari-care/shiftboard/internal/upstream"
)

// MembersHandler proxies staff management to the upstream, which owns the
// staff list.
type MembersHandler struct {
	api    *upstream.Client
	store  *session.Store
	audit  *audit.Store
	logger *zap.Logger
}

func NewMembersHandler(api *upstream.Client, store *session.Store, auditStore *audit.Store, logger *zap.Logger) *MembersHandler {
	return &MembersHandler{api: api, store: store, audit: auditStore, logger: logger}
}

func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	var resp struct {
		Success bool                `json:"success"`
		Staff   []shift.StaffMember `json:"staff"`
	}
	if err := h.api.Get(r.Context(), "/api/staff", nil, &resp); err != nil {
		h.logger.Error("staff list failed", zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Could not load staff")
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"staff":   resp.Staff,
	})
}

type memberRequest struct {
	Name string `json:"name"`
	Home string `json:"home"`
}

func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		response.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	var resp struct {
		Success bool   `json:"success"`
		StaffID string `json:"staff_id"`
		Error   string `json:"error"`
	}
	if err := h.api.Post(r.Context(), "/api/staff", req, &resp); err != nil {
		h.logger.Error("staff create failed", zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Could not create staff member")
		return
	}
	if !resp.Success {
		response.RespondWithError(w, http.StatusBadRequest, resp.Error)
		return
	}

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "staff_create", resp.StaffID, req.Name)
	response.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"staff_id": resp.StaffID,
	})
}

func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := h.api.Put(r.Context(), "/api/staff/"+id, req, &resp); err != nil {
		h.logger.Error("staff update failed", zap.String("staff_id", id), zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Could not update staff member")
		return
	}
	if !resp.Success {
		response.RespondWithError(w, http.StatusBadRequest, resp.Error)
		return
	}

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "staff_update", id, req.Name)
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := h.api.Delete(r.Context(), "/api/staff/"+id, &resp); err != nil {
		h.logger.Error("staff delete failed", zap.String("staff_id", id), zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Could not delete staff member")
		return
	}
	if !resp.Success {
		response.RespondWithError(w, http.StatusBadRequest, resp.Error)
		return
	}

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "staff_delete", id, "")
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
