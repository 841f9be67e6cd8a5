package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/refdata"
	"github.com/himawari-care/shiftboard/internal/session"
)

type RefDataHandler struct {
	service *refdata.Service
	store   *session.Store
	audit   *audit.Store
	logger  *zap.Logger
}

func NewRefDataHandler(service *refdata.Service, store *session.Store, auditStore *audit.Store, logger *zap.Logger) *RefDataHandler {
	return &RefDataHandler{service: service, store: store, audit: auditStore, logger: logger}
}

func (h *RefDataHandler) actor() string {
	user, _ := h.store.User()
	return user.ID
}

// ---- Homes ----

// Homes lists homes; ?force=true bypasses the cache.
func (h *RefDataHandler) Homes(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	homes, err := h.service.Homes(r.Context(), force)
	if err != nil {
		h.logger.Error("homes fetch failed", zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Could not load homes")
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"homes":   homes,
	})
}

func (h *RefDataHandler) AddHome(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.AddHome(r.Context(), req.Name); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit.Record(r.Context(), h.actor(), "home_add", req.Name, "")
	response.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"success": true})
}

func (h *RefDataHandler) DeleteHome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteHome(r.Context(), id); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit.Record(r.Context(), h.actor(), "home_delete", id, "")
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *RefDataHandler) RenameHome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.RenameHome(r.Context(), id, req.Name); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit.Record(r.Context(), h.actor(), "home_rename", id, req.Name)
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ---- Note templates ----

// Templates lists note templates; ?force=true bypasses the cache.
func (h *RefDataHandler) Templates(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	templates, err := h.service.Templates(r.Context(), force)
	if err != nil {
		h.logger.Error("templates fetch failed", zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Could not load templates")
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"templates": templates,
	})
}

func (h *RefDataHandler) AddTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.AddTemplate(r.Context(), req.ID, req.Text); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit.Record(r.Context(), h.actor(), "template_add", req.ID, "")
	response.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"success": true})
}

func (h *RefDataHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.UpdateTemplate(r.Context(), id, req.Text); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit.Record(r.Context(), h.actor(), "template_update", id, "")
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *RefDataHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteTemplate(r.Context(), id); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit.Record(r.Context(), h.actor(), "template_delete", id, "")
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *RefDataHandler) RenameTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		NewID string `json:"new_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.RenameTemplate(r.Context(), id, req.NewID); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit.Record(r.Context(), h.actor(), "template_rename", id, req.NewID)
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Seed creates the default homes and templates if missing.
func (h *RefDataHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EnsureInitialData(r.Context()); err != nil {
		h.logger.Error("seed failed", zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Seeding failed")
		return
	}
	h.audit.Record(r.Context(), h.actor(), "refdata_seed", "", "")
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
