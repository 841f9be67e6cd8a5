package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/session"
)

// Settings is the small display-preferences blob kept alongside the session.
type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	AutoSave      bool   `json:"autoSave"`
}

func defaultSettings() Settings {
	return Settings{Theme: "light", Notifications: true, AutoSave: true}
}

type SettingsHandler struct {
	storage session.Storage
	logger  *zap.Logger
}

func NewSettingsHandler(storage session.Storage, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{storage: storage, logger: logger}
}

// Get returns the stored settings, or the defaults when nothing is stored.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings := defaultSettings()
	data, ok, err := h.storage.Get(r.Context(), session.KeySettings)
	if err == nil && ok {
		if err := json.Unmarshal(data, &settings); err != nil {
			h.logger.Warn("stored settings unreadable, using defaults", zap.Error(err))
			settings = defaultSettings()
		}
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
	})
}

// Put replaces the stored settings.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var settings Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if settings.Theme != "light" && settings.Theme != "dark" {
		response.RespondWithError(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}

	data, err := json.Marshal(settings)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Could not encode settings")
		return
	}
	if err := h.storage.Set(r.Context(), session.KeySettings, data, 0); err != nil {
		h.logger.Error("settings save failed", zap.Error(err))
		response.RespondWithError(w, http.StatusInternalServerError, "Could not save settings")
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
	})
}
