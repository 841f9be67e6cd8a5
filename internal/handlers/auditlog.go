package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
)

type AuditLogHandler struct {
	audit  *audit.Store
	logger *zap.Logger
}

func NewAuditLogHandler(auditStore *audit.Store, logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{audit: auditStore, logger: logger}
}

// Recent lists the latest audit events, newest first. Empty when no audit
// database is configured.
func (h *AuditLogHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("audit query failed", zap.Error(err))
		response.RespondWithError(w, http.StatusInternalServerError, "Could not load audit log")
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"events":  events,
	})
}
