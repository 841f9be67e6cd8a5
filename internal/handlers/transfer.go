package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/export"
	"github.com/himawari-care/shiftboard/internal/grid"
	"github.com/himawari-care/shiftboard/internal/importer"
	"github.com/himawari-care/shiftboard/internal/live"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/session"
	"github.com/himawari-care/shiftboard/internal/shift"
)

// TransferHandler covers moving roster data in and out: Excel download and
// Google Sheets bulk import.
type TransferHandler struct {
	state           *roster.State
	store           *session.Store
	hub             *live.Hub
	audit           *audit.Store
	logger          *zap.Logger
	credentialsFile string
}

func NewTransferHandler(state *roster.State, store *session.Store, hub *live.Hub, auditStore *audit.Store, credentialsFile string, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{
		state:           state,
		store:           store,
		hub:             hub,
		audit:           auditStore,
		logger:          logger,
		credentialsFile: credentialsFile,
	}
}

// Export writes the current month's grid to a workbook and streams it back.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	if snap.Year == 0 {
		response.RespondWithError(w, http.StatusConflict, "No roster loaded")
		return
	}
	view := grid.Build(snap, r.URL.Query().Get("home"))

	path := filepath.Join(os.TempDir(), fmt.Sprintf("shift_%d_%02d.xlsx", snap.Year, snap.Month))
	summary, err := export.WriteWorkbook(view, path)
	if err != nil {
		h.logger.Error("export failed", zap.Error(err))
		response.RespondWithError(w, http.StatusInternalServerError, "Export failed")
		return
	}
	defer os.Remove(path)

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "roster_export",
		fmt.Sprintf("%d-%02d", snap.Year, snap.Month),
		fmt.Sprintf("rows=%d failed=%d", summary.Rows, summary.Failed))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="shift_%d_%02d.xlsx"`, snap.Year, snap.Month))
	http.ServeFile(w, r, path)
}

type importRequest struct {
	SheetURL string `json:"sheet_url"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
}

// Import pulls assignments from a Google Sheet and bulk-upserts them.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h.credentialsFile == "" {
		response.RespondWithError(w, http.StatusConflict, "Sheets credentials are not configured")
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SheetURL == "" {
		response.RespondWithError(w, http.StatusBadRequest, "sheet_url is required")
		return
	}
	snap := h.state.Snapshot()
	if req.Year == 0 {
		req.Year, req.Month = snap.Year, snap.Month
	}
	if req.Year == 0 || req.Month < 1 || req.Month > 12 {
		response.RespondWithError(w, http.StatusBadRequest, "year and month are required")
		return
	}

	items, err := importer.FromSheet(r.Context(), req.SheetURL, h.credentialsFile, shift.DaysIn(req.Year, req.Month))
	if err != nil {
		h.logger.Error("sheet import failed", zap.String("sheet_url", req.SheetURL), zap.Error(err))
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.state.BulkUpsert(r.Context(), req.Year, req.Month, items)
	if err != nil {
		h.logger.Error("bulk upsert failed", zap.Int("rows", len(items)), zap.Error(err))
		response.RespondWithError(w, http.StatusBadGateway, "Import upload failed")
		return
	}

	user, _ := h.store.User()
	h.audit.Record(r.Context(), user.ID, "roster_import",
		fmt.Sprintf("%d-%02d", req.Year, req.Month),
		fmt.Sprintf("rows=%d applied=%d", len(items), count))
	h.hub.RosterUpdated()

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"rows":    len(items),
		"applied": count,
	})
}
