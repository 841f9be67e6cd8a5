package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/config"
	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/handlers"
	"github.com/himawari-care/shiftboard/internal/live"
	"github.com/himawari-care/shiftboard/internal/middleware"
	"github.com/himawari-care/shiftboard/internal/pkg/response"
	"github.com/himawari-care/shiftboard/internal/refdata"
	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/session"
	"github.com/himawari-care/shiftboard/internal/upstream"
)

// Deps carries everything the router wires together.
type Deps struct {
	Cfg     *config.Config
	Store   *session.Store
	Storage session.Storage
	API     *upstream.Client
	State   *roster.State
	RefData *refdata.Service
	Audit   *audit.Store
	Hub     *live.Hub
	Logger  *zap.Logger
}

// Setup initializes and returns the configured router.
func Setup(d Deps) *chi.Mux {
	authHandler := handlers.NewAuthHandler(d.Store, d.Audit, d.Logger)
	rosterHandler := handlers.NewRosterHandler(d.State, d.Store, d.Hub, d.Audit, d.Logger)
	requestsHandler := handlers.NewRequestsHandler(d.State, d.Store, d.Hub, d.Audit, d.Logger)
	refDataHandler := handlers.NewRefDataHandler(d.RefData, d.Store, d.Audit, d.Logger)
	settingsHandler := handlers.NewSettingsHandler(d.Storage, d.Logger)
	membersHandler := handlers.NewMembersHandler(d.API, d.Store, d.Audit, d.Logger)
	transferHandler := handlers.NewTransferHandler(d.State, d.Store, d.Hub, d.Audit, d.Cfg.SheetsCredentialsFile, d.Logger)
	auditLogHandler := handlers.NewAuditLogHandler(d.Audit, d.Logger)
	wsHandler := handlers.NewWSHandler(d.Hub, d.Logger)

	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	// Public routes
	router.Get("/login", authHandler.LoginPage)
	router.Post("/api/auth/login", authHandler.Login)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin(d.Store))

		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/session", authHandler.Session)

		r.Get("/dashboard/my", rosterHandler.MyPage)
		r.Get("/api/roster/view", rosterHandler.View)
		r.Get("/api/roster/cell", rosterHandler.Cell)

		r.Get("/api/settings", settingsHandler.Get)
		r.Put("/api/settings", settingsHandler.Put)

		r.Get("/ws", wsHandler.Serve)

		// Admin-only
		r.Group(func(ar chi.Router) {
			ar.Use(middleware.AdminOnly(d.Store))

			ar.Get("/dashboard/roster", rosterHandler.Page)
			ar.Post("/api/roster/cell", rosterHandler.SaveCell)

			ar.Get("/api/shift-requests", requestsHandler.List)
			ar.Post("/api/shift-requests/approve", requestsHandler.Approve)
			ar.Post("/api/shift-requests/bulk-approve", requestsHandler.BulkApprove)

			ar.Get("/api/homes", refDataHandler.Homes)
			ar.Post("/api/homes", refDataHandler.AddHome)
			ar.Put("/api/homes/{id}/rename", refDataHandler.RenameHome)
			ar.Delete("/api/homes/{id}", refDataHandler.DeleteHome)

			ar.Get("/api/bikou-templates", refDataHandler.Templates)
			ar.Post("/api/bikou-templates", refDataHandler.AddTemplate)
			ar.Put("/api/bikou-templates/{id}", refDataHandler.UpdateTemplate)
			ar.Put("/api/bikou-templates/{id}/rename", refDataHandler.RenameTemplate)
			ar.Delete("/api/bikou-templates/{id}", refDataHandler.DeleteTemplate)
			ar.Post("/api/seed", refDataHandler.Seed)

			ar.Get("/api/staff", membersHandler.List)
			ar.Post("/api/staff", membersHandler.Create)
			ar.Put("/api/staff/{id}", membersHandler.Update)
			ar.Delete("/api/staff/{id}", membersHandler.Delete)

			ar.Get("/api/roster/export", transferHandler.Export)
			ar.Post("/api/roster/import", transferHandler.Import)

			ar.Get("/api/audit", auditLogHandler.Recent)
		})
	})

	return router
}
