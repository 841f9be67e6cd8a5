package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/routes"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			router := routes.Setup(routes.Deps{
				Cfg:     app.Cfg,
				Store:   app.Store,
				Storage: app.Storage,
				API:     app.API,
				State:   app.State,
				RefData: app.RefData,
				Audit:   app.Audit,
				Hub:     app.Hub,
				Logger:  app.Logger,
			})

			addr := ":" + app.Cfg.ServerPort
			app.Logger.Info("🚀 Server starting",
				zap.String("addr", addr),
				zap.String("env", app.Cfg.Env),
				zap.String("upstream", app.Cfg.APIBaseURL()))

			if err := http.ListenAndServe(addr, router); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}
}
