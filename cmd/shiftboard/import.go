package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/himawari-care/shiftboard/internal/importer"
	"github.com/himawari-care/shiftboard/internal/shift"
)

func importCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "import [sheet-url]",
		Short: "Bulk-import shift assignments from a Google Sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.SheetsCredentialsFile == "" {
				return fmt.Errorf("SHEETS_CREDENTIALS_FILE is not configured")
			}
			if year == 0 {
				now := time.Now()
				year, month = now.Year(), int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be 1..12, got %d", month)
			}

			items, err := importer.FromSheet(cmd.Context(), args[0], app.Cfg.SheetsCredentialsFile, shift.DaysIn(year, month))
			if err != nil {
				return err
			}

			app.State.Load(cmd.Context(), year, month)
			count, err := app.State.BulkUpsert(cmd.Context(), year, month, items)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ インポート完了\n\n")
			fmt.Printf("読み込み行数: %d\n", len(items))
			fmt.Printf("反映件数:     %d\n", count)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Target year (defaults to current)")
	cmd.Flags().IntVar(&month, "month", 0, "Target month (defaults to current)")
	return cmd
}
