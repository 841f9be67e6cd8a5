package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/himawari-care/shiftboard/internal/export"
	"github.com/himawari-care/shiftboard/internal/grid"
)

func exportCmd() *cobra.Command {
	var year, month int
	var home, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a month's roster to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				now := time.Now()
				year, month = now.Year(), int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be 1..12, got %d", month)
			}
			if out == "" {
				out = fmt.Sprintf("shift_%d_%02d.xlsx", year, month)
			}

			app.State.Load(cmd.Context(), year, month)
			snap := app.State.Snapshot()
			view := grid.Build(snap, home)

			summary, err := export.WriteWorkbook(view, out)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ エクスポート完了\n\n")
			fmt.Printf("ファイル: %s\n", out)
			fmt.Printf("行数:     %d\n", summary.Rows)
			if summary.Failed > 0 {
				fmt.Printf("⚠️ 書き込み失敗: %d行\n", summary.Failed)
			}
			if snap.Source == "sample" {
				fmt.Println("⚠️ サンプルデータから出力しました")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Target year (defaults to current)")
	cmd.Flags().IntVar(&month, "month", 0, "Target month (defaults to current)")
	cmd.Flags().StringVar(&home, "home", "", "Limit to one home")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file path")
	return cmd
}
