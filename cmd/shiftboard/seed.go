package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default homes and note templates if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.RefData.EnsureInitialData(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("✅ 初期データを確認しました")
			return nil
		},
	}
}
