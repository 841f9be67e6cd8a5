package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftboard",
		Short: "Care-home shift scheduling dashboard",
		Long:  "Serves the monthly shift roster, reviews shift requests and manages homes and note templates against the shift management API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = buildApp()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
			}
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		loginCmd(),
		exportCmd(),
		importCmd(),
		seedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
