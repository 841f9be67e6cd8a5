package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)
			if username == "" {
				fmt.Print("ユーザー名: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("パスワード: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			user, err := app.Store.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ ログインしました\n\n")
			fmt.Printf("名前:   %s\n", user.Name)
			fmt.Printf("ロール: %s\n", user.Role)
			if expiry := app.Store.TokenExpiry(); !expiry.IsZero() {
				fmt.Printf("有効期限: %s\n", expiry.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Login username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Login password")
	return cmd
}
