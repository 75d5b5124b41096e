package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maheshrc27/threads-gateway/internal/service"
)

func newAuthorizeURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the Threads consent URL with a signed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			consentURL, err := service.NewAuthService(*cfg, nil).LoginURL()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), consentURL)
			return nil
		},
	}
}
