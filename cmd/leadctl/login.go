package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadintake/internal/api"
)

func newLoginCmd(opts *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange admin credentials for an API token",
		Long: `Logs in and prints the token. Export it for later commands:

  export LEADCTL_TOKEN=$(leadctl login --email ops@example.com --quiet)

The password defaults to LEADCTL_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or LEADCTL_PASSWORD) are required")
			}
			client, err := opts.client(false)
			if err != nil {
				return err
			}

			res, err := client.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			out := cmd.OutOrStdout()
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				fmt.Fprintln(out, res.Token)
				return nil
			}
			fmt.Fprintf(out, "%s logged in as %s\n", color.GreenString("✓"), res.Admin.Email)
			fmt.Fprintf(out, "export LEADCTL_TOKEN=%s\n", res.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin e-mail")
	cmd.Flags().StringVar(&password, "password", os.Getenv("LEADCTL_PASSWORD"), "admin password")
	cmd.Flags().BoolP("quiet", "q", false, "print only the token")
	return cmd
}
