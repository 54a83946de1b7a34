// Command leadctl runs dashboard operations against the lead API from a
// terminal: bulk imports, exports and duplicate reports.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
	_ "time/tzdata" // --timezone must resolve without system zoneinfo

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadintake/internal/api"
)

// options are the global flags shared by every subcommand.
type options struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "leadctl",
		Short: "Manage lead submissions from the command line",
		Long: `leadctl talks to the lead API directly.

The API root and token default to LEADCTL_API_URL (or API_URL) and
LEADCTL_TOKEN. Obtain a token with "leadctl login".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("LEADCTL_API_URL", os.Getenv("API_URL")), "API root URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LEADCTL_TOKEN"), "admin bearer token")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request timeout")

	root.AddCommand(
		newLoginCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newDuplicatesCmd(opts),
	)
	return root
}

// client builds an API client. authed requires a token.
func (o *options) client(authed bool) (*api.Client, error) {
	if o.apiURL == "" {
		return nil, errors.New("API URL not set: use --api or LEADCTL_API_URL")
	}
	if authed && o.token == "" {
		return nil, errors.New("not logged in: use --token or LEADCTL_TOKEN (see leadctl login)")
	}
	c, err := api.New(o.apiURL, &http.Client{Timeout: o.timeout})
	if err != nil {
		return nil, err
	}
	return c.WithToken(o.token), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Token rejected; run leadctl login again.")
		}
		os.Exit(1)
	}
}
