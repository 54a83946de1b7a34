package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
)

// fetchState loads records, affiliates and tags in parallel.
func fetchState(ctx context.Context, c *api.Client) (dashboard.State, error) {
	var s dashboard.State
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Submissions, err = c.ListSubmissions(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.Affiliates, err = c.ListAffiliates(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.Tags, err = c.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.State{}, err
	}
	s.Loaded = true
	return s, nil
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		format   string
		output   string
		timezone string
		filter   leads.Filter
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export submissions as CSV or JSON",
		Long: `Downloads every submission, applies the filters and writes the result.
When the filters match nothing, every record is exported, as the dashboard
does.

Examples:
  leadctl export --format csv -o leads.csv
  leadctl export --format json --status pendente --date 2025-10-09`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := leads.ParseFormat(format)
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("timezone %q: %w", timezone, err)
			}
			filter.Location = loc

			client, err := opts.client(true)
			if err != nil {
				return err
			}
			state, err := fetchState(cmd.Context(), client)
			if err != nil {
				return err
			}

			set := leads.ExportSet(leads.Apply(state.Submissions, filter, nil), state.Submissions)
			exporter := leads.Exporter{Directory: state.Directory(), Location: loc}

			var w io.Writer = cmd.OutOrStdout()
			if output == "" {
				output = exporter.Filename(f, time.Now())
			}
			if output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if err := exporter.Write(w, f, set); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d record(s) written to %s\n", color.GreenString("✓"), len(set), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("-" for stdout; default: generated name)`)
	cmd.Flags().StringVar(&timezone, "timezone", "America/Sao_Paulo", "zone for dates in the export and --date")
	cmd.Flags().StringVar(&filter.Query, "search", "", "match name, e-mail, CPF or phone")
	cmd.Flags().StringVar(&filter.Date, "date", "", "creation day, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.Status, "status", "", "pendente, concluido or jaCadastrado")
	cmd.Flags().StringVar(&filter.Tag, "fintech", "", `tag id, or "`+leads.FilterNoTag+`"`)
	cmd.Flags().BoolVar(&filter.DuplicatesOnly, "duplicates", false, "only records sharing an e-mail, CPF or phone")
	return cmd
}
