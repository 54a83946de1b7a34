package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadintake/internal/dashboard"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		rate   float64
		admin  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import submissions from pasted text",
		Long: `Parses a text file in the dashboard import format and creates one
submission per entry. Use "-" to read standard input.

Entries are posted one at a time; a failed entry does not stop the rest.

Examples:
  leadctl import leads.txt
  leadctl import leads.txt --dry-run   # Only show what would be created
  pbpaste | leadctl import - --rate 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dryRun {
				candidates, err := dashboard.Parse(text)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", color.YellowString("DRY RUN MODE - nothing will be created"))
				for i, c := range candidates {
					fmt.Fprintf(out, "%3d. %s <%s> CPF %s\n", i+1, c.Name, c.Email, c.CPF)
				}
				fmt.Fprintf(out, "\n%d entr(ies) found\n", len(candidates))
				return nil
			}

			client, err := opts.client(true)
			if err != nil {
				return err
			}
			report, err := dashboard.NewImporter(client, dashboard.WithPacing(rate)).Import(cmd.Context(), text, admin)
			if err != nil {
				return err
			}
			printReport(out, report)
			if report.Failed() > 0 {
				return fmt.Errorf("%d of %d entries failed", report.Failed(), report.Total)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", 2, "maximum posts per second (0 disables pacing)")
	cmd.Flags().StringVar(&admin, "admin", "", "admin e-mail recorded with the import")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse only")
	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// printReport writes the import summary, one line per failure.
func printReport(w io.Writer, r dashboard.ImportReport) {
	fmt.Fprintf(w, "Batch %s: %d entr(ies) in %s\n", r.BatchID, r.Total, r.Duration.Round(time.Millisecond))
	if r.Succeeded > 0 {
		fmt.Fprintf(w, "%s %d imported\n", color.GreenString("✓"), r.Succeeded)
	}
	if r.Failed() > 0 {
		fmt.Fprintf(w, "%s %d failed\n", color.RedString("✗"), r.Failed())
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}
