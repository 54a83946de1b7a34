package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

func newDuplicatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "List records sharing an e-mail, CPF or phone",
		Long: `Groups records by identifying field. The earliest record of each group
is the original; later ones are duplicates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(true)
			if err != nil {
				return err
			}
			state, err := fetchState(cmd.Context(), client)
			if err != nil {
				return err
			}
			printDuplicates(cmd.OutOrStdout(), state.Submissions)
			return nil
		},
	}
}

// printDuplicates writes one section per field, one group per shared value,
// original first.
func printDuplicates(w io.Writer, records []leads.Submission) {
	idx := leads.NewDuplicateIndex(records)
	found := false

	for _, field := range leads.IdentityFields {
		seen := make(map[string]bool)
		var lines []string
		for _, rec := range records {
			value := rec.Field(field)
			if seen[value] || idx.Classify(rec, field) == leads.Unique {
				continue
			}
			seen[value] = true

			lines = append(lines, fmt.Sprintf("  %s (%d records)", color.CyanString(value), idx.Count(rec, field)))
			for _, r := range records {
				if r.Field(field) != value {
					continue
				}
				mark := color.RedString("duplicate")
				if idx.IsCanonical(r, field) {
					mark = color.GreenString("original ")
				}
				lines = append(lines, fmt.Sprintf("    %s %s  %s  %s", mark,
					r.CreatedAt.Format(leads.DateLayout), r.Name, r.ID))
			}
		}
		if len(lines) == 0 {
			continue
		}
		found = true
		fmt.Fprintf(w, "%s\n%s\n", color.New(color.Bold).Sprint(field.Label()), strings.Join(lines, "\n"))
	}

	if !found {
		fmt.Fprintln(w, "No duplicates found.")
	}
}
