package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/markup"
	"github.com/KirkDiggler/xwing-api/internal/orchestrators/cardlookup"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [query...]",
	Short: "Look up cards locally",
	Long: `Load the data set and print matching cards to the terminal.

Slot filters use braces in the terminal: {Title} <= 6. Several lookups can
be joined with ]] [[ as in chat.`,
	Example: `  xwing-api lookup --dataset-path cards.json fcs
  xwing-api lookup --dataset-path cards.json "{Crew} krennic"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	addDatasetFlags(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, datasetFlags)
	if err != nil {
		return err
	}

	svc, cleanup, err := newLookupService(cfg, markup.NewTerminalPrinter(), appLogger)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	output, err := svc.Lookup(cmd.Context(), &cardlookup.LookupInput{Query: strings.Join(args, " ")})
	if err != nil {
		if errors.IsInvalidArgument(err) {
			fmt.Fprintln(out, errors.GetMessage(err))
			return nil
		}
		return err
	}

	if len(output.Lines) == 0 {
		fmt.Fprintln(out, "No cards found.")
		return nil
	}
	for _, line := range output.Lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
