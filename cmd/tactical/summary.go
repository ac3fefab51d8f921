package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/swdee/go-tactical/report"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary <match_stats.json>",
	Short: "Show the match statistics without the timeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the summary as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {

	stats, err := report.Load(args[0])

	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	if !summaryJSON {
		report.PrintSummary(cmd.OutOrStdout(), stats)
		return nil
	}

	data, err := json.MarshalIndent(stats.Summary(), "", "  ")

	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}
