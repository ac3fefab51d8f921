package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/swdee/go-tactical/report"
	"github.com/swdee/go-tactical/team"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <match_stats.json>",
	Short: "Check a match statistics file has the current structure",
	Long: `Check the file contains total_frames, duration_seconds, formations,
metrics and timeline, and that every timeline column has one value per
frame.  Files failing the check must be regenerated with analyze.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {

	v, err := report.Verify(args[0])

	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	table := tablewriter.NewTable(out, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("KEY", "STATUS")

	for _, k := range v.Keys {
		status := "ok"
		if !k.Present {
			status = "MISSING"
		}
		table.Append(k.Key, status)
	}

	table.Render()

	for _, t := range team.All {
		fmt.Fprintf(out, "%s timeline frames: %s\n", t, strconv.Itoa(v.TimelineFrames.Get(t)))
	}

	for _, p := range v.Problems {
		fmt.Fprintf(out, "problem: %s\n", p)
	}

	if !v.OK() {
		return fmt.Errorf("%s: %w, regenerate it with analyze", v.Path, report.ErrLegacyStatsFormat)
	}

	fmt.Fprintln(out, "stats file is complete")

	return nil
}

// isLegacy reports whether err is a stats structure error
func isLegacy(err error) bool {
	return errors.Is(err, report.ErrLegacyStatsFormat)
}
