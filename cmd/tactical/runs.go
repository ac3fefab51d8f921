package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/swdee/go-tactical/storage"
	"github.com/swdee/go-tactical/team"
)

var (
	runsDB     string
	runsDelete string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List analysis runs stored in the database",
	Long: `List every run stored by analyze --db with the formations each team
was detected in.  With --delete the run and its frames are removed.`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "tactical.db", "path to SQLite database")
	runsCmd.Flags().StringVar(&runsDelete, "delete", "", "id of a run to delete")
}

func runRuns(cmd *cobra.Command, args []string) error {

	db, err := storage.Open(runsDB)

	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	defer db.Close()

	out := cmd.OutOrStdout()

	if runsDelete != "" {
		if err := db.DeleteRun(runsDelete); err != nil {
			return err
		}

		fmt.Fprintf(out, "deleted run %s\n", runsDelete)
		return nil
	}

	runs, err := db.ListRuns()

	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored yet. Run 'tactical analyze --db' to add one.")
		return nil
	}

	table := tablewriter.NewTable(out, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("RUN", "SOURCE", "SCHEMA", "CREATED", "TEAM1", "TEAM2")

	for _, r := range runs {
		row := []any{r.ID, r.Source, r.Schema, r.CreatedAt.Format("2006-01-02 15:04:05")}

		for _, t := range team.All {
			counts, err := db.FormationCounts(r.ID, t)

			if err != nil {
				return err
			}

			row = append(row, topFormations(counts, 2))
		}

		table.Append(row...)
	}

	table.Render()

	return nil
}

// topFormations formats the n most frequent formations as "label(count)"
func topFormations(counts map[string]int, n int) string {

	labels := make([]string, 0, len(counts))

	for l := range counts {
		labels = append(labels, l)
	}

	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	if len(labels) > n {
		labels = labels[:n]
	}

	parts := make([]string, len(labels))

	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s(%d)", l, counts[l])
	}

	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, " ")
}
