package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/swdee/go-tactical/formation"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/team"
)

// PrintSummary writes a human readable digest of the report: a header
// line, the formation table and the per team metric statistics
func PrintSummary(w io.Writer, s MatchStats) {

	fmt.Fprintf(w, "\nFrames: %d  |  Duration: %.1fs\n\n", s.TotalFrames, s.DurationSeconds)

	PrintFormationTable(w, s.Formations)

	for _, t := range team.All {
		fmt.Fprintf(w, "\n%s metrics\n", t)
		PrintMetricTable(w, s.Metrics.Get(t))
	}
}

// PrintFormationTable writes the most common formation and frequency of
// each detected formation per team
func PrintFormationTable(w io.Writer, f team.PerTeam[formation.Summary]) {

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("TEAM", "MOST_COMMON", "STYLE", "FRAMES", "BREAKDOWN")

	for _, t := range team.All {
		sum := f.Get(t)
		style := formation.Style(sum.MostCommon)

		if style == "" {
			style = "-"
		}

		table.Append(
			t.String(),
			sum.MostCommon,
			style,
			strconv.Itoa(sum.FramesDetected),
			breakdown(sum),
		)
	}

	table.Render()
}

// PrintMetricTable writes mean, std, min, max and current of every metric
func PrintMetricTable(w io.Writer, stats map[string]metrics.Stat) {

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	table.Header("METRIC", "MEAN", "STD", "MIN", "MAX", "CURRENT")

	for _, name := range metricOrder(stats) {
		st := stats[name]

		table.Append(
			name,
			fmt.Sprintf("%.2f", st.Mean),
			fmt.Sprintf("%.2f", st.Std),
			fmt.Sprintf("%.2f", st.Min),
			fmt.Sprintf("%.2f", st.Max),
			fmt.Sprintf("%.2f", st.Current),
		)
	}

	table.Render()
}

// breakdown formats the top formations as "4-4-2 62%, 4-3-3 20%"
func breakdown(s formation.Summary) string {

	if s.FramesDetected == 0 {
		return "-"
	}

	labels := make([]string, 0, len(s.Counts))

	for l := range s.Counts {
		labels = append(labels, l)
	}

	sort.Slice(labels, func(i, j int) bool {
		if s.Counts[labels[i]] != s.Counts[labels[j]] {
			return s.Counts[labels[i]] > s.Counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	if len(labels) > 3 {
		labels = labels[:3]
	}

	out := ""

	for i, l := range labels {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %.0f%%", l, 100*float64(s.Counts[l])/float64(s.FramesDetected))
	}

	return out
}

// metricOrder returns the metric names in export order followed by any
// unknown names alphabetically
func metricOrder(stats map[string]metrics.Stat) []string {

	seen := make(map[string]bool, len(stats))
	order := make([]string, 0, len(stats))

	for _, name := range metrics.Names {
		if _, ok := stats[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}

	var rest []string

	for name := range stats {
		if !seen[name] {
			rest = append(rest, name)
		}
	}

	sort.Strings(rest)

	return append(order, rest...)
}
