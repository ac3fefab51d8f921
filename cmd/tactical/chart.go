package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/report"
)

var (
	chartMetric string
	chartHTML   string
	chartPNG    string
)

var chartCmd = &cobra.Command{
	Use:   "chart <match_stats.json>",
	Short: "Plot a metric timeline for both teams",
	Args:  cobra.ExactArgs(1),
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartMetric, "metric", "m", metrics.PressureHeight, "metric to plot")
	chartCmd.Flags().StringVar(&chartHTML, "html", "", "write an interactive HTML chart to this path")
	chartCmd.Flags().StringVar(&chartPNG, "png", "", "write a PNG chart to this path")
}

func runChart(cmd *cobra.Command, args []string) error {

	if chartHTML == "" && chartPNG == "" {
		return fmt.Errorf("at least one of --html or --png is required")
	}

	stats, err := report.Load(args[0])

	if err != nil {
		if isLegacy(err) {
			return fmt.Errorf("%s has no timeline, regenerate it with analyze: %w", args[0], err)
		}
		return fmt.Errorf("load stats: %w", err)
	}

	if chartHTML != "" {
		f, err := os.Create(chartHTML)

		if err != nil {
			return fmt.Errorf("create chart file: %w", err)
		}

		if err := report.WriteHTMLChart(f, stats, chartMetric); err != nil {
			f.Close()
			return err
		}

		if err := f.Close(); err != nil {
			return fmt.Errorf("close chart file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "html chart written to %s\n", chartHTML)
	}

	if chartPNG != "" {
		if err := report.WritePNGChart(chartPNG, stats, chartMetric); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "png chart written to %s\n", chartPNG)
	}

	return nil
}
