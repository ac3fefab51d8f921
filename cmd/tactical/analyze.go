package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	tactical "github.com/swdee/go-tactical"
	"github.com/swdee/go-tactical/report"
	"github.com/swdee/go-tactical/storage"
	"gocv.io/x/gocv"
)

var (
	analyzeOut      string
	analyzeDB       string
	analyzeRadarDir string
	analyzeDuration float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <frames.jsonl>",
	Short: "Analyse a JSON Lines frame file and write match statistics",
	Long: `Run the tactical pipeline over every frame in the input file, write the
match statistics JSON and print a summary.  Optionally store per frame
results in SQLite and render a radar PNG for every frame.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "match_stats.json", "path of the match statistics file")
	analyzeCmd.Flags().StringVar(&analyzeDB, "db", "", "path to SQLite database for per frame results")
	analyzeCmd.Flags().StringVar(&analyzeRadarDir, "radar-dir", "", "directory to write a radar PNG per frame")
	analyzeCmd.Flags().Float64Var(&analyzeDuration, "duration", 0, "video duration in seconds, derived from fps when 0")
}

func runAnalyze(cmd *cobra.Command, args []string) error {

	log := logrus.WithField("component", "analyze")

	frames, err := tactical.LoadFrames(args[0])

	if err != nil {
		return fmt.Errorf("load frames: %w", err)
	}

	params := tactical.AnalyzerParamsFromConfig(cfg)
	a, err := tactical.NewAnalyzer(params)

	if err != nil {
		return err
	}

	if analyzeDB != "" {
		db, err := storage.Open(analyzeDB)

		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}

		defer db.Close()

		run, err := db.CreateRun(filepath.Base(args[0]), params.Schema.Name())

		if err != nil {
			return err
		}

		a.SetSink(run.ID, db)
		log.WithField("run", run.ID).Info("storing frames")
	}

	var emit func(tactical.FrameResult) error

	if analyzeRadarDir != "" {
		if err := os.MkdirAll(analyzeRadarDir, 0o755); err != nil {
			return fmt.Errorf("create radar directory: %w", err)
		}

		radar := newRadar()

		emit = func(res tactical.FrameResult) error {
			img := radar.Draw(radarInput(a, res))
			defer img.Close()

			path := filepath.Join(analyzeRadarDir, fmt.Sprintf("radar_%06d.png", res.Frame))

			if ok := gocv.IMWrite(path, img); !ok {
				return fmt.Errorf("failed to write radar image %s", path)
			}

			return nil
		}
	}

	log.WithFields(logrus.Fields{
		"frames":  len(frames),
		"schema":  params.Schema.Name(),
		"workers": params.Workers,
	}).Info("analysing")

	if err := a.ProcessAll(frames, emit); err != nil {
		return err
	}

	stats := a.Report(analyzeDuration)

	if err := report.Save(analyzeOut, stats); err != nil {
		return err
	}

	log.WithField("path", analyzeOut).Info("match statistics written")

	report.PrintSummary(cmd.OutOrStdout(), stats)

	return nil
}
