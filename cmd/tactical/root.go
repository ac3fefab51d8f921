package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/swdee/go-tactical/config"
)

var (
	configPath string
	logLevel   string

	// cfg is the configuration loaded before any command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tactical",
	Short: "Football tactical analysis tool",
	Long: `Project per frame player detections onto the pitch, classify team
formations, track shape metrics and render radar views.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(radarCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(runsCmd)
}

// setup configures logging and loads the configuration file
func setup(cmd *cobra.Command, args []string) error {

	level, err := logrus.ParseLevel(logLevel)

	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	if configPath == "" {
		cfg = config.Default()
		return nil
	}

	cfg, err = config.Load(configPath)

	if err != nil {
		logrus.WithField("path", configPath).WithError(err).Error("configuration rejected")
		return fmt.Errorf("load config: %w", err)
	}

	return nil
}
