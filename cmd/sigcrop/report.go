package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigcrop/pkg/history"
	"sigcrop/pkg/logger"
	"sigcrop/pkg/report"
)

var reportDir string

// reportCmd regenerates the crop reports from the history ledger.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate text and HTML reports from the crop history",
	Long: `Read the history ledger and regenerate the cropping reports: a
plain-text listing, an HTML table, and a chart of crop sizes. Reports are
rewritten in full on every run.`,
	Example: `  # Reports next to the crops
  sigcrop report

  # Reports into a separate directory
  sigcrop report --dir ./reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDir, "dir", "", "directory to write reports into (default: output directory)")
}

func runReport() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ledger, err := history.Open(cfg.HistoryFile())
	if err != nil {
		return fmt.Errorf("failed to open history ledger: %w", err)
	}

	dir := reportDir
	if dir == "" {
		dir = cfg.Output.Directory
	}

	paths, err := report.Generate(dir, ledger.All())
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", paths.Text)
	fmt.Printf("Wrote %s\n", paths.HTML)
	fmt.Printf("Wrote %s\n", paths.Chart)
	return nil
}
