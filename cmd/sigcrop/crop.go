package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigcrop/pkg/catalog"
	"sigcrop/pkg/checkpoint"
	"sigcrop/pkg/config"
	"sigcrop/pkg/history"
	"sigcrop/pkg/logger"
	"sigcrop/pkg/session"
	"sigcrop/pkg/storage"
	"sigcrop/pkg/ui/tui"
)

var (
	inputDir       string
	outputDir      string
	maxPoints      int
	checkpointFile string
	tagPrefix      string
	darkTheme      bool
	forceRestart   bool
)

// cropCmd runs the interactive cropping session.
var cropCmd = &cobra.Command{
	Use:   "crop [input-dir]",
	Short: "Run an interactive cropping session over a directory of signals",
	Long: `Walk every eligible .csv / .npy file in the input directory, in
ascending name order, and interactively select and save crops.

The session resumes from the last checkpoint unless --force-restart is
given. Every saved crop is appended to the history ledger and can be turned
into a report later with 'sigcrop report'.`,
	Example: `  # Crop signals from ./data into ./cropped
  sigcrop crop ./data

  # Custom output and a tag prefix on every crop name
  sigcrop crop ./data --output ./crops --tag baseline

  # Start over, ignoring the saved position
  sigcrop crop ./data --force-restart`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrop(args)
	},
}

func init() {
	rootCmd.AddCommand(cropCmd)

	cropCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for crops")
	cropCmd.Flags().IntVar(&maxPoints, "max-points", 0, "reject files with more samples than this")
	cropCmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "checkpoint file path")
	cropCmd.Flags().StringVar(&tagPrefix, "tag", "", "tag prefix for crop file names")
	cropCmd.Flags().BoolVar(&darkTheme, "dark", false, "start with the dark theme")
	cropCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "ignore the existing checkpoint and start over")
}

func runCrop(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Input.Directory = args[0]
	}
	applyCropFlags(cfg)

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.GetLogger()
	log.WithFields(map[string]interface{}{
		"input":  cfg.Input.Directory,
		"output": cfg.Output.Directory,
	}).Info("starting cropping session")

	entries, err := catalog.Build(cfg.Input.Directory, cfg.Input.MaxPoints)
	if err != nil {
		return err
	}

	store := checkpoint.NewStore(cfg.Session.CheckpointFile)
	if forceRestart {
		if err := store.Delete(); err != nil {
			return err
		}
	}

	ledger, err := history.Open(cfg.HistoryFile())
	if err != nil {
		return fmt.Errorf("failed to open history ledger: %w", err)
	}

	writer, err := storage.NewWriter(cfg.Output.Directory)
	if err != nil {
		return err
	}

	model := tui.NewModel(cfg.UI.DarkTheme)
	sess, err := session.New(entries, store, ledger, writer, model,
		session.WithTag(cfg.Session.Tag),
		session.WithDarkTheme(cfg.UI.DarkTheme),
	)
	if err != nil {
		return err
	}
	model.SetSession(sess)

	if err := tui.Run(model); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	log.WithField("crops", ledger.Len()).Info("session ended")
	return nil
}

// loadConfig builds the effective config from file, .env, and environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// applyCropFlags overlays explicitly set command line flags.
func applyCropFlags(cfg *config.Config) {
	if outputDir != "" {
		cfg.Output.Directory = outputDir
	}
	if maxPoints > 0 {
		cfg.Input.MaxPoints = maxPoints
	}
	if checkpointFile != "" {
		cfg.Session.CheckpointFile = checkpointFile
	}
	if tagPrefix != "" {
		cfg.Session.Tag = tagPrefix
	}
	if darkTheme {
		cfg.UI.DarkTheme = true
	}
}
