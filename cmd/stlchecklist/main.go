package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/stlchecklist/internal/config"
	"github.com/philipparndt/stlchecklist/internal/logger"
	"github.com/philipparndt/stlchecklist/version"
)

var (
	configPath string
	logLevel   string
	logFile    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stlchecklist",
	Short: "Build printable checklists with previews of STL files",
	Long: `stlchecklist scans a folder for STL files (ASCII or binary), renders a
thumbnail of every mesh and produces a JSON checklist with one entry per file.
Files that cannot be parsed or rendered stay in the checklist without a preview.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			loaded.Logging.LogFile = logFile
		}
		if err := logger.Init(loaded.Logging.Level, loaded.Logging.LogFile); err != nil {
			return err
		}
		cfg = loaded
		logger.Log.Debug("configuration loaded", zap.String("path", configPath))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file")
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
