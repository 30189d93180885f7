package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/stlchecklist/internal/checklist"
	"github.com/philipparndt/stlchecklist/internal/config"
	"github.com/philipparndt/stlchecklist/internal/logger"
	"github.com/philipparndt/stlchecklist/pkg/thumbnail"
)

var (
	scanOutput  string
	scanWorkers int
	scanSize    int
	scanPadding float64
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Scan a folder and print the checklist as JSON",
	Long: `Recursively finds STL files below the folder, renders a preview of each and
prints the checklist report. A missing folder is reported in the "error" field.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
	scanCmd.Flags().StringVarP(&scanOutput, "out", "o", "", "Write the report to a file instead of stdout")
}

// addScanFlags registers the overrides shared by scan and watch
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "Files rendered in parallel")
	cmd.Flags().IntVar(&scanSize, "size", 0, "Thumbnail edge length in pixels")
	cmd.Flags().Float64Var(&scanPadding, "padding", 0, "Margin around the bounding box in model units")
}

// applyScanFlags copies explicitly set flags into the configuration
func applyScanFlags(cmd *cobra.Command, c *config.Config) error {
	if cmd.Flags().Changed("workers") {
		c.Scan.Workers = scanWorkers
	}
	if cmd.Flags().Changed("size") {
		c.Thumbnail.Size = scanSize
	}
	if cmd.Flags().Changed("padding") {
		c.Thumbnail.Padding = scanPadding
	}
	return c.Validate()
}

// newScanner builds a scanner from the validated configuration
func newScanner(c *config.Config) (*checklist.Scanner, error) {
	opts, err := c.RenderOptions()
	if err != nil {
		return nil, err
	}
	renderer, err := thumbnail.NewRenderer(opts)
	if err != nil {
		return nil, err
	}
	return checklist.NewScanner(renderer, checklist.Options{
		Extension: c.Scan.Extension,
		Workers:   c.Scan.Workers,
		Logger:    logger.Log,
	}), nil
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}
	scanner, err := newScanner(cfg)
	if err != nil {
		return err
	}

	report := checklist.Generate(args[0], scanner)
	if err := writeReport(report, scanOutput, cmd.OutOrStdout()); err != nil {
		return err
	}

	if report.Error != "" {
		return fmt.Errorf("%s", report.Error)
	}
	logger.Log.Info("checklist generated",
		zap.String("folder", report.FolderName),
		zap.Int("files", report.FileCount),
		zap.Int("without_preview", report.Failed()),
	)
	return nil
}

// writeReport writes to path, or to stdout when path is empty
func writeReport(report *checklist.Report, path string, stdout io.Writer) error {
	if path == "" {
		return report.WriteJSON(stdout)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if err := report.WriteJSON(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write report: %w", err)
	}
	return os.Rename(tmp, path)
}
