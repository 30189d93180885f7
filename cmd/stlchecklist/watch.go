package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/stlchecklist/internal/checklist"
	"github.com/philipparndt/stlchecklist/internal/logger"
	"github.com/philipparndt/stlchecklist/pkg/watcher"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Regenerate the checklist whenever STL files in a folder change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addScanFlags(watchCmd)
	watchCmd.Flags().StringVarP(&watchOutput, "out", "o", "", "Report file rewritten after every change")
	_ = watchCmd.MarkFlagRequired("out")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}
	scanner, err := newScanner(cfg)
	if err != nil {
		return err
	}
	root := args[0]

	regenerate := func() {
		report := checklist.Generate(root, scanner)
		if err := writeReport(report, watchOutput, cmd.OutOrStdout()); err != nil {
			logger.Log.Error("failed to write report", zap.String("out", watchOutput), zap.Error(err))
			return
		}
		logger.Log.Info("checklist updated",
			zap.String("out", watchOutput),
			zap.Int("files", report.FileCount),
			zap.Int("without_preview", report.Failed()),
		)
	}

	// Fails here for a missing root, before anything is watched
	if _, err := scanner.Find(root); err != nil {
		return err
	}
	regenerate()

	dw, err := watcher.NewDirWatcher(root, cfg.Scan.Debounce, scanner.Matches)
	if err != nil {
		return err
	}
	defer dw.Close()

	dw.OnError(func(err error) {
		logger.Log.Warn("watcher error", zap.Error(err))
	})
	dw.Start(regenerate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("watching for changes", zap.String("root", root))
	<-ctx.Done()
	return nil
}
