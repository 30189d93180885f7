package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/stlchecklist/internal/logger"
	"github.com/philipparndt/stlchecklist/pkg/stl"
	"github.com/philipparndt/stlchecklist/pkg/thumbnail"
)

var thumbOutput string

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail [file]",
	Short: "Render the preview of a single STL file to PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runThumbnail,
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)
	thumbnailCmd.Flags().StringVarP(&thumbOutput, "out", "o", "", "Output PNG path (default: <file>.png)")
	thumbnailCmd.Flags().IntVar(&scanSize, "size", 0, "Thumbnail edge length in pixels")
	thumbnailCmd.Flags().Float64Var(&scanPadding, "padding", 0, "Margin around the bounding box in model units")
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	filename := args[0]
	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	renderer, err := thumbnail.NewRenderer(opts)
	if err != nil {
		return err
	}

	mesh, err := stl.Parse(filename)
	if err != nil {
		return err
	}
	bbox, err := mesh.Bounds()
	if err != nil {
		return err
	}
	thumb, err := renderer.Render(mesh, bbox)
	if err != nil {
		return err
	}

	out := thumbOutput
	if out == "" {
		out = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".png"
	}
	if err := os.WriteFile(out, thumb.PNG, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	logger.Log.Info("thumbnail written",
		zap.String("out", out),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("bytes", len(thumb.PNG)),
	)
	return nil
}
