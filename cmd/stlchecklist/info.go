package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlchecklist/pkg/analysis"
	"github.com/philipparndt/stlchecklist/pkg/stl"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about an STL file",
	Long:  "Show triangle and vertex counts, dimensions, surface area and edge lengths.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	mesh, err := stl.Parse(filename)
	if err != nil {
		return err
	}

	result, err := analysis.Summarize(mesh)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	if mesh.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", mesh.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Mesh Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(out, "  Surface Area: %s\n\n", analysis.FormatMeasurement(result.SurfaceArea, "square units"))

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Dimensions: %s\n\n", analysis.FormatVector(result.Dimensions))

	fmt.Fprintln(out, "Edges:")
	fmt.Fprintf(out, "  Shortest: %s\n", analysis.FormatMeasurement(result.MinEdgeLength, ""))
	fmt.Fprintf(out, "  Longest: %s\n", analysis.FormatMeasurement(result.MaxEdgeLength, ""))
	return nil
}
