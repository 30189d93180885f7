package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
	"github.com/philipparndt/stlchecklist/pkg/stl"
)

// Summary holds the per-mesh figures printed next to a checklist entry
type Summary struct {
	TriangleCount int
	VertexCount   int
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	MinEdgeLength float64
	MaxEdgeLength float64
}

// Summarize computes counts, extents and edge statistics for a mesh.
// VertexCount is the number of distinct positions, not the flattened count.
func Summarize(mesh *stl.Mesh) (*Summary, error) {
	bbox, err := mesh.Bounds()
	if err != nil {
		return nil, err
	}

	result := &Summary{
		TriangleCount: mesh.TriangleCount(),
		BoundingBox:   bbox,
		Dimensions:    bbox.Size(),
		SurfaceArea:   mesh.SurfaceArea(),
		MinEdgeLength: math.MaxFloat64,
	}

	distinct := make(map[geometry.Vector3]struct{}, len(mesh.Points)/3)
	for _, p := range mesh.Points {
		distinct[p] = struct{}{}
	}
	result.VertexCount = len(distinct)

	for _, triangle := range mesh.Triangles {
		vs := triangle.Vertices()
		for i := range vs {
			length := vs[i].Distance(vs[(i+1)%3])
			result.MinEdgeLength = math.Min(result.MinEdgeLength, length)
			result.MaxEdgeLength = math.Max(result.MaxEdgeLength, length)
		}
	}

	return result, nil
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
