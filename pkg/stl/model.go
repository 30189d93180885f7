package stl

import (
	"github.com/philipparndt/stlchecklist/pkg/geometry"
)

// Mesh is a parsed STL file: the triangle soup in file order plus the
// flattened vertex positions used for bounds computation.
type Mesh struct {
	Name      string
	Triangles []geometry.Triangle
	Points    []geometry.Vector3
}

// NewMesh creates an empty mesh
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
		Points:    make([]geometry.Vector3, 0),
	}
}

// AddTriangle appends a triangle and its three vertices
func (m *Mesh) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
	m.Points = append(m.Points, triangle.V1, triangle.V2, triangle.V3)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Bounds returns the axis-aligned bounding box of the mesh points
func (m *Mesh) Bounds() (geometry.BoundingBox, error) {
	return geometry.CalculateBounds(m.Points)
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
