// Package stltest builds STL fixtures for tests.
package stltest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
	"github.com/philipparndt/stlchecklist/pkg/stl"
)

// Cube returns an axis-aligned cube mesh with 8 distinct vertices and 12 triangles
func Cube(origin geometry.Vector3, size float64) *stl.Mesh {
	c := func(x, y, z float64) geometry.Vector3 {
		return origin.Add(geometry.NewVector3(x*size, y*size, z*size))
	}
	p := [8]geometry.Vector3{
		c(0, 0, 0), c(1, 0, 0), c(1, 1, 0), c(0, 1, 0),
		c(0, 0, 1), c(1, 0, 1), c(1, 1, 1), c(0, 1, 1),
	}
	faces := [12][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{2, 3, 7}, {2, 7, 6}, // back
		{1, 2, 6}, {1, 6, 5}, // right
		{3, 0, 4}, {3, 4, 7}, // left
	}

	mesh := stl.NewMesh("cube")
	for _, f := range faces {
		tri := geometry.NewTriangle(geometry.Vector3{}, p[f[0]], p[f[1]], p[f[2]])
		tri.Normal = tri.CalculateNormal()
		mesh.AddTriangle(tri)
	}
	return mesh
}

// Tetrahedron returns a four-triangle mesh spanning the given size
func Tetrahedron(size float64) *stl.Mesh {
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(size, 0, 0)
	c := geometry.NewVector3(0, size, 0)
	d := geometry.NewVector3(0, 0, size)

	mesh := stl.NewMesh("tetra")
	for _, f := range [4][3]geometry.Vector3{{a, c, b}, {a, b, d}, {a, d, c}, {b, c, d}} {
		tri := geometry.NewTriangle(geometry.Vector3{}, f[0], f[1], f[2])
		tri.Normal = tri.CalculateNormal()
		mesh.AddTriangle(tri)
	}
	return mesh
}

// WriteBinary writes the mesh as binary STL under path, creating parent directories
func WriteBinary(t testing.TB, path string, mesh *stl.Mesh) {
	t.Helper()
	writeFile(t, path, mesh, stl.WriteBinary)
}

// WriteASCII writes the mesh as ASCII STL under path, creating parent directories
func WriteASCII(t testing.TB, path string, mesh *stl.Mesh) {
	t.Helper()
	writeFile(t, path, mesh, stl.WriteASCII)
}

// WriteRaw writes arbitrary bytes under path, creating parent directories
func WriteRaw(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func writeFile(t testing.TB, path string, mesh *stl.Mesh, encode func(w io.Writer, m *stl.Mesh) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f, mesh); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}
