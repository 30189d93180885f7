package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
)

// WriteBinary encodes the mesh as binary STL
func WriteBinary(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, binaryHeaderSize)
	copy(header, m.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	record := make([]byte, binaryRecordSize)
	for i, tri := range m.Triangles {
		for j, v := range [4]geometry.Vector3{tri.Normal, tri.V1, tri.V2, tri.V3} {
			off := j * 12
			binary.LittleEndian.PutUint32(record[off:], math.Float32bits(float32(v.X)))
			binary.LittleEndian.PutUint32(record[off+4:], math.Float32bits(float32(v.Y)))
			binary.LittleEndian.PutUint32(record[off+8:], math.Float32bits(float32(v.Z)))
		}
		if _, err := bw.Write(record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// WriteASCII encodes the mesh as ASCII STL
func WriteASCII(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for _, tri := range m.Triangles {
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", tri.Normal.X, tri.Normal.Y, tri.Normal.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range tri.Vertices() {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)

	return bw.Flush()
}
