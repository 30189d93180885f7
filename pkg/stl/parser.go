package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
)

const (
	binaryHeaderSize = 80
	binaryRecordSize = 50
	sniffSize        = 512

	// Upper bound for preallocation, the declared count is untrusted
	maxPrealloc = 1 << 16
)

// Parse reads an STL file and returns a Mesh.
// It automatically detects whether the file is ASCII or binary format.
// Every failure is returned as a *ParseError.
func Parse(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}
	defer file.Close()

	mesh, err := Decode(file)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = filename
			return nil, pe
		}
		return nil, &ParseError{Path: filename, Err: err}
	}
	return mesh, nil
}

// Decode reads an STL stream, detecting the encoding from its leading bytes
func Decode(r io.Reader) (*Mesh, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: fmt.Errorf("failed to read file header: %w", err)}
	}
	if len(head) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("empty file: %w", ErrTruncated)}
	}

	if IsASCII(head) {
		return parseASCII(br)
	}
	return parseBinary(br)
}

// IsASCII reports whether the leading bytes of a file look like ASCII STL.
// Binary files may also start with "solid" in their free-form header, so a
// facet keyword is required as well.
func IsASCII(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("solid")) {
		return false
	}
	return bytes.Contains(trimmed, []byte("facet")) || bytes.Contains(trimmed, []byte("endsolid"))
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	mesh := NewMesh("")

	var currentNormal geometry.Vector3
	vertices := make([]geometry.Vector3, 0, 3)
	inFacet := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if inFacet {
				return nil, asciiError(lineNo, "nested facet")
			}
			inFacet = true
			vertices = vertices[:0]
			currentNormal = geometry.Vector3{}
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseVector(fields[2:5])
				if err != nil {
					return nil, asciiError(lineNo, err.Error())
				}
				currentNormal = n
			}

		case "vertex":
			if !inFacet {
				return nil, asciiError(lineNo, "vertex outside facet")
			}
			if len(fields) < 4 {
				return nil, asciiError(lineNo, "vertex needs three coordinates")
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, asciiError(lineNo, err.Error())
			}
			vertices = append(vertices, v)

		case "endfacet":
			if !inFacet {
				return nil, asciiError(lineNo, "endfacet without facet")
			}
			if len(vertices) != 3 {
				return nil, asciiError(lineNo, fmt.Sprintf("facet has %d vertices", len(vertices)))
			}
			mesh.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			inFacet = false

		case "endsolid":
			if inFacet {
				return nil, asciiError(lineNo, "endsolid inside facet")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("error reading ASCII STL: %w", err)}
	}
	if inFacet {
		return nil, &ParseError{Err: fmt.Errorf("unterminated facet: %w", ErrTruncated)}
	}
	if mesh.TriangleCount() == 0 {
		return nil, &ParseError{Err: ErrNoTriangles}
	}

	return mesh, nil
}

func asciiError(line int, msg string) error {
	return &ParseError{Err: fmt.Errorf("line %d: %s: %w", line, msg, ErrMalformed)}
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid number %q", f)
		}
		c[i] = v
	}
	vec := geometry.NewVector3(c[0], c[1], c[2])
	if !vec.IsFinite() {
		return geometry.Vector3{}, fmt.Errorf("non-finite coordinate %v", vec)
	}
	return vec, nil
}

// parseBinary parses a binary STL file
func parseBinary(reader io.Reader) (*Mesh, error) {
	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read header: %w", ErrTruncated)}
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read triangle count: %w", ErrTruncated)}
	}
	if triangleCount == 0 {
		return nil, &ParseError{Err: ErrNoTriangles}
	}

	mesh := NewMesh(strings.TrimSpace(string(bytes.TrimRight(header, "\x00"))))
	prealloc := int(min(triangleCount, maxPrealloc))
	mesh.Triangles = make([]geometry.Triangle, 0, prealloc)
	mesh.Points = make([]geometry.Vector3, 0, 3*prealloc)

	record := make([]byte, binaryRecordSize)
	for i := uint32(0); i < triangleCount; i++ {
		if _, err := io.ReadFull(reader, record); err != nil {
			return nil, &ParseError{Err: fmt.Errorf("triangle %d of %d: %w", i, triangleCount, ErrTruncated)}
		}

		// normal, v1, v2, v3 as float32 triples, then a 2-byte attribute count
		var vecs [4]geometry.Vector3
		for j := range vecs {
			off := j * 12
			vecs[j] = geometry.NewVector3(
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[off:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[off+4:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[off+8:]))),
			)
		}
		for _, v := range vecs[1:] {
			if !v.IsFinite() {
				return nil, &ParseError{Err: fmt.Errorf("triangle %d: non-finite vertex: %w", i, ErrMalformed)}
			}
		}

		mesh.AddTriangle(geometry.NewTriangle(vecs[0], vecs[1], vecs[2], vecs[3]))
	}

	return mesh, nil
}
