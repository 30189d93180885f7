package stl

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTriangles is returned for a well-formed file that holds no facets
	ErrNoTriangles = errors.New("no triangles")
	// ErrTruncated is returned when the data ends before the declared content
	ErrTruncated = errors.New("truncated data")
	// ErrMalformed is returned for syntax or numeric errors in the file
	ErrMalformed = errors.New("malformed data")
)

// ParseError reports a file that could not be turned into a mesh
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse stl: %v", e.Err)
	}
	return fmt.Sprintf("parse stl %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
