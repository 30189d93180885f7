package geometry

import (
	"errors"
	"math"
)

// ErrEmptyMesh is returned when bounds are requested for an empty point list
var ErrEmptyMesh = errors.New("mesh has no points")

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an inverted box that any Extend call will collapse
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// CalculateBounds computes the bounding box of a point list in a single pass.
// It returns ErrEmptyMesh when points is empty.
func CalculateBounds(points []Vector3) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, ErrEmptyMesh
	}

	bbox := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		bbox.Extend(p)
	}
	return bbox, nil
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Pad grows the box by an absolute margin on every side
func (b BoundingBox) Pad(margin float64) BoundingBox {
	m := NewVector3(margin, margin, margin)
	return BoundingBox{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Valid reports whether every min coordinate is <= the matching max coordinate
func (b BoundingBox) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
		Z: (b.Min.Z + b.Max.Z) / 2.0,
	}
}

// Corners returns the eight corners of the box
func (b BoundingBox) Corners() [8]Vector3 {
	return [8]Vector3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}
