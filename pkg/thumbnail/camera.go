package thumbnail

import (
	"fmt"
	"math"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
)

// fitMargin is the fraction of the image left empty on each side
const fitMargin = 0.02

// Camera is a fixed orthographic view onto the padded bounding box.
// Axis limits are [min-padding, max+padding] on every axis and the box keeps
// its true aspect ratio, so long parts are not stretched into cubes.
type Camera struct {
	center  geometry.Vector3
	scale   float64
	right   geometry.Vector3
	up      geometry.Vector3
	forward geometry.Vector3

	// screen transform
	pixels  float64
	offsetX float64
	offsetY float64
}

// NewCamera frames the padded bounding box inside a square image of the given
// size, viewed from elevation and azimuth in degrees.
func NewCamera(bbox geometry.BoundingBox, padding, elevation, azimuth float64, size int) (*Camera, error) {
	if !bbox.Valid() {
		return nil, fmt.Errorf("invalid bounding box %v", bbox)
	}

	limits := bbox.Pad(padding)
	extent := limits.Size()
	if !extent.IsFinite() || !limits.Center().IsFinite() {
		return nil, fmt.Errorf("bounding box extent %v is not finite", extent)
	}

	maxExtent := math.Max(extent.X, math.Max(extent.Y, extent.Z))
	if maxExtent <= 0 {
		// A single point with no padding; any non-zero scale frames it.
		maxExtent = 1
	}

	elev := elevation * math.Pi / 180
	azim := azimuth * math.Pi / 180
	eye := geometry.NewVector3(
		math.Cos(elev)*math.Cos(azim),
		math.Cos(elev)*math.Sin(azim),
		math.Sin(elev),
	)

	worldUp := geometry.NewVector3(0, 0, 1)
	forward := eye.Mul(-1).Normalize()
	right := forward.Cross(worldUp).Normalize()
	if right.Length() == 0 {
		// Looking straight down or up, pick a stable horizontal axis
		right = geometry.NewVector3(1, 0, 0)
	}
	up := right.Cross(forward).Normalize()

	c := &Camera{
		center:  limits.Center(),
		scale:   1 / maxExtent,
		right:   right,
		up:      up,
		forward: forward,
	}

	// Fit the projected limit box into the image
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, corner := range limits.Corners() {
		x, y, _ := c.view(corner)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span <= 0 {
		span = 1
	}
	usable := float64(size) * (1 - 2*fitMargin)
	c.pixels = usable / span
	c.offsetX = float64(size)/2 - c.pixels*(minX+maxX)/2
	c.offsetY = float64(size)/2 + c.pixels*(minY+maxY)/2

	return c, nil
}

// view maps a world point into normalized camera space
func (c *Camera) view(point geometry.Vector3) (x, y, depth float64) {
	relative := point.Sub(c.center).Mul(c.scale)
	return relative.Dot(c.right), relative.Dot(c.up), relative.Dot(c.forward)
}

// Project maps a world point to pixel coordinates and a depth where smaller
// values are closer to the viewer.
func (c *Camera) Project(point geometry.Vector3) (float64, float64, float64) {
	x, y, depth := c.view(point)
	screenX := x*c.pixels + c.offsetX
	screenY := -y*c.pixels + c.offsetY
	return screenX, screenY, depth
}

// ViewDirection returns the unit vector pointing from the camera into the scene
func (c *Camera) ViewDirection() geometry.Vector3 {
	return c.forward
}
