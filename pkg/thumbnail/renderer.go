// Package thumbnail renders STL meshes into small PNG previews without any
// display surface.
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/nfnt/resize"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
	"github.com/philipparndt/stlchecklist/pkg/stl"
)

// ErrNoGeometry is returned when a mesh has no triangles to draw
var ErrNoGeometry = errors.New("mesh has no triangles")

// RenderError reports a failure anywhere between mesh and encoded image
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render thumbnail: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Thumbnail is a rendered preview
type Thumbnail struct {
	PNG []byte
}

// Base64 returns the PNG bytes in standard base64 encoding
func (t *Thumbnail) Base64() string {
	return base64.StdEncoding.EncodeToString(t.PNG)
}

// Renderer draws meshes with a fixed set of options
type Renderer struct {
	opts  Options
	light geometry.Vector3
}

// NewRenderer creates a renderer after validating its options
func NewRenderer(opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		opts:  opts,
		light: geometry.NewVector3(-0.4, -0.6, 1).Normalize(),
	}, nil
}

// Options returns the renderer configuration
func (r *Renderer) Options() Options {
	return r.opts
}

// Reentrant reports whether Render may be called from several goroutines at
// once. Every call owns its buffers, so it always may.
func (r *Renderer) Reentrant() bool {
	return true
}

// Render draws the mesh framed by bbox and encodes it as PNG.
// Every failure, including panics, is returned as a *RenderError.
func (r *Renderer) Render(mesh *stl.Mesh, bbox geometry.BoundingBox) (thumb *Thumbnail, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			thumb = nil
			err = &RenderError{Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	img, err := r.Rasterize(mesh, bbox)
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, &RenderError{Err: fmt.Errorf("failed to encode png: %w", err)}
	}

	return &Thumbnail{PNG: buf.Bytes()}, nil
}

// Rasterize draws the mesh into an image of Options.Size pixels square
func (r *Renderer) Rasterize(mesh *stl.Mesh, bbox geometry.BoundingBox) (image.Image, error) {
	if mesh == nil || mesh.TriangleCount() == 0 {
		return nil, ErrNoGeometry
	}

	target := r.opts.Size * r.opts.Supersample
	camera, err := NewCamera(bbox, r.opts.Padding, r.opts.Elevation, r.opts.Azimuth, target)
	if err != nil {
		return nil, err
	}

	cv := newCanvas(target, target, r.opts.Background)

	projected := make([][3]point, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		for j, v := range tri.Vertices() {
			x, y, z := camera.Project(v)
			if !geometry.NewVector3(x, y, z).IsFinite() {
				return nil, fmt.Errorf("triangle %d projects to a non-finite point", i)
			}
			projected[i][j] = point{x, y, z}
		}
	}

	for i, tri := range mesh.Triangles {
		p := projected[i]
		cv.fillTriangle(p[0], p[1], p[2], r.faceColor(tri))
	}
	for _, p := range projected {
		cv.drawLine(p[0], p[1], r.opts.Edge)
		cv.drawLine(p[1], p[2], r.opts.Edge)
		cv.drawLine(p[2], p[0], r.opts.Edge)
	}

	if r.opts.Supersample == 1 {
		return cv.img, nil
	}
	size := uint(r.opts.Size)
	return resize.Resize(size, size, cv.img, resize.Bilinear), nil
}

// faceColor applies flat Lambert shading with a fixed light. Facet winding in
// real files is unreliable, so both sides are lit.
func (r *Renderer) faceColor(tri geometry.Triangle) color.RGBA {
	if !r.opts.Shade {
		return r.opts.Face
	}

	normal := tri.CalculateNormal()
	if normal.Length() == 0 {
		normal = tri.Normal.Normalize()
	}
	intensity := 0.45 + 0.55*math.Abs(normal.Dot(r.light))

	shade := func(c uint8) uint8 {
		return uint8(math.Round(float64(c) * intensity))
	}
	return color.RGBA{R: shade(r.opts.Face.R), G: shade(r.opts.Face.G), B: shade(r.opts.Face.B), A: r.opts.Face.A}
}
