package thumbnail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/philipparndt/stlchecklist/pkg/geometry"
	"github.com/philipparndt/stlchecklist/pkg/stl"
	"github.com/philipparndt/stlchecklist/pkg/stl/stltest"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Size = 64
	return opts
}

func mustRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func TestRenderCube(t *testing.T) {
	r := mustRenderer(t, smallOptions())
	mesh := stltest.Cube(geometry.Vector3{}, 1)
	bbox, _ := mesh.Bounds()

	thumb, err := r.Render(mesh, bbox)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(thumb.PNG))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("expected 64x64 image, got %dx%d", b.Dx(), b.Dy())
	}

	decoded, err := base64.StdEncoding.DecodeString(thumb.Base64())
	if err != nil {
		t.Fatalf("Base64 output does not decode: %v", err)
	}
	if !bytes.Equal(decoded, thumb.PNG) {
		t.Error("Base64 round trip changed the bytes")
	}
}

func TestRenderDrawsGeometryNearCenter(t *testing.T) {
	opts := smallOptions()
	opts.Supersample = 1
	r := mustRenderer(t, opts)
	mesh := stltest.Cube(geometry.Vector3{}, 10)
	bbox, _ := mesh.Bounds()

	img, err := r.Rasterize(mesh, bbox)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	center := color.RGBAModel.Convert(img.At(32, 32)).(color.RGBA)
	if center == opts.Background {
		t.Error("expected the cube to cover the image center")
	}
	corner := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if corner != opts.Background {
		t.Errorf("expected background in the corner, got %v", corner)
	}
}

func TestRenderSmallMeshIsReadable(t *testing.T) {
	opts := smallOptions()
	opts.Supersample = 1
	r := mustRenderer(t, opts)

	// A 1mm cube still fills a visible share of the frame with 1mm padding
	mesh := stltest.Cube(geometry.Vector3{}, 1)
	bbox, _ := mesh.Bounds()
	img, err := r.Rasterize(mesh, bbox)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	covered := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) != opts.Background {
				covered++
			}
		}
	}
	if covered < b.Dx()*b.Dy()/50 {
		t.Errorf("expected at least 2%% coverage, got %d of %d pixels", covered, b.Dx()*b.Dy())
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := mustRenderer(t, smallOptions())
	mesh := stltest.Tetrahedron(3)
	bbox, _ := mesh.Bounds()

	first, err := r.Render(mesh, bbox)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := r.Render(mesh, bbox)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.Equal(first.PNG, second.PNG) {
		t.Error("expected identical bytes for identical input")
	}
}

func TestRenderFailures(t *testing.T) {
	r := mustRenderer(t, smallOptions())

	huge := stl.NewMesh("huge")
	huge.AddTriangle(geometry.NewTriangle(
		geometry.Vector3{},
		geometry.NewVector3(-math.MaxFloat64, 0, 0),
		geometry.NewVector3(math.MaxFloat64, 0, 0),
		geometry.NewVector3(0, 1, 0),
	))
	hugeBounds, _ := huge.Bounds()

	tests := []struct {
		name string
		mesh *stl.Mesh
		bbox geometry.BoundingBox
	}{
		{"nil mesh", nil, geometry.BoundingBox{}},
		{"empty mesh", stl.NewMesh("empty"), geometry.BoundingBox{}},
		{"inverted bounds", stltest.Cube(geometry.Vector3{}, 1), geometry.NewBoundingBox()},
		{"overflowing extent", huge, hugeBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb, err := r.Render(tt.mesh, tt.bbox)
			if err == nil {
				t.Fatal("expected error")
			}
			if thumb != nil {
				t.Error("expected no thumbnail on failure")
			}
			var re *RenderError
			if !errors.As(err, &re) {
				t.Errorf("expected *RenderError, got %T: %v", err, err)
			}
		})
	}
}

func TestRenderFlatMeshWithoutPadding(t *testing.T) {
	opts := smallOptions()
	opts.Padding = 0
	r := mustRenderer(t, opts)

	flat := stl.NewMesh("flat")
	flat.AddTriangle(geometry.NewTriangle(
		geometry.Vector3{},
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	))
	bbox, _ := flat.Bounds()

	if _, err := r.Render(flat, bbox); err != nil {
		t.Errorf("expected a flat mesh to render, got %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero size", func(o *Options) { o.Size = 0 }},
		{"zero supersample", func(o *Options) { o.Supersample = 0 }},
		{"negative padding", func(o *Options) { o.Padding = -1 }},
		{"oversized target", func(o *Options) { o.Size = 5000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if _, err := NewRenderer(opts); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
