package thumbnail

import (
	"fmt"
	"image/color"
)

// Options controls framing and styling of a rendered thumbnail
type Options struct {
	Size        int     // Output edge length in pixels, thumbnails are square
	Padding     float64 // Absolute margin added to each side of the bounding box, in model units
	Supersample int     // Render at Size*Supersample and downscale; 1 disables
	Elevation   float64 // Camera elevation above the XY plane in degrees
	Azimuth     float64 // Camera azimuth around Z in degrees
	Shade       bool    // Modulate face color by a fixed directional light
	Face        color.RGBA
	Edge        color.RGBA
	Background  color.RGBA
}

// DefaultOptions returns the stock checklist styling: a 500px square with
// cyan faces, black outlines and a white background seen from (30°, -60°).
func DefaultOptions() Options {
	return Options{
		Size:        500,
		Padding:     1.0,
		Supersample: 2,
		Elevation:   30,
		Azimuth:     -60,
		Shade:       true,
		Face:        color.RGBA{R: 0, G: 255, B: 255, A: 255},
		Edge:        color.RGBA{R: 0, G: 0, B: 0, A: 255},
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Validate checks that the options describe a drawable image
func (o Options) Validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("thumbnail size must be positive, got %d", o.Size)
	}
	if o.Supersample <= 0 {
		return fmt.Errorf("supersample factor must be positive, got %d", o.Supersample)
	}
	if o.Size*o.Supersample > 8192 {
		return fmt.Errorf("render target %dpx exceeds 8192px", o.Size*o.Supersample)
	}
	if o.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %v", o.Padding)
	}
	return nil
}
