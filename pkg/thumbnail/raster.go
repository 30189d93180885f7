package thumbnail

import (
	"image"
	"image/color"
	"math"
)

// edgeDepthBias lets outlines win the depth test against their own faces
const edgeDepthBias = 1e-3

// canvas is an off-screen color and depth buffer
type canvas struct {
	img    *image.RGBA
	zbuf   []float64
	width  int
	height int
}

func newCanvas(width, height int, background color.RGBA) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = background.R
		img.Pix[i+1] = background.G
		img.Pix[i+2] = background.B
		img.Pix[i+3] = background.A
	}

	zbuf := make([]float64, width*height)
	for i := range zbuf {
		zbuf[i] = math.Inf(1)
	}

	return &canvas{img: img, zbuf: zbuf, width: width, height: height}
}

// point is a projected vertex in pixel space
type point struct {
	x, y, z float64
}

// fillTriangle fills a triangle with depth testing using a scanline walk.
// Pixels are sampled at their centers.
func (c *canvas) fillTriangle(p1, p2, p3 point, col color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if p1.y > p2.y {
		p1, p2 = p2, p1
	}
	if p2.y > p3.y {
		p2, p3 = p3, p2
	}
	if p1.y > p2.y {
		p1, p2 = p2, p1
	}

	if p3.y == p1.y {
		return
	}

	yStart := int(math.Max(0, math.Ceil(p1.y-0.5)))
	yEnd := int(math.Min(float64(c.height-1), math.Floor(p3.y-0.5)))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y) + 0.5

		// Long edge 1-3 against the short edge on this side of the middle vertex
		t := (fy - p1.y) / (p3.y - p1.y)
		xa := p1.x + t*(p3.x-p1.x)
		za := p1.z + t*(p3.z-p1.z)

		var xb, zb float64
		if fy < p2.y {
			if p2.y == p1.y {
				continue
			}
			s := (fy - p1.y) / (p2.y - p1.y)
			xb = p1.x + s*(p2.x-p1.x)
			zb = p1.z + s*(p2.z-p1.z)
		} else {
			if p3.y == p2.y {
				xb, zb = p2.x, p2.z
			} else {
				s := (fy - p2.y) / (p3.y - p2.y)
				xb = p2.x + s*(p3.x-p2.x)
				zb = p2.z + s*(p3.z-p2.z)
			}
		}

		if xa > xb {
			xa, xb = xb, xa
			za, zb = zb, za
		}

		xStart := int(math.Max(0, math.Ceil(xa-0.5)))
		xEnd := int(math.Min(float64(c.width-1), math.Floor(xb-0.5)))

		for x := xStart; x <= xEnd; x++ {
			z := za
			if xb != xa {
				z = za + (float64(x)+0.5-xa)/(xb-xa)*(zb-za)
			}

			idx := y*c.width + x
			if z < c.zbuf[idx] {
				c.zbuf[idx] = z
				c.img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a depth-tested line using Bresenham's algorithm
func (c *canvas) drawLine(p1, p2 point, col color.RGBA) {
	x1, y1 := int(math.Floor(p1.x)), int(math.Floor(p1.y))
	x2, y2 := int(math.Floor(p2.x)), int(math.Floor(p2.y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for i := 0; ; i++ {
		if x1 >= 0 && x1 < c.width && y1 >= 0 && y1 < c.height {
			z := p1.z
			if steps > 0 {
				z = p1.z + float64(i)/float64(steps)*(p2.z-p1.z)
			}
			idx := y1*c.width + x1
			if z <= c.zbuf[idx]+edgeDepthBias {
				c.img.SetRGBA(x1, y1, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
