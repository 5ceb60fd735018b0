package viewer

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// screenVertex is a projected vertex with the shading intensity at it
type screenVertex struct {
	x, y, depth float32
	intensity   float32
}

// frame is a color image with a depth buffer of the same size
type frame struct {
	img   *image.RGBA
	depth []float32
}

func newFrame(width, height int, background color.RGBA) *frame {
	f := &frame{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		depth: make([]float32, width*height),
	}
	for i := range f.depth {
		f.depth[i] = math32.Inf(1)
	}
	for y := range height {
		for x := range width {
			f.img.SetRGBA(x, y, background)
		}
	}
	return f
}

// fillTriangle rasterizes a triangle with depth testing. Pixel centers inside
// the triangle get base scaled by the interpolated intensity.
func (f *frame) fillTriangle(a, b, c screenVertex, base color.RGBA) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}

	bounds := f.img.Bounds()
	minX := max(bounds.Min.X, int(math32.Floor(min(a.x, b.x, c.x))))
	maxX := min(bounds.Max.X-1, int(math32.Ceil(max(a.x, b.x, c.x))))
	minY := max(bounds.Min.Y, int(math32.Floor(min(a.y, b.y, c.y))))
	maxY := min(bounds.Max.Y-1, int(math32.Ceil(max(a.y, b.y, c.y))))

	width := bounds.Dx()
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			// barycentric weights, all of the same sign as area inside
			wa := edge(b, c, px, py) / area
			wb := edge(c, a, px, py) / area
			wc := edge(a, b, px, py) / area
			if wa < 0 || wb < 0 || wc < 0 {
				continue
			}

			z := wa*a.depth + wb*b.depth + wc*c.depth
			idx := y*width + x
			if z >= f.depth[idx] {
				continue
			}
			f.depth[idx] = z
			f.img.SetRGBA(x, y, shade(base, wa*a.intensity+wb*b.intensity+wc*c.intensity))
		}
	}
}

// drawLine draws a line with Bresenham's algorithm, clipped to the image
func (f *frame) drawLine(x1, y1, x2, y2 int, col color.RGBA) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	bounds := f.img.Bounds()
	err := dx + dy
	for {
		if image.Pt(x1, y1).In(bounds) {
			f.img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// edge is twice the signed area of the triangle a, b, (px, py)
func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func shade(base color.RGBA, intensity float32) color.RGBA {
	intensity = max(0, min(1, intensity))
	return color.RGBA{
		R: uint8(float32(base.R) * intensity),
		G: uint8(float32(base.G) * intensity),
		B: uint8(float32(base.B) * intensity),
		A: base.A,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
