package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// canvas fills anti-aliased paths onto an RGBA image. Coordinates are in
// pixels with (0, 0) at the top-left corner of the image.
type canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func newCanvas(img *image.RGBA) *canvas {
	b := img.Bounds()
	return &canvas{img: img, z: vector.NewRasterizer(b.Dx(), b.Dy())}
}

// fill paints the current path with c and starts a new one.
func (cv *canvas) fill(c color.RGBA) {
	b := cv.img.Bounds()
	cv.z.Draw(cv.img, b, image.NewUniform(c), image.Point{})
	cv.z.Reset(b.Dx(), b.Dy())
}

func (cv *canvas) rect(r image.Rectangle, c color.RGBA) {
	xdraw.Draw(cv.img, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (cv *canvas) polygon(c color.RGBA, pts ...image.Point) {
	if len(pts) < 3 {
		return
	}
	cv.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		cv.z.LineTo(float32(p.X), float32(p.Y))
	}
	cv.z.ClosePath()
	cv.fill(c)
}

// circle is centered on the middle of pixel (cx, cy).
func (cv *canvas) circle(cx, cy, radius int, c color.RGBA) {
	x, y, r := float32(cx)+0.5, float32(cy)+0.5, float32(radius)
	k := r * kappa
	z := cv.z
	z.MoveTo(x+r, y)
	z.CubeTo(x+r, y+k, x+k, y+r, x, y+r)
	z.CubeTo(x-k, y+r, x-r, y+k, x-r, y)
	z.CubeTo(x-r, y-k, x-k, y-r, x, y-r)
	z.CubeTo(x+k, y-r, x+r, y-k, x+r, y)
	z.ClosePath()
	cv.fill(c)
}

func (cv *canvas) roundedRect(r image.Rectangle, radius int, c color.RGBA) {
	x0, y0 := float32(r.Min.X), float32(r.Min.Y)
	x1, y1 := float32(r.Max.X), float32(r.Max.Y)
	rad := min(float32(radius), (x1-x0)/2, (y1-y0)/2)
	k := rad * (1 - kappa)
	z := cv.z
	z.MoveTo(x0+rad, y0)
	z.LineTo(x1-rad, y0)
	z.CubeTo(x1-k, y0, x1, y0+k, x1, y0+rad)
	z.LineTo(x1, y1-rad)
	z.CubeTo(x1, y1-k, x1-k, y1, x1-rad, y1)
	z.LineTo(x0+rad, y1)
	z.CubeTo(x0+k, y1, x0, y1-k, x0, y1-rad)
	z.LineTo(x0, y0+rad)
	z.CubeTo(x0, y0+k, x0+k, y0, x0+rad, y0)
	z.ClosePath()
	cv.fill(c)
}
