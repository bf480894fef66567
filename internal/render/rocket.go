// Package render draws the rocket progress illustration.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"math/rand"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default canvas size.
const (
	DefaultWidth  = 700
	DefaultHeight = 900

	minWidth  = 200
	minHeight = 500
)

const (
	starCount  = 200
	starSeed   = 42
	moonRadius = 70
	moonY      = 100
	groundH    = 80
	padGap     = 120
	moonGap    = 20

	bodyH    = 140
	bodyW    = 48
	bodyR    = 16
	noseH    = 28
	finH     = 28
	finW     = 22
	windowR  = 10
	flameW   = 24
	flameMin = 40
	flameAmp = 10

	captionX     = 20
	captionY     = 20
	captionScale = 2
)

var (
	skyTop      = color.RGBA{10, 15, 46, 255}
	starColor   = color.RGBA{220, 220, 255, 255}
	moonFill    = color.RGBA{235, 236, 240, 255}
	moonOutline = color.RGBA{200, 200, 210, 255}
	groundColor = color.RGBA{20, 20, 24, 255}
	bodyColor   = color.RGBA{230, 230, 235, 255}
	trimColor   = color.RGBA{240, 50, 60, 255}
	windowColor = color.RGBA{90, 140, 255, 255}
	flameColor  = color.RGBA{255, 170, 0, 255}
	textColor   = color.RGBA{255, 255, 255, 255}
)

type config struct {
	width, height int
}

// Option configures Rocket.
type Option func(*config)

// WithSize sets the canvas size. Values below the minimum fall back to the
// defaults.
func WithSize(width, height int) Option {
	return func(c *config) {
		if width >= minWidth && height >= minHeight {
			c.width, c.height = width, height
		}
	}
}

// Rocket draws a rocket climbing from the launch pad toward the moon.
// progress is clamped to [0, 1]; the same input always yields the same image.
func Rocket(progress float64, opts ...Option) *image.RGBA {
	cfg := config{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&cfg)
	}
	progress = clamp(progress)
	w, h := cfg.width, cfg.height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cv := newCanvas(img)

	for y := range h {
		shade := uint8(10 * y / h)
		c := color.RGBA{skyTop.R + shade, skyTop.G + shade, skyTop.B + shade, 255}
		cv.rect(image.Rect(0, y, w, y+1), c)
	}

	rng := rand.New(rand.NewSource(starSeed)) //nolint:gosec // decoration only
	for range starCount {
		img.SetRGBA(rng.Intn(w), rng.Intn(h), starColor)
	}

	cx := w / 2
	cv.circle(cx, moonY, moonRadius, moonOutline)
	cv.circle(cx, moonY, moonRadius-2, moonFill)

	cv.rect(image.Rect(0, h-groundH, w, h), groundColor)

	yBottom := h - groundH - padGap
	yTop := moonY + moonRadius + moonGap
	yPos := int(float64(yBottom) - float64(yBottom-yTop)*progress)

	top := yPos - bodyH/2
	left := cx - bodyW/2
	cv.roundedRect(image.Rect(left, top, left+bodyW, top+bodyH), bodyR, bodyColor)

	cv.polygon(trimColor,
		image.Pt(cx, top-noseH),
		image.Pt(left, top+8),
		image.Pt(left+bodyW, top+8),
	)
	cv.polygon(trimColor,
		image.Pt(left, top+70),
		image.Pt(left-finW, top+70+finH),
		image.Pt(left, top+90),
	)
	cv.polygon(trimColor,
		image.Pt(left+bodyW, top+70),
		image.Pt(left+bodyW+finW, top+70+finH),
		image.Pt(left+bodyW, top+90),
	)

	cv.circle(cx, top+40, windowR, windowColor)

	flameH := flameMin + int(flameAmp*math.Abs(math.Sin(progress*math.Pi*4)))
	base := top + bodyH + 10
	cv.polygon(flameColor,
		image.Pt(cx, base),
		image.Pt(cx-flameW/2, base+flameH),
		image.Pt(cx+flameW/2, base+flameH),
	)

	drawCaption(img, Caption(progress))
	return img
}

// Caption is the text drawn in the corner, e.g. "6% to goal".
func Caption(progress float64) string {
	return fmt.Sprintf("%d%% to goal", int(clamp(progress)*100))
}

func drawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	dst := image.Rect(captionX, captionY, captionX+width*captionScale, captionY+height*captionScale)
	xdraw.NearestNeighbor.Scale(img, dst, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
