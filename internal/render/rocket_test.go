package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/okian/ignite/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	windowBlue  = color.RGBA{90, 140, 255, 255}
	hullGrey    = color.RGBA{230, 230, 235, 255}
	moonWhite   = color.RGBA{235, 236, 240, 255}
	moonOutline = color.RGBA{200, 200, 210, 255}
	groundDark  = color.RGBA{20, 20, 24, 255}
	white       = color.RGBA{255, 255, 255, 255}
)

// near allows for rounding in anti-aliased coverage.
func near(got, want color.RGBA) bool {
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return d(got.R, want.R) <= 2 && d(got.G, want.G) <= 2 && d(got.B, want.B) <= 2 && d(got.A, want.A) <= 2
}

func hasColor(img *image.RGBA, r image.Rectangle, c color.RGBA) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				return true
			}
		}
	}
	return false
}

func TestRocket(t *testing.T) {
	Convey("Given no progress", t, func() {
		img := render.Rocket(0)

		Convey("Then the canvas should have the default size", func() {
			So(img.Bounds().Dx(), ShouldEqual, render.DefaultWidth)
			So(img.Bounds().Dy(), ShouldEqual, render.DefaultHeight)
		})

		Convey("Then the rocket should sit on the launch pad", func() {
			So(near(img.RGBAAt(350, 670), windowBlue), ShouldBeTrue)
			So(near(img.RGBAAt(350, 730), hullGrey), ShouldBeTrue)
			So(near(img.RGBAAt(350, 160), windowBlue), ShouldBeFalse)
		})

		Convey("Then the scenery should be drawn", func() {
			So(near(img.RGBAAt(350, 100), moonWhite), ShouldBeTrue)
			So(near(img.RGBAAt(5, 895), groundDark), ShouldBeTrue)
		})

		Convey("Then curved edges should be anti-aliased", func() {
			// The moon's right edge runs through the middle of this pixel.
			edge := img.RGBAAt(350+70, 100)
			So(near(edge, moonOutline), ShouldBeFalse)
			So(edge.R, ShouldBeGreaterThan, 11)
		})

		Convey("Then the caption should be painted in the corner", func() {
			So(hasColor(img, image.Rect(20, 20, 200, 50), white), ShouldBeTrue)
		})
	})

	Convey("Given full progress", t, func() {
		img := render.Rocket(1)

		Convey("Then the rocket should be just below the moon", func() {
			So(near(img.RGBAAt(350, 160), windowBlue), ShouldBeTrue)
			So(near(img.RGBAAt(350, 670), windowBlue), ShouldBeFalse)
		})

		Convey("Then values above one should draw the same image", func() {
			So(bytes.Equal(render.Rocket(3.5).Pix, img.Pix), ShouldBeTrue)
		})
	})

	Convey("Given invalid progress values", t, func() {
		zero := render.Rocket(0)
		So(bytes.Equal(render.Rocket(-1).Pix, zero.Pix), ShouldBeTrue)
		So(bytes.Equal(render.Rocket(math.NaN()).Pix, zero.Pix), ShouldBeTrue)
	})

	Convey("Given the same progress twice", t, func() {
		So(bytes.Equal(render.Rocket(0.42).Pix, render.Rocket(0.42).Pix), ShouldBeTrue)
	})

	Convey("Given a custom size", t, func() {
		So(render.Rocket(0.5, render.WithSize(400, 600)).Bounds(), ShouldResemble, image.Rect(0, 0, 400, 600))

		Convey("Then sizes below the minimum should be ignored", func() {
			So(render.Rocket(0.5, render.WithSize(10, 10)).Bounds().Dx(), ShouldEqual, render.DefaultWidth)
		})
	})
}

func TestCaption(t *testing.T) {
	Convey("Captions should truncate to whole percent", t, func() {
		So(render.Caption(4.0/60.0), ShouldEqual, "6% to goal")
		So(render.Caption(1), ShouldEqual, "100% to goal")
		So(render.Caption(7), ShouldEqual, "100% to goal")
		So(render.Caption(0), ShouldEqual, "0% to goal")
	})
}

func TestWritePNG(t *testing.T) {
	Convey("Given a rendered rocket", t, func() {
		var buf bytes.Buffer
		So(render.WritePNG(&buf, render.Rocket(0.25)), ShouldBeNil)

		Convey("Then it should decode as a PNG of the same size", func() {
			decoded, err := png.Decode(&buf)
			So(err, ShouldBeNil)
			So(decoded.Bounds().Dx(), ShouldEqual, render.DefaultWidth)
		})
	})
}
