package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
	"golang.org/x/image/draw"
)

var (
	overlayFill   = color.NRGBA{R: 255, A: 31}
	overlayStroke = color.NRGBA{R: 255, A: 255}
)

const overlayStrokeWidth = 3

// RenderMinimap draws src scaled to fit a w x h white frame, centered, and
// overlays crop as a translucent, stroked box in frame coordinates.
func RenderMinimap(src image.Image, crop *models.CropRect, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	if src != nil {
		b := src.Bounds()
		fit := FitContain(float64(b.Dx()), float64(b.Dy()), Box{W: float64(w), H: float64(h)})
		r := image.Rect(iround(fit.X), iround(fit.Y), iround(fit.X+fit.W), iround(fit.Y+fit.H))
		if !r.Empty() {
			draw.CatmullRom.Scale(dst, r, src, b, draw.Over, nil)
		}
	}

	if crop != nil && !crop.Empty() {
		c := crop.Normalized()
		fw, fh := float64(w), float64(h)
		r := image.Rect(iround(c.X*fw), iround(c.Y*fh), iround((c.X+c.W)*fw), iround((c.Y+c.H)*fh))
		r = r.Intersect(dst.Bounds())
		if !r.Empty() {
			draw.Draw(dst, r, image.NewUniform(overlayFill), image.Point{}, draw.Over)
			strokeRect(dst, r, overlayStrokeWidth, overlayStroke)
		}
	}
	return dst
}

// strokeRect paints a border of width sw just inside r.
func strokeRect(dst draw.Image, r image.Rectangle, sw int, c color.Color) {
	u := image.NewUniform(c)
	sw = min(sw, r.Dx(), r.Dy())
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+sw),
		image.Rect(r.Min.X, r.Max.Y-sw, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+sw, r.Max.Y),
		image.Rect(r.Max.X-sw, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, u, image.Point{}, draw.Src)
	}
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func iround(v float64) int {
	return int(math.Round(v))
}
