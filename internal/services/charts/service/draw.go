package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	face    = basicfont.Face7x13
	ink     = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	paper   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	outline = color.RGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}
)

// palettes, viridis and magma samples
var (
	viridis = hexColors("440154", "3b528b", "21918c", "5ec962", "fde725", "31688e", "35b779", "90d743")
	magma   = hexColors("51127c", "b73779", "fc8961", "fcfdbf", "000004", "2c115f", "de4968", "feb078")
	pieCols = hexColors("c2c2f0", "ffb3e6", "99ff99", "ffcc99")
	purple  = drawing.ColorFromHex("800080")
)

func hexColors(hex ...string) []drawing.Color {
	out := make([]drawing.Color, len(hex))
	for i, h := range hex {
		out[i] = drawing.ColorFromHex(h)
	}
	return out
}

func pick(p []drawing.Color, i int) drawing.Color { return p[i%len(p)] }

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// renderPNG renders a go-chart renderable into a decoded image
func renderPNG(c renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// hstack places images left to right on a white canvas, top aligned
func hstack(imgs ...image.Image) *image.RGBA {
	w, h := 0, 0
	for _, im := range imgs {
		w += im.Bounds().Dx()
		h = max(h, im.Bounds().Dy())
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)
	x := 0
	for _, im := range imgs {
		b := im.Bounds()
		draw.Draw(dst, image.Rect(x, 0, x+b.Dx(), b.Dy()), im, b.Min, draw.Over)
		x += b.Dx()
	}
	return dst
}

func lineHeight() int { return face.Metrics().Height.Ceil() + 2 }

func textWidth(s string) int { return font.MeasureString(face, s).Ceil() }

func drawText(dst draw.Image, x, baseline int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, baseline)}
	d.DrawString(s)
}

// scaleUp enlarges src by an integer factor with nearest-neighbour sampling,
// which keeps the bitmap font crisp
func scaleUp(src image.Image, k int) image.Image {
	if k <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*k, b.Dy()*k))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// textBlock draws a bold-looking title and a monospace body onto a white card
func textBlock(title, body string, pad int) *image.RGBA {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	w := textWidth(title)
	for _, l := range lines {
		w = max(w, textWidth(l))
	}
	lh := lineHeight()
	h := pad + lh*2 + lh*len(lines) + pad

	img := image.NewRGBA(image.Rect(0, 0, w+2*pad, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)

	y := pad + face.Metrics().Ascent.Ceil()
	// overstrike one pixel right for a heavier title
	drawText(img, pad, y, title, ink)
	drawText(img, pad+1, y, title, ink)
	y += lh * 2
	for _, l := range lines {
		drawText(img, pad, y, l, ink)
		y += lh
	}
	return img
}

type legendEntry struct {
	label string
	col   drawing.Color
}

// legend renders a boxed key of colour swatches and labels
func legend(title string, entries []legendEntry) *image.RGBA {
	const pad, sw = 6, 10
	lh := lineHeight()
	w := textWidth(title)
	for _, e := range entries {
		w = max(w, sw+6+textWidth(e.label))
	}
	h := pad + lh*(len(entries)+1) + pad

	img := image.NewRGBA(image.Rect(0, 0, w+2*pad, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(outline), image.Point{}, draw.Src)
	draw.Draw(img, img.Bounds().Inset(1), image.NewUniform(paper), image.Point{}, draw.Src)

	asc := face.Metrics().Ascent.Ceil()
	y := pad
	drawText(img, pad, y+asc, title, ink)
	y += lh
	for _, e := range entries {
		draw.Draw(img, image.Rect(pad, y+2, pad+sw, y+2+sw), image.NewUniform(e.col), image.Point{}, draw.Src)
		drawText(img, pad+sw+6, y+asc, e.label, ink)
		y += lh
	}
	return img
}

// overlay draws src onto dst with its top-right corner at (right, top)
func overlay(dst *image.RGBA, src image.Image, right, top int) {
	b := src.Bounds()
	x0 := max(0, right-b.Dx())
	draw.Draw(dst, image.Rect(x0, top, x0+b.Dx(), top+b.Dy()), src, b.Min, draw.Over)
}
