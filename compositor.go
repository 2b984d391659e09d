package instafader

import (
	"image"
	"image/color"

	"github.com/setanarut/instafader/skinini"
	"github.com/setanarut/instafader/utils"
	"golang.org/x/image/draw"
)

// Scale factors applied to the circle and overlay before merging.
const (
	DefaultScale  = 1.25
	MismatchScale = 2.5
)

// ResizeFactor returns the scale for an element at resolution highRes
// whose partner element has resolution otherHighRes. An SD element paired
// with an HD one is scaled twice as much so both end up the same size.
func ResizeFactor(highRes, otherHighRes bool) float64 {
	if !highRes && otherHighRes {
		return MismatchScale
	}
	return DefaultScale
}

// Tint multiplies every pixel of mask by c, channel by channel. Alpha is
// left as is.
func Tint(mask image.Image, c skinini.Color) *image.NRGBA {
	src := utils.ToNRGBA(mask)
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := src.NRGBAAt(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: mul255(p.R, c.R),
				G: mul255(p.G, c.G),
				B: mul255(p.B, c.B),
				A: p.A,
			})
		}
	}
	return out
}

func mul255(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 127) / 255)
}

// Composite lays overlay over base, both centered on a canvas the size of
// the larger of the two. The larger one is decided by width, then height.
func Composite(base, overlay *image.NRGBA) *image.NRGBA {
	bs, vs := base.Bounds().Size(), overlay.Bounds().Size()
	size := bs
	if larger(vs, bs) {
		size = vs
	}
	canvas := image.NewNRGBA(image.Rectangle{Max: size})
	draw.Copy(canvas, centered(size, bs), base, base.Bounds(), draw.Src, nil)
	draw.Copy(canvas, centered(size, vs), overlay, overlay.Bounds(), draw.Over, nil)
	return canvas
}

// OverlayNumber draws number centered over circle. The canvas grows to the
// number's size if the glyph, as stored, is the larger image. When the
// number is SD and the circle HD, the number is then doubled before it is
// placed, and cropped if it overflows the canvas.
func OverlayNumber(circle, number *image.NRGBA, numberHighRes, circleHighRes bool) *image.NRGBA {
	cs, ns := circle.Bounds().Size(), number.Bounds().Size()
	size := cs
	if larger(ns, cs) {
		size = ns
	}
	canvas := image.NewNRGBA(image.Rectangle{Max: size})
	draw.Copy(canvas, centered(size, cs), circle, circle.Bounds(), draw.Src, nil)

	if !numberHighRes && circleHighRes {
		number = Resize(number, 2)
		ns = number.Bounds().Size()
	}
	draw.Copy(canvas, centered(size, ns), number, number.Bounds(), draw.Over, nil)
	return canvas
}

// Thumbnail fits img into a size×size transparent square, keeping its
// aspect ratio.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	size = max(size, 1)
	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	sr := img.Bounds()
	if sr.Empty() {
		return out
	}
	w, h := size, size
	if sr.Dx() > sr.Dy() {
		h = max(size*sr.Dy()/sr.Dx(), 1)
	} else {
		w = max(size*sr.Dx()/sr.Dy(), 1)
	}
	off := centered(image.Pt(size, size), image.Pt(w, h))
	draw.CatmullRom.Scale(out, image.Rectangle{Min: off, Max: off.Add(image.Pt(w, h))}, img, sr, draw.Over, nil)
	return out
}

func larger(a, b image.Point) bool {
	return a.X > b.X || (a.X == b.X && a.Y > b.Y)
}

// centered returns the offset placing inner in the middle of outer. It is
// negative when inner is the bigger one.
func centered(outer, inner image.Point) image.Point {
	return image.Pt(floorHalf(outer.X-inner.X), floorHalf(outer.Y-inner.Y))
}

func floorHalf(n int) int {
	return n >> 1
}
