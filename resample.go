package instafader

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
)

const lanczosSupport = 3.0

// Resize scales img by scale with a Lanczos-3 filter. Each dimension
// becomes int(size*scale), at least 1.
//
// The filter is separable, so every premultiplied channel C is resampled
// as Wy·C·Wxᵀ where Wx and Wy hold the normalized filter taps.
func Resize(img *image.NRGBA, scale float64) *image.NRGBA {
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	dw := max(int(float64(sw)*scale), 1)
	dh := max(int(float64(sh)*scale), 1)
	if sw == 0 || sh == 0 {
		return image.NewNRGBA(image.Rect(0, 0, dw, dh))
	}

	var ch [4]*mat.Dense
	for c := range ch {
		ch[c] = mat.NewDense(sh, sw, nil)
	}
	for y := range sh {
		for x := range sw {
			p := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			a := float64(p.A) / 255
			ch[0].Set(y, x, float64(p.R)*a)
			ch[1].Set(y, x, float64(p.G)*a)
			ch[2].Set(y, x, float64(p.B)*a)
			ch[3].Set(y, x, float64(p.A))
		}
	}

	wx := lanczosWeights(sw, dw)
	wy := lanczosWeights(sh, dh)
	var res [4]mat.Dense
	for c := range ch {
		var tmp mat.Dense
		tmp.Mul(wy, ch[c])
		res[c].Mul(&tmp, wx.T())
	}

	out := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := range dh {
		for x := range dw {
			a := clamp255(res[3].At(y, x))
			if a < 0.5 {
				continue
			}
			k := 255 / a
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(math.Round(clamp255(res[0].At(y, x) * k))),
				G: uint8(math.Round(clamp255(res[1].At(y, x) * k))),
				B: uint8(math.Round(clamp255(res[2].At(y, x) * k))),
				A: uint8(math.Round(a)),
			})
		}
	}
	return out
}

// lanczosWeights returns the dst×src matrix mapping src samples onto dst
// samples. When shrinking, the kernel is stretched by the scale ratio so
// every source sample contributes.
func lanczosWeights(src, dst int) *mat.Dense {
	w := mat.NewDense(dst, src, nil)
	raw := w.RawMatrix()
	ratio := float64(src) / float64(dst)
	fscale := max(ratio, 1)
	support := lanczosSupport * fscale
	for i := range dst {
		center := (float64(i) + 0.5) * ratio
		lo := max(int(center-support+0.5), 0)
		hi := min(int(center+support+0.5), src)
		row := raw.Data[i*raw.Stride : i*raw.Stride+src]
		sum := 0.0
		for j := lo; j < hi; j++ {
			row[j] = lanczos((float64(j) - center + 0.5) / fscale)
			sum += row[j]
		}
		if sum == 0 {
			continue
		}
		for j := lo; j < hi; j++ {
			row[j] /= sum
		}
	}
	return w
}

func lanczos(x float64) float64 {
	if x <= -lanczosSupport || x >= lanczosSupport {
		return 0
	}
	return sinc(x) * sinc(x/lanczosSupport)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

func clamp255(v float64) float64 {
	return min(max(v, 0), 255)
}
