package pix

import (
	"image/draw"

	"go-ml.dev/pkg/sirs/fu"
	xdraw "golang.org/x/image/draw"
)

// SizeMultiple is the granularity used when size rounding is enabled
const SizeMultiple = 32

func (m *Image) Crop(x0, y0, w, h int) *Image {
	q := New(w, h)
	for c := 0; c < Channels; c++ {
		for y := 0; y < h; y++ {
			src := m.offset(c, x0, y0+y)
			copy(q.Pix[q.offset(c, 0, y):q.offset(c, 0, y)+w], m.Pix[src:src+w])
		}
	}
	return q
}

func (m *Image) FlipH() *Image {
	q := New(m.W, m.H)
	for c := 0; c < Channels; c++ {
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				q.Set(c, m.W-1-x, y, m.At(c, x, y))
			}
		}
	}
	return q
}

// Resize scales the image with Catmull-Rom interpolation
func (m *Image) Resize(w, h int) *Image {
	if w == m.W && h == m.H {
		return m.Clone()
	}
	src := m.NRGBA64()
	dst := newNRGBA64(w, h)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// RoundedSize rounds both dimensions down to a multiple of n, never below n
func RoundedSize(w, h, n int) (int, int) {
	return fu.Maxi(n, w/n*n), fu.Maxi(n, h/n*n)
}

// RoundSize resizes the image so both dimensions are multiples of SizeMultiple
func (m *Image) RoundSize() *Image {
	w, h := RoundedSize(m.W, m.H, SizeMultiple)
	if w == m.W && h == m.H {
		return m
	}
	return m.Resize(w, h)
}

// Sub returns clip(m - o)
func (m *Image) Sub(o *Image) *Image {
	q := New(m.W, m.H)
	for i, v := range m.Pix {
		q.Pix[i] = fu.Clamp01(v - o.Pix[i])
	}
	return q
}

// Blend returns clip(a*m + b*o)
func (m *Image) Blend(a float32, o *Image, b float32) *Image {
	q := New(m.W, m.H)
	for i, v := range m.Pix {
		q.Pix[i] = fu.Clamp01(a*v + b*o.Pix[i])
	}
	return q
}

// BoxBlur blurs every channel with a (2r+1)x(2r+1) box kernel clamped at the borders
func (m *Image) BoxBlur(r int) *Image {
	if r <= 0 {
		return m.Clone()
	}
	tmp := New(m.W, m.H)
	q := New(m.W, m.H)
	n := float32(2*r + 1)
	for c := 0; c < Channels; c++ {
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				var s float32
				for k := -r; k <= r; k++ {
					s += m.At(c, clampi(x+k, m.W), y)
				}
				tmp.Set(c, x, y, s/n)
			}
		}
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				var s float32
				for k := -r; k <= r; k++ {
					s += tmp.At(c, x, clampi(y+k, m.H))
				}
				q.Set(c, x, y, s/n)
			}
		}
	}
	return q
}

func clampi(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
