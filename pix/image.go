/*
Package pix implements the float image representation used by datasets, models and exporters.
*/
package pix

import (
	"image"
	"image/color"

	"go-ml.dev/pkg/sirs/fu"
)

// Channels is the number of colour channels of every Image
const Channels = 3

/*
Image is an RGB image stored channel-major (CHW) with values in [0,1]
*/
type Image struct {
	W, H int
	Pix  []float32
}

// New allocates a black image
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]float32, Channels*w*h)}
}

func (m *Image) offset(c, x, y int) int {
	return (c*m.H+y)*m.W + x
}

func (m *Image) At(c, x, y int) float32 {
	return m.Pix[m.offset(c, x, y)]
}

func (m *Image) Set(c, x, y int, v float32) {
	m.Pix[m.offset(c, x, y)] = v
}

// Plane returns the slice holding channel c
func (m *Image) Plane(c int) []float32 {
	n := m.W * m.H
	return m.Pix[c*n : (c+1)*n]
}

func (m *Image) Clone() *Image {
	q := &Image{W: m.W, H: m.H, Pix: make([]float32, len(m.Pix))}
	copy(q.Pix, m.Pix)
	return q
}

func (m *Image) SameSize(o *Image) bool {
	return o != nil && m.W == o.W && m.H == o.H
}

// FromImage converts any decoded image into an Image dropping alpha
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			m.Set(0, x, y, float32(c.R)/0xffff)
			m.Set(1, x, y, float32(c.G)/0xffff)
			m.Set(2, x, y, float32(c.B)/0xffff)
		}
	}
	return m
}

// NRGBA quantizes the image to 8 bits, values are clipped and rounded
func (m *Image) NRGBA() *image.NRGBA {
	q := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			i := q.PixOffset(x, y)
			for c := 0; c < Channels; c++ {
				q.Pix[i+c] = uint8(fu.Clamp01(m.At(c, x, y))*255 + 0.5)
			}
			q.Pix[i+3] = 0xff
		}
	}
	return q
}

// NRGBA64 converts the image keeping 16 bits of precision
func (m *Image) NRGBA64() *image.NRGBA64 {
	q := image.NewNRGBA64(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			q.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(fu.Clamp01(m.At(0, x, y))*0xffff + 0.5),
				G: uint16(fu.Clamp01(m.At(1, x, y))*0xffff + 0.5),
				B: uint16(fu.Clamp01(m.At(2, x, y))*0xffff + 0.5),
				A: 0xffff,
			})
		}
	}
	return q
}

// Scaled returns the pixels multiplied by 255 as float64, the range metrics operate on
func (m *Image) Scaled() []float64 {
	r := make([]float64, len(m.Pix))
	for i, v := range m.Pix {
		r[i] = float64(fu.Clamp01(v)) * 255
	}
	return r
}
