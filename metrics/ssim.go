package metrics

import (
	"math"
)

const (
	ssimWindow = 11
	ssimSigma  = 1.5
	ssimK1     = 0.01
	ssimK2     = 0.03
)

// windowSize is the largest odd window not exceeding the image
func windowSize(w, h int) int {
	k := ssimWindow
	for k > w || k > h {
		k -= 2
	}
	if k < 1 {
		k = 1
	}
	return k
}

func gaussianKernel(k int, sigma float64) []float64 {
	r := make([]float64, k)
	var s float64
	for i := range r {
		d := float64(i - k/2)
		r[i] = math.Exp(-d * d / (2 * sigma * sigma))
		s += r[i]
	}
	for i := range r {
		r[i] /= s
	}
	return r
}

// filterValid applies a separable kernel keeping only fully covered positions
func filterValid(p []float64, w, h int, g []float64) ([]float64, int, int) {
	k := len(g)
	ow, oh := w-k+1, h-k+1
	tmp := make([]float64, ow*h)
	for y := 0; y < h; y++ {
		row := p[y*w : (y+1)*w]
		for x := 0; x < ow; x++ {
			var s float64
			for i, c := range g {
				s += c * row[x+i]
			}
			tmp[y*ow+x] = s
		}
	}
	out := make([]float64, ow*oh)
	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			var s float64
			for i, c := range g {
				s += c * tmp[(y+i)*ow+x]
			}
			out[y*ow+x] = s
		}
	}
	return out, ow, oh
}

func product(a, b []float64) []float64 {
	r := make([]float64, len(a))
	for i, v := range a {
		r[i] = v * b[i]
	}
	return r
}

func planeSSIM(a, b []float64, w, h int) float64 {
	g := gaussianKernel(windowSize(w, h), ssimSigma)
	c1 := (ssimK1 * DataRange) * (ssimK1 * DataRange)
	c2 := (ssimK2 * DataRange) * (ssimK2 * DataRange)

	mu1, _, _ := filterValid(a, w, h, g)
	mu2, _, _ := filterValid(b, w, h, g)
	s11, _, _ := filterValid(product(a, a), w, h, g)
	s22, _, _ := filterValid(product(b, b), w, h, g)
	s12, _, _ := filterValid(product(a, b), w, h, g)

	var sum float64
	for i := range mu1 {
		m1, m2 := mu1[i], mu2[i]
		v1 := s11[i] - m1*m1
		v2 := s22[i] - m2*m2
		cv := s12[i] - m1*m2
		sum += ((2*m1*m2 + c1) * (2*cv + c2)) / ((m1*m1 + m2*m2 + c1) * (v1 + v2 + c2))
	}
	return sum / float64(len(mu1))
}
