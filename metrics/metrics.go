/*
Package metrics implements the image fidelity metrics reported by evaluation runs.

Both metrics are computed band-wise on values scaled to [0,255] and averaged over
the colour channels.
*/
package metrics

import (
	"math"

	"go-ml.dev/pkg/sirs/pix"
	"go-ml.dev/pkg/zorros/zorros"
	"gonum.org/v1/gonum/stat"
)

const (
	PSNR = "PSNR"
	SSIM = "SSIM"
)

// MaxPSNR is reported for identical images instead of +Inf
const MaxPSNR = 100.0

// DataRange is the dynamic range of the scaled pixel values
const DataRange = 255.0

/*
Result is a metric record, an empty Result means nothing was scored
*/
type Result map[string]float64

// Empty reports whether the record holds no metric
func (r Result) Empty() bool {
	return len(r) == 0
}

/*
QualityAssess compares an estimated image x against the reference y
*/
func QualityAssess(x, y *pix.Image) (Result, error) {
	if !x.SameSize(y) {
		return nil, zorros.Errorf("image sizes differ: %dx%d vs %dx%d", x.W, x.H, y.W, y.H)
	}
	a, b := x.Scaled(), y.Scaled()
	n := x.W * x.H
	var psnr, ssim [pix.Channels]float64
	for c := 0; c < pix.Channels; c++ {
		pa, pb := a[c*n:(c+1)*n], b[c*n:(c+1)*n]
		psnr[c] = planePSNR(pa, pb)
		ssim[c] = planeSSIM(pa, pb, x.W, x.H)
	}
	return Result{PSNR: stat.Mean(psnr[:], nil), SSIM: stat.Mean(ssim[:], nil)}, nil
}

func planePSNR(a, b []float64) float64 {
	var mse float64
	for i, v := range a {
		d := v - b[i]
		mse += d * d
	}
	mse /= float64(len(a))
	if mse == 0 {
		return MaxPSNR
	}
	return math.Min(MaxPSNR, 10*math.Log10(DataRange*DataRange/mse))
}
