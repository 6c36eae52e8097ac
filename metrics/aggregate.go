package metrics

import (
	"gonum.org/v1/gonum/stat"
)

/*
Accumulator collects per-sample records and reports their mean
*/
type Accumulator struct {
	psnr, ssim []float64
}

// Add appends a record, empty records are ignored
func (a *Accumulator) Add(r Result) {
	if r.Empty() {
		return
	}
	a.psnr = append(a.psnr, r[PSNR])
	a.ssim = append(a.ssim, r[SSIM])
}

// Count is the number of scored samples
func (a *Accumulator) Count() int {
	return len(a.psnr)
}

// Mean returns the dataset mean or an empty record when nothing was scored
func (a *Accumulator) Mean() Result {
	if len(a.psnr) == 0 {
		return Result{}
	}
	return Result{PSNR: stat.Mean(a.psnr, nil), SSIM: stat.Mean(a.ssim, nil)}
}
