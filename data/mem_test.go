package data

import (
	"fmt"

	"go-ml.dev/pkg/sirs/pix"
	"go-ml.dev/pkg/zorros/zorros"
)

type memDataset struct {
	name    string
	n       int
	broken  map[int]bool
	aligned bool
}

func (d *memDataset) Name() string    { return d.name }
func (d *memDataset) Len() int        { return d.n }
func (d *memDataset) Aligned() bool   { return d.aligned }
func (d *memDataset) Synthetic() bool { return false }

func (d *memDataset) Get(i int) (*Sample, error) {
	if d.broken[i] {
		return nil, zorros.Errorf("%v[%d] is broken", d.name, i)
	}
	m := pix.New(2, 2)
	m.Pix[0] = float32(i)
	return &Sample{Input: m, TargetT: m, TargetR: pix.New(2, 2), Filename: fmt.Sprintf("%v/%d.png", d.name, i)}, nil
}
