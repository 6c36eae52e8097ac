package model

import (
	"sort"
)

/*
Tensor is a named network parameter
*/
type Tensor struct {
	Shape []int
	Data  []float64
}

func NewTensor(shape ...int) *Tensor {
	n := 1
	for _, x := range shape {
		n *= x
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: make([]float64, n)}
}

func (t *Tensor) Clone() *Tensor {
	return &Tensor{Shape: append([]int(nil), t.Shape...), Data: append([]float64(nil), t.Data...)}
}

// SameShape compares shapes element-wise
func (t *Tensor) SameShape(o *Tensor) bool {
	if len(t.Shape) != len(o.Shape) || len(t.Data) != len(o.Data) {
		return false
	}
	for i, x := range t.Shape {
		if o.Shape[i] != x {
			return false
		}
	}
	return true
}

/*
Params maps parameter names to tensors
*/
type Params map[string]*Tensor

// Names returns the sorted parameter names
func (p Params) Names() []string {
	r := make([]string, 0, len(p))
	for k := range p {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Clone deep copies every tensor
func (p Params) Clone() Params {
	r := make(Params, len(p))
	for k, v := range p {
		r[k] = v.Clone()
	}
	return r
}

// Zeros returns zero filled tensors of the same shapes
func (p Params) Zeros() Params {
	r := make(Params, len(p))
	for k, v := range p {
		r[k] = NewTensor(v.Shape...)
	}
	return r
}
