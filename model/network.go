package model

import (
	"strings"

	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/pix"
)

/*
Output is the decomposition of one blended image.
RR is the residual x - T - R in [-1,1].
*/
type Output struct {
	T, R, RR *pix.Image
}

// RRImage maps the residual into [0,1] for export
func (o Output) RRImage() *pix.Image {
	q := pix.New(o.RR.W, o.RR.H)
	for i, v := range o.RR.Pix {
		q.Pix[i] = fu.Clamp01((v + 1) / 2)
	}
	return q
}

/*
Network is a replaceable decomposition network
*/
type Network interface {
	// Params exposes the trainable tensors, updates are visible to Forward
	Params() Params
	Forward(x *pix.Image) Output
	// Backward accumulates into grads the gradients of the loss given the
	// gradients with respect to the T and R outputs
	Backward(x *pix.Image, gradT, gradR []float32, grads Params)
}

/*
Arch enumerates the registered networks
*/
type Arch int

const (
	ArchLinear Arch = iota
	ArchIdentity
)

var archNames = map[Arch]string{
	ArchLinear:   "linear",
	ArchIdentity: "identity",
}

var networks = map[Arch]func() Network{
	ArchLinear:   func() Network { return newLinear() },
	ArchIdentity: func() Network { return identity{} },
}

func (a Arch) String() string {
	if s, ok := archNames[a]; ok {
		return s
	}
	return "unknown"
}

// ParseArch maps a configuration value to a registered network
func ParseArch(s string) (Arch, error) {
	for k, v := range archNames {
		if v == strings.ToLower(s) {
			return k, nil
		}
	}
	return 0, fu.ConfigErrorf("unknown network architecture %q", s)
}

// NewNetwork instantiates the registered network
func NewNetwork(a Arch) (Network, error) {
	f, ok := networks[a]
	if !ok {
		return nil, fu.ConfigErrorf("network architecture %d is not registered", int(a))
	}
	return f(), nil
}

/*
linear mixes the colour channels of every pixel independently:
T = Wt x + bt, R = Wr x + br
*/
type linear struct {
	params Params
}

func newLinear() *linear {
	p := Params{
		"t.weight": NewTensor(pix.Channels, pix.Channels),
		"t.bias":   NewTensor(pix.Channels),
		"r.weight": NewTensor(pix.Channels, pix.Channels),
		"r.bias":   NewTensor(pix.Channels),
	}
	for c := 0; c < pix.Channels; c++ {
		p["t.weight"].Data[c*pix.Channels+c] = 0.9
		p["r.weight"].Data[c*pix.Channels+c] = 0.1
	}
	return &linear{params: p}
}

func (l *linear) Params() Params { return l.params }

func mix(w, b *Tensor, x *pix.Image) *pix.Image {
	q := pix.New(x.W, x.H)
	n := x.W * x.H
	for c := 0; c < pix.Channels; c++ {
		dst := q.Plane(c)
		for k := 0; k < pix.Channels; k++ {
			wk := float32(w.Data[c*pix.Channels+k])
			src := x.Plane(k)
			for i := 0; i < n; i++ {
				dst[i] += wk * src[i]
			}
		}
		bc := float32(b.Data[c])
		for i := 0; i < n; i++ {
			dst[i] += bc
		}
	}
	return q
}

func residual(x, t, r *pix.Image) *pix.Image {
	q := pix.New(x.W, x.H)
	for i, v := range x.Pix {
		q.Pix[i] = v - t.Pix[i] - r.Pix[i]
	}
	return q
}

func (l *linear) Forward(x *pix.Image) Output {
	t := mix(l.params["t.weight"], l.params["t.bias"], x)
	r := mix(l.params["r.weight"], l.params["r.bias"], x)
	return Output{T: t, R: r, RR: residual(x, t, r)}
}

func backMix(w, b *Tensor, x *pix.Image, grad []float32) {
	n := x.W * x.H
	for c := 0; c < pix.Channels; c++ {
		g := grad[c*n : (c+1)*n]
		var gb float64
		for _, v := range g {
			gb += float64(v)
		}
		b.Data[c] += gb
		for k := 0; k < pix.Channels; k++ {
			src := x.Plane(k)
			var gw float64
			for i, v := range g {
				gw += float64(v) * float64(src[i])
			}
			w.Data[c*pix.Channels+k] += gw
		}
	}
}

func (l *linear) Backward(x *pix.Image, gradT, gradR []float32, grads Params) {
	backMix(grads["t.weight"], grads["t.bias"], x, gradT)
	backMix(grads["r.weight"], grads["r.bias"], x, gradR)
}

/*
identity passes the blended image through as transmission, it has no parameters
*/
type identity struct{}

func (identity) Params() Params { return Params{} }

func (identity) Forward(x *pix.Image) Output {
	t := x.Clone()
	r := pix.New(x.W, x.H)
	return Output{T: t, R: r, RR: residual(x, t, r)}
}

func (identity) Backward(*pix.Image, []float32, []float32, Params) {}
