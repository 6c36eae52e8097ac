package model

import (
	"strings"

	"go-ml.dev/pkg/sirs/fu"
)

/*
Loss is a pixel loss with its gradient
*/
type Loss interface {
	Value(pred, target []float32) float32
	// Grad adds scale * dLoss/dpred to out
	Grad(pred, target []float32, scale float32, out []float32)
}

/*
LossKind enumerates the registered pixel losses
*/
type LossKind int

const (
	LossL1 LossKind = iota
	LossMSE
)

var lossNames = map[LossKind]string{
	LossL1:  "l1",
	LossMSE: "mse",
}

var losses = map[LossKind]func() Loss{
	LossL1:  func() Loss { return l1{} },
	LossMSE: func() Loss { return mse{} },
}

func (k LossKind) String() string {
	if s, ok := lossNames[k]; ok {
		return s
	}
	return "unknown"
}

func ParseLoss(s string) (LossKind, error) {
	for k, v := range lossNames {
		if v == strings.ToLower(s) {
			return k, nil
		}
	}
	return 0, fu.ConfigErrorf("unknown loss %q", s)
}

func NewLoss(k LossKind) (Loss, error) {
	f, ok := losses[k]
	if !ok {
		return nil, fu.ConfigErrorf("loss %d is not registered", int(k))
	}
	return f(), nil
}

type l1 struct{}

func (l1) Value(pred, target []float32) float32 { return fu.Mae(pred, target) }

func (l1) Grad(pred, target []float32, scale float32, out []float32) {
	s := scale / float32(len(pred))
	for i, p := range pred {
		switch d := p - target[i]; {
		case d > 0:
			out[i] += s
		case d < 0:
			out[i] -= s
		}
	}
}

type mse struct{}

func (mse) Value(pred, target []float32) float32 { return fu.Mse(pred, target) }

func (mse) Grad(pred, target []float32, scale float32, out []float32) {
	s := 2 * scale / float32(len(pred))
	for i, p := range pred {
		out[i] += s * (p - target[i])
	}
}
