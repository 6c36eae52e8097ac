package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

/*
OptimizerState is the serializable state of the Adam optimizer
*/
type OptimizerState struct {
	Step     int
	LR       float64
	ExpAvg   Params
	ExpAvgSq Params
}

/*
Adam updates parameters in place, weight decay is applied as L2 penalty on gradients
*/
type Adam struct {
	LR          float64
	WeightDecay float64
	state       OptimizerState
}

func NewAdam(params Params, lr, wd float64) *Adam {
	return &Adam{
		LR:          lr,
		WeightDecay: wd,
		state:       OptimizerState{ExpAvg: params.Zeros(), ExpAvgSq: params.Zeros()},
	}
}

// Step performs one update of params with grads
func (a *Adam) Step(params, grads Params) {
	a.state.Step++
	t := float64(a.state.Step)
	bc1 := 1 - math.Pow(adamBeta1, t)
	bc2 := 1 - math.Pow(adamBeta2, t)
	for k, p := range params {
		g := grads[k].Data
		if a.WeightDecay != 0 {
			floats.AddScaled(g, a.WeightDecay, p.Data)
		}
		m := a.state.ExpAvg[k].Data
		v := a.state.ExpAvgSq[k].Data
		floats.Scale(adamBeta1, m)
		floats.AddScaled(m, 1-adamBeta1, g)
		for i, x := range g {
			v[i] = adamBeta2*v[i] + (1-adamBeta2)*x*x
			p.Data[i] -= a.LR * (m[i] / bc1) / (math.Sqrt(v[i]/bc2) + adamEps)
		}
	}
}

// State snapshots the optimizer
func (a *Adam) State() *OptimizerState {
	return &OptimizerState{
		Step:     a.state.Step,
		LR:       a.LR,
		ExpAvg:   a.state.ExpAvg.Clone(),
		ExpAvgSq: a.state.ExpAvgSq.Clone(),
	}
}

// Load restores a snapshot taken with State, the moments must match params
func (a *Adam) Load(s *OptimizerState, params Params) error {
	for _, m := range []Params{s.ExpAvg, s.ExpAvgSq} {
		if err := matchKeys(params, m, true); err != nil {
			return err
		}
	}
	a.state = OptimizerState{Step: s.Step, ExpAvg: s.ExpAvg.Clone(), ExpAvgSq: s.ExpAvgSq.Clone()}
	a.LR = s.LR
	return nil
}
