package model

import (
	"fmt"
	"strings"

	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/zorros/zorros"
)

type lossTerms struct {
	tPixel, rPixel, recons *float64
}

/*
OptimizeParameters performs exactly one gradient step on the staged training batch
*/
func (m *Model) OptimizeParameters() error {
	if m.optim == nil {
		return zorros.Errorf("model has no optimizer, it was created for inference")
	}
	if m.input == nil || m.input.Mode != Train {
		return zorros.Errorf("no training batch is staged")
	}
	params := m.network.Params()
	grads := params.Zeros()
	bs := len(m.input.Samples)
	b := float32(bs)
	lambda := float32(m.opt.LambdaRec)
	tp, rp, re := make([]float32, bs), make([]float32, bs), make([]float32, bs)
	for k, s := range m.input.Samples {
		out := m.network.Forward(s.Input)
		n := len(out.T.Pix)
		gT := make([]float32, n)
		gR := make([]float32, n)
		sum := make([]float32, n)
		for i := range sum {
			sum[i] = out.T.Pix[i] + out.R.Pix[i]
		}

		tp[k] = m.loss.Value(out.T.Pix, s.TargetT.Pix)
		rp[k] = m.loss.Value(out.R.Pix, s.TargetR.Pix)
		m.loss.Grad(out.T.Pix, s.TargetT.Pix, 1/b, gT)
		m.loss.Grad(out.R.Pix, s.TargetR.Pix, 1/b, gR)
		if lambda != 0 {
			re[k] = lambda * m.loss.Value(sum, s.Input.Pix)
			gS := make([]float32, n)
			m.loss.Grad(sum, s.Input.Pix, lambda/b, gS)
			for i, g := range gS {
				gT[i] += g
				gR[i] += g
			}
		}
		m.network.Backward(s.Input, gT, gR, grads)
	}
	m.optim.Step(params, grads)

	t, r, rec := float64(fu.Mean(tp)), float64(fu.Mean(rp)), float64(fu.Mean(re))
	m.terms = lossTerms{tPixel: &t, rPixel: &r, recons: &rec}
	return nil
}

/*
Term is one named scalar of the error report
*/
type Term struct {
	Name  string
	Value float64
}

/*
Errors is the ordered error report of the latest optimization step
*/
type Errors []Term

func (e Errors) Get(name string) (float64, bool) {
	for _, t := range e {
		if t.Name == name {
			return t.Value, true
		}
	}
	return 0, false
}

func (e Errors) String() string {
	s := make([]string, len(e))
	for i, t := range e {
		s[i] = fmt.Sprintf("%v: %.5g", t.Name, t.Value)
	}
	return strings.Join(s, " ")
}

/*
CurrentErrors reports the latest loss terms followed by the learning rate and the seed.
Before the first step only the bookkeeping fields are present.
*/
func (m *Model) CurrentErrors() Errors {
	var e Errors
	if m.terms.rPixel != nil {
		e = append(e, Term{"R_P", *m.terms.rPixel})
	}
	if m.terms.tPixel != nil {
		e = append(e, Term{"I_P", *m.terms.tPixel})
	}
	if m.terms.recons != nil {
		e = append(e, Term{"Re", *m.terms.recons})
	}
	return append(e, Term{"lr", m.LearningRate()}, Term{"seed", float64(m.opt.Seed)})
}
