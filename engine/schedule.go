package engine

import (
	"math"

	"go-ml.dev/pkg/sirs/fu"
)

/*
Schedule gives the learning rate of an epoch
*/
type Schedule interface {
	LR(epoch int) float64
}

/*
Constant keeps the initial learning rate
*/
type Constant float64

func (c Constant) LR(int) float64 { return float64(c) }

/*
StepDecay multiplies the learning rate by Gamma every Step epochs
*/
type StepDecay struct {
	Base  float64
	Step  int
	Gamma float64
}

func (s StepDecay) LR(epoch int) float64 {
	return s.Base * math.Pow(s.Gamma, float64(epoch/fu.Maxi(s.Step, 1)))
}

var schedules = map[string]func(lr float64, step int, gamma float64) Schedule{
	"constant": func(lr float64, _ int, _ float64) Schedule { return Constant(lr) },
	"step":     func(lr float64, step int, gamma float64) Schedule { return StepDecay{lr, step, gamma} },
}

// NewSchedule selects a schedule by policy name
func NewSchedule(policy string, lr float64, step int, gamma float64) (Schedule, error) {
	f, ok := schedules[policy]
	if !ok {
		return nil, fu.ConfigErrorf("unknown lr policy %q", policy)
	}
	if policy == "step" && step <= 0 {
		return nil, fu.ConfigErrorf("lr policy step needs a positive step, got %d", step)
	}
	return f(lr, step, gamma), nil
}
