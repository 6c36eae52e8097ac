package engine

import (
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/metrics"
)

/*
EvalSet is a benchmark evaluated after every epoch
*/
type EvalSet struct {
	data.Benchmark
	MaxSave int
}

/*
EvalAll evaluates the sets in order into the results directory of the current epoch
*/
func (e *Engine) EvalAll(sets []EvalSet, stamp string) (map[string]metrics.Result, error) {
	dir := e.ResultsDir(stamp)
	r := make(map[string]metrics.Result, len(sets))
	for _, s := range sets {
		res, err := e.Eval(s.Dataset, s.Name, dir, s.Suffix, s.MaxSave)
		if err != nil {
			return r, err
		}
		r[s.Name] = res
	}
	return r, nil
}

/*
Baseline evaluates the loaded weights before any training and checkpoints them
*/
func (e *Engine) Baseline(sets []EvalSet, stamp string) error {
	if _, err := e.EvalAll(sets, stamp); err != nil {
		return err
	}
	return e.SaveModel()
}

/*
Run trains until the engine reaches the given epoch, evaluating the sets and saving
the checkpoint after every pass. Results go to the directories of the run started at stamp.
*/
func (e *Engine) Run(train data.Dataset, sets []EvalSet, epochs int, stamp string) error {
	for e.State.Epoch < epochs {
		if _, err := e.Train(train); err != nil {
			return err
		}
		if _, err := e.EvalAll(sets, stamp); err != nil {
			return err
		}
		if err := e.SaveModel(); err != nil {
			return err
		}
	}
	return e.Finish()
}
