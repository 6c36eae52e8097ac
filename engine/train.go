package engine

import (
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/model"
	"go-ml.dev/pkg/zorros/zorros"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

/*
TrainReport summarizes one training pass
*/
type TrainReport struct {
	Epoch    int          // the epoch the pass was trained as
	Steps    int          // optimization steps performed
	Failures int          // samples or batches skipped
	Errors   model.Errors // loss terms of the last step
	Err      error        // every skipped failure combined
}

/*
Train runs one full pass over the dataset with one optimization step per batch.
Samples which fail to load and batches which fail to stage are skipped and
reported, they do not abort the pass.
*/
func (e *Engine) Train(ds data.Dataset) (*TrainReport, error) {
	if !e.Model.Trainable() {
		return nil, zorros.Errorf("model was created for inference and can't be trained")
	}
	if err := e.State.transition(Training); err != nil {
		return nil, err
	}
	epoch := e.State.Epoch
	lr := e.Options.Schedule.LR(epoch)
	e.Model.SetLearningRate(lr)
	if r, ok := ds.(data.Reshuffler); ok {
		r.Reshuffle(epoch)
	}

	loader := data.Loader{
		Dataset:   ds,
		BatchSize: e.Options.BatchSize,
		Workers:   e.Options.Workers,
		Depth:     e.Options.Prefetch,
		Shuffle:   true,
		Seed:      e.Options.Seed,
	}
	it := loader.Iterate(epoch)
	defer it.Close()

	report := &TrainReport{Epoch: epoch}
	fail := func(n int, err error) {
		report.Failures += n
		report.Err = multierr.Append(report.Err, err)
		e.Logger.Warn("skipped", zap.Int("epoch", epoch), zap.Int("count", n), zap.Error(err))
	}
	freq := e.printFreq()
	for {
		b, ok := it.Next()
		if !ok {
			break
		}
		for _, err := range b.Errors {
			fail(1, err)
		}
		if b.Len() == 0 {
			continue
		}
		if err := e.Model.SetInput(b, model.Train); err != nil {
			fail(b.Len(), err)
			continue
		}
		if err := e.Model.OptimizeParameters(); err != nil {
			fail(b.Len(), err)
			continue
		}
		e.State.Iterations++
		report.Steps++
		if e.State.Iterations%freq == 0 {
			e.Logger.Info("train",
				zap.Int("epoch", epoch),
				zap.Int("iterations", e.State.Iterations),
				zap.String("errors", e.Model.CurrentErrors().String()))
		}
	}

	e.State.Epoch++
	e.State.Failures += report.Failures
	report.Errors = e.Model.CurrentErrors()
	e.verbose("[%3d] %v, failures: %d", epoch, report.Errors, report.Failures)
	return report, nil
}
