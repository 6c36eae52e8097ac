package engine

import (
	"time"

	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/export"
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/ledger"
	"go-ml.dev/pkg/sirs/metrics"
	"go-ml.dev/pkg/sirs/model"
	"go-ml.dev/pkg/zorros/zorros"
	"go.uber.org/zap"
)

func (e *Engine) loader(ds data.Dataset) data.Loader {
	return data.Loader{
		Dataset:   ds,
		BatchSize: e.Options.BatchSize,
		Workers:   e.Options.Workers,
		Depth:     e.Options.Prefetch,
	}
}

// a batch is evaluated only when every sample is aligned with both targets
func stagingMode(b *data.Batch) model.Mode {
	for _, s := range b.Samples {
		if s.Unaligned || s.TargetT == nil || s.TargetR == nil {
			return model.Test
		}
	}
	return model.Eval
}

/*
Eval runs inference over the dataset. Aligned samples are scored and the mean PSNR and
SSIM are returned, an unaligned dataset gives the empty result. The predictions of the
first maxSave samples are exported under savedir/suffix, maxSave <= 0 exports all of
them, an empty savedir exports nothing. Every export is committed before Eval returns.
*/
func (e *Engine) Eval(ds data.Dataset, name, savedir, suffix string, maxSave int) (metrics.Result, error) {
	if err := e.State.transition(Evaluating); err != nil {
		return nil, err
	}
	layout := export.Layout{Dir: savedir, Suffix: suffix}
	w := export.NewWriter(fu.Fnzi(e.Options.Writers, 4))
	acc := metrics.Accumulator{}
	aligned := ds.Aligned()
	saved, failures := 0, 0

	it := e.loader(ds).Iterate(0)
	defer it.Close()
	for {
		b, ok := it.Next()
		if !ok {
			break
		}
		failures += len(b.Errors)
		for _, err := range b.Errors {
			e.Logger.Warn("skipped", zap.String("dataset", name), zap.Error(err))
		}
		if b.Len() == 0 {
			continue
		}
		if err := e.Model.SetInput(b, stagingMode(b)); err != nil {
			failures += b.Len()
			e.Logger.Warn("skipped batch", zap.String("dataset", name), zap.Error(err))
			continue
		}
		outs, err := e.Model.Forward()
		if err != nil {
			w.Wait()
			return nil, err
		}
		for i, s := range b.Samples {
			o := outs[i]
			if aligned && !s.Unaligned && s.TargetT != nil {
				r, err := metrics.QualityAssess(o.T, s.TargetT)
				if err != nil {
					failures++
					e.Logger.Warn("not scored", zap.String("file", s.Filename), zap.Error(err))
				} else {
					acc.Add(r)
				}
			}
			if savedir != "" && (maxSave <= 0 || saved < maxSave) {
				layout.Write(w, &export.Set{
					Name:     e.Options.Name,
					Filename: s.Filename,
					Index:    b.Index[i],
					Input:    s.Input,
					T:        o.T,
					R:        o.R,
					RR:       o.RRImage(),
					TargetT:  s.TargetT,
					TargetR:  s.TargetR,
				})
				saved++
			}
		}
	}
	if err := w.Wait(); err != nil {
		return nil, zorros.Wrapf(err, "failed to export %v: %v", name, err.Error())
	}

	e.State.Failures += failures
	res := acc.Mean()
	e.record(name, res, acc.Count(), saved, failures)
	return res, nil
}

func (e *Engine) record(name string, res metrics.Result, scored, saved, failures int) {
	fields := []zap.Field{
		zap.String("dataset", name),
		zap.Int("epoch", e.State.Epoch),
		zap.Int("scored", scored),
		zap.Int("saved", saved),
		zap.Int("failures", failures),
	}
	entry := ledger.Entry{
		Run:      e.Options.Name,
		Epoch:    e.State.Epoch,
		Dataset:  name,
		Scored:   scored,
		Saved:    saved,
		Failures: failures,
	}
	if !res.Empty() {
		psnr, ssim := res[metrics.PSNR], res[metrics.SSIM]
		entry.PSNR, entry.SSIM = &psnr, &ssim
		fields = append(fields, zap.Float64("psnr", psnr), zap.Float64("ssim", ssim))
	}
	e.Logger.Info("eval", fields...)
	if e.Ledger != nil {
		if err := e.Ledger.Record(entry); err != nil {
			e.Logger.Error("ledger", zap.Error(err))
		}
	}
}

/*
TestReport summarizes one test run
*/
type TestReport struct {
	Written  int // inputs decomposed and exported
	Skipped  int // inputs exported by a previous run
	Failures int
}

/*
Test decomposes the dataset into savedir without scoring. Inputs whose transmission
image exists already are skipped, so an interrupted run can be repeated.
*/
func (e *Engine) Test(ds data.Dataset, savedir string) (*TestReport, error) {
	if err := e.State.transition(Evaluating); err != nil {
		return nil, err
	}
	layout := export.Layout{Dir: savedir}
	name := e.Options.Name
	report := &TestReport{}

	pending := make([]int, 0, ds.Len())
	namer, named := ds.(data.Namer)
	for i := 0; i < ds.Len(); i++ {
		if named && layout.Exists(name, namer.Filename(i)) {
			report.Skipped++
			continue
		}
		pending = append(pending, i)
	}

	start := time.Now()
	w := export.NewWriter(fu.Fnzi(e.Options.Writers, 4))
	it := e.loader(data.Subset{Dataset: ds, Index: pending}).Iterate(0)
	defer it.Close()
	for {
		b, ok := it.Next()
		if !ok {
			break
		}
		report.Failures += len(b.Errors)
		for _, err := range b.Errors {
			e.Logger.Warn("skipped", zap.String("dataset", ds.Name()), zap.Error(err))
		}
		var todo []*data.Sample
		var index []int
		for j, s := range b.Samples {
			// dataset position numbers the outputs of samples without a filename
			pos := pending[b.Index[j]]
			if !named && layout.Exported(&export.Set{Name: name, Filename: s.Filename, Index: pos}) {
				report.Skipped++
				continue
			}
			todo = append(todo, s)
			index = append(index, pos)
		}
		if len(todo) == 0 {
			continue
		}
		if err := e.Model.SetInput(&data.Batch{Samples: todo}, model.Test); err != nil {
			report.Failures += len(todo)
			e.Logger.Warn("skipped batch", zap.String("dataset", ds.Name()), zap.Error(err))
			continue
		}
		outs, err := e.Model.Forward()
		if err != nil {
			w.Wait()
			return nil, err
		}
		for i, s := range todo {
			o := outs[i]
			layout.Write(w, &export.Set{
				Name:     name,
				Filename: s.Filename,
				Index:    index[i],
				Input:    s.Input,
				T:        o.T,
				R:        o.R,
				RR:       o.RRImage(),
			})
			report.Written++
		}
	}
	if err := w.Wait(); err != nil {
		return nil, zorros.Wrapf(err, "failed to export %v: %v", ds.Name(), err.Error())
	}
	e.State.Failures += report.Failures
	e.Logger.Info("test",
		zap.String("dataset", ds.Name()),
		zap.Int("written", report.Written),
		zap.Int("skipped", report.Skipped),
		zap.Int("failures", report.Failures),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}
