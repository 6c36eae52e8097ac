package main

import (
	"os"
	"path/filepath"
	"time"

	"go-ml.dev/pkg/sirs/config"
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/engine"
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/ledger"
	"go-ml.dev/pkg/sirs/model"
	"go.uber.org/zap"
)

func main() {
	opt := config.MustParse(os.Args[1:])
	logger := config.NewLogger(opt.Debug)
	defer logger.Sync()
	if err := train(opt, logger); err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}
}

func train(opt config.Options, logger *zap.Logger) error {
	mopt, err := opt.ModelOptions(true)
	if err != nil {
		return err
	}
	m, err := model.New(mopt)
	if err != nil {
		return err
	}
	eopt, err := opt.EngineOptions()
	if err != nil {
		return err
	}
	e, err := engine.New(m, eopt, logger)
	if err != nil {
		return err
	}
	e.Verbose = opt.Verbose()

	if err = os.MkdirAll(opt.RunDir(), 0755); err != nil {
		return err
	}
	lg, err := ledger.Open(filepath.Join(opt.RunDir(), "ledger.db"))
	if err != nil {
		return err
	}
	defer lg.Close()
	e.Ledger = lg

	stream, err := data.OpenTraining(opt.TrainingSetup())
	if err != nil {
		return err
	}
	logger.Info("training stream", zap.Int("samples", stream.Len()), zap.Int64("seed", opt.Seed))
	benchmarks, err := data.OpenBenchmarks(opt.BaseDir, data.Options{Size: opt.MaxDatasetSize, SizeRounded: true}, true)
	if err != nil {
		return err
	}
	sets := make([]engine.EvalSet, len(benchmarks))
	for i, b := range benchmarks {
		sets[i] = engine.EvalSet{Benchmark: b, MaxSave: opt.MaxSaveSize}
	}

	stamp := fu.FormattedTime(time.Now())
	if opt.Resume || opt.DebugEval {
		if err = e.Baseline(sets, stamp); err != nil {
			return err
		}
	}
	return e.Run(stream, sets, opt.Epochs, stamp)
}
