package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go-ml.dev/pkg/sirs/config"
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/engine"
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/model"
	"go.uber.org/zap"
)

func main() {
	opt := config.MustParse(os.Args[1:])
	logger := config.NewLogger(opt.Debug)
	defer logger.Sync()
	if err := test(opt, logger); err != nil {
		logger.Fatal("test failed", zap.Error(err))
	}
}

func test(opt config.Options, logger *zap.Logger) error {
	if opt.TestDir == "" {
		return fu.ConfigErrorf("test_dir is required")
	}
	if opt.WeightPath == "" && !opt.Resume {
		return fu.ConfigErrorf("weight_path is required for test")
	}
	mopt, err := opt.ModelOptions(false)
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
	ds, err := data.NewRealTest(opt.TestDir, data.Options{Size: opt.MaxDatasetSize, SizeRounded: opt.SizeRounded})
	if err != nil {
		return err
	}
	savedir := filepath.Join(opt.RunDir(), "test")
	r, err := e.Test(ds, savedir)
	if err != nil {
		return err
	}
	fmt.Printf("%v: written %d, skipped %d, failures %d\n", savedir, r.Written, r.Skipped, r.Failures)
	return e.Finish()
}
