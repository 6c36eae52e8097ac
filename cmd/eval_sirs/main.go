package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-ml.dev/pkg/sirs/config"
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/engine"
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/metrics"
	"go-ml.dev/pkg/sirs/model"
	"go.uber.org/zap"
)

func main() {
	opt := config.MustParse(os.Args[1:])
	logger := config.NewLogger(opt.Debug)
	defer logger.Sync()
	if err := eval(opt, logger); err != nil {
		logger.Fatal("evaluation failed", zap.Error(err))
	}
}

func eval(opt config.Options, logger *zap.Logger) error {
	if opt.WeightPath == "" && !opt.Resume {
		return fu.ConfigErrorf("weight_path is required for evaluation")
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

	benchmarks, err := data.OpenBenchmarks(opt.BaseDir, data.Options{Size: opt.MaxDatasetSize, SizeRounded: opt.SizeRounded}, opt.TestNature)
	if err != nil {
		return err
	}
	resultDir := filepath.Join(opt.RunDir(), fu.FormattedTime(time.Now()))
	results := make([]metrics.Result, len(benchmarks))
	for i, b := range benchmarks {
		if results[i], err = e.Eval(b.Dataset, b.Name, filepath.Join(resultDir, b.Suffix), "", 0); err != nil {
			return err
		}
		fmt.Println(b.Name, results[i])
	}

	fmt.Println(opt.Name)
	for _, r := range results {
		fmt.Printf("%.2f\n", r[metrics.PSNR])
		fmt.Printf("%.3f\n", r[metrics.SSIM])
	}
	return e.Finish()
}
