package config

import (
	"path/filepath"
	"testing"

	"go-ml.dev/pkg/sirs/engine"
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/model"
	"golang.org/x/xerrors"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func Test_Default1(t *testing.T) {
	o, err := Parse(nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, o, Default())
	assert.NilError(t, o.Validate())
}

func Test_Precedence1(t *testing.T) {
	dir := fs.NewDir(t, "config", fs.WithFile("run.yaml", `
name: from_file
lr: 0.001
batch_size: 4
resume: true
`))
	defer dir.Remove()
	cfg := filepath.Join(dir.Path(), "run.yaml")

	o, err := Parse([]string{"--config", cfg, "--lr", "0.5", "--arch", "identity"})
	assert.NilError(t, err)
	assert.Assert(t, o.Name == "from_file")
	assert.Assert(t, o.BatchSize == 4 && o.Resume)
	assert.Assert(t, o.LR == 0.5)
	assert.Assert(t, o.Arch == "identity")
	assert.Assert(t, o.Epochs == Default().Epochs)

	o, err = Parse([]string{"--config=" + cfg})
	assert.NilError(t, err)
	assert.Assert(t, o.LR == 0.001)
}

func Test_BadFile1(t *testing.T) {
	dir := fs.NewDir(t, "config", fs.WithFile("bad.yaml", "no_such_option: 1\n"))
	defer dir.Remove()
	_, err := Parse([]string{"--config", filepath.Join(dir.Path(), "bad.yaml")})
	assert.Assert(t, xerrors.Is(err, fu.ErrConfig))
	_, err = Parse([]string{"--config", filepath.Join(dir.Path(), "missing.yaml")})
	assert.Assert(t, err != nil)
	// the value of --config is missing
	_, err = Parse([]string{"--config", "--lr", "0.5"})
	assert.Assert(t, err != nil)
}

func Test_RunDir1(t *testing.T) {
	o := Default()
	assert.Assert(t, o.RunDir() == filepath.Join("checkpoints", o.Name))
	o.WeightPath = "./w/run.ckpt"
	assert.Assert(t, o.ResolvedWeightPath() == "./w/run.ckpt")
	o.CheckpointsDir = "runs"
	assert.Assert(t, filepath.Base(filepath.Dir(o.RunDir())) == "runs")
}

func Test_Validate1(t *testing.T) {
	for i, f := range []func(*Options){
		func(o *Options) { o.Name = "" },
		func(o *Options) { o.BatchSize = 0 },
		func(o *Options) { o.LR = 0 },
		func(o *Options) { o.WD = -1 },
		func(o *Options) { o.Arch = "unet" },
		func(o *Options) { o.Loss = "vgg" },
		func(o *Options) { o.LRPolicy = "cosine" },
		func(o *Options) { o.NumTrain = -1 },
	} {
		o := Default()
		f(&o)
		assert.Assert(t, xerrors.Is(o.Validate(), fu.ErrConfig), "case %d", i)
	}
	_, err := Parse([]string{"--batch_size", "0"})
	assert.Assert(t, xerrors.Is(err, fu.ErrConfig))
}

func Test_Convert1(t *testing.T) {
	o := Default()
	o.CheckpointsDir = "/tmp/ckpt"
	o.WeightPath = "/tmp/w.ckpt"
	o.LRPolicy = "step"
	m, err := o.ModelOptions(true)
	assert.NilError(t, err)
	assert.Assert(t, m.Arch == model.ArchLinear && m.Loss == model.LossL1 && m.IsTrain)
	assert.Assert(t, m.LambdaRec == o.LambdaRec && m.Seed == o.Seed)

	e, err := o.EngineOptions()
	assert.NilError(t, err)
	assert.Assert(t, e.CheckpointDir == "/tmp/ckpt/sirs")
	assert.Assert(t, e.WeightPath == "/tmp/w.ckpt")
	assert.Assert(t, e.Workers == o.NThreads)
	_, ok := e.Schedule.(engine.StepDecay)
	assert.Assert(t, ok)

	s := o.TrainingSetup()
	assert.Assert(t, s.Base == o.BaseDir && s.CropSize == o.CropSize && s.Samples == 0)
}

func Test_Logger1(t *testing.T) {
	l := NewLogger(true)
	assert.Assert(t, l.Core().Enabled(-1))
	assert.Assert(t, !NewLogger(false).Core().Enabled(-1))
	o := Default()
	assert.Assert(t, o.Verbose() != nil)
	o.NoVerbose = true
	assert.Assert(t, o.Verbose() == nil)
}
