/*
Package config collects the options of the training and evaluation programs.

Options are taken from the defaults, then from the YAML file given by --config,
then from the command line, the later source wins.
*/
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/engine"
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/model"
	"go-ml.dev/pkg/zorros/zorros"
	"gopkg.in/yaml.v2"
)

/*
Options is the whole configuration surface of a run
*/
type Options struct {
	Config string `arg:"--config" yaml:"-" help:"YAML file with options"`

	BaseDir        string `arg:"--base_dir" yaml:"base_dir" help:"root of the train/ and test/ data"`
	TestDir        string `arg:"--test_dir" yaml:"test_dir" help:"flat directory of photographs to decompose"`
	SynList        string `arg:"--syn_list" yaml:"syn_list" help:"file naming the synthetic training images"`
	WeightPath     string `arg:"--weight_path" yaml:"weight_path" help:"checkpoint to load, a bare name is looked up in the cache directory"`
	CheckpointsDir string `arg:"--checkpoints_dir" yaml:"checkpoints_dir" help:"root of the run directories, a bare name is kept in the cache directory"`
	Name           string `arg:"--name" yaml:"name" help:"run name"`

	BatchSize   int  `arg:"--batch_size" yaml:"batch_size"`
	NThreads    int  `arg:"--n_threads" yaml:"n_threads" help:"concurrent image decoders"`
	Prefetch    int  `arg:"--prefetch" yaml:"prefetch" help:"decoded batches queued ahead"`
	SizeRounded bool `arg:"--size_rounded" yaml:"size_rounded" help:"round evaluation images to a multiple of 32"`
	CropSize    int  `arg:"--crop_size" yaml:"crop_size" help:"training crop, 0 disables cropping"`

	LR        float64 `arg:"--lr" yaml:"lr"`
	WD        float64 `arg:"--wd" yaml:"wd"`
	LambdaVGG float64 `arg:"--lambda_vgg" yaml:"lambda_vgg"`
	LambdaRec float64 `arg:"--lambda_rec" yaml:"lambda_rec"`
	Arch      string  `arg:"--arch" yaml:"arch"`
	Loss      string  `arg:"--loss" yaml:"loss"`
	LRPolicy  string  `arg:"--lr_policy" yaml:"lr_policy" help:"constant or step"`
	LRStep    int     `arg:"--lr_step" yaml:"lr_step"`
	LRGamma   float64 `arg:"--lr_gamma" yaml:"lr_gamma"`

	Epochs         int `arg:"--epochs" yaml:"epochs"`
	NumTrain       int `arg:"--num_train" yaml:"num_train" help:"fused samples per epoch, 0 means 5000"`
	MaxDatasetSize int `arg:"--max_dataset_size" yaml:"max_dataset_size" help:"cap of every dataset, 0 means no cap"`
	MaxSaveSize    int `arg:"--max_save_size" yaml:"max_save_size" help:"exported samples per evaluation, 0 means all"`
	SaveEpochFreq  int `arg:"--save_epoch_freq" yaml:"save_epoch_freq"`
	PrintFreq      int `arg:"--print_freq" yaml:"print_freq"`

	Resume     bool  `arg:"--resume" yaml:"resume"`
	Debug      bool  `arg:"--debug" yaml:"debug"`
	DebugEval  bool  `arg:"--debug_eval" yaml:"debug_eval"`
	TestNature bool  `arg:"--test_nature" yaml:"test_nature"`
	Seed       int64 `arg:"--seed" yaml:"seed"`
	NoVerbose  bool  `arg:"--no_verbose" yaml:"no_verbose" help:"no per-epoch progress lines"`
}

// Default returns the options of the reference training setting
func Default() Options {
	return Options{
		BaseDir:        "./datasets",
		CheckpointsDir: "./checkpoints",
		Name:           "sirs",
		BatchSize:      1,
		NThreads:       8,
		Prefetch:       32,
		CropSize:       224,
		LR:             1e-4,
		LambdaVGG:      0.01,
		LambdaRec:      0.2,
		Arch:           "linear",
		Loss:           "l1",
		LRPolicy:       "constant",
		LRStep:         10,
		LRGamma:        0.5,
		Epochs:         50,
		MaxSaveSize:    10,
		SaveEpochFreq:  1,
		PrintFreq:      100,
		Seed:           2018,
	}
}

// LoadFile overrides the options present in the YAML file
func (o *Options) LoadFile(path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return zorros.Trace(err)
	}
	if err = yaml.UnmarshalStrict(b, o); err != nil {
		return fu.ConfigErrorf("%v: %v", path, err)
	}
	return nil
}

/*
Parse builds the options from the defaults, the --config file and the arguments.
The arguments are parsed twice, the first pass only finds the config file.
*/
func Parse(args []string) (Options, error) {
	o := Default()
	first := struct {
		Config string `arg:"--config"`
	}{}
	p, err := arg.NewParser(arg.Config{}, &first)
	if err != nil {
		return o, zorros.Trace(err)
	}
	// everything but --config is unknown to the first pass
	if err = p.Parse(configArgs(args)); err != nil && err != arg.ErrHelp {
		return o, err
	}
	if first.Config != "" {
		if err = o.LoadFile(first.Config); err != nil {
			return o, err
		}
	}
	if p, err = arg.NewParser(arg.Config{}, &o); err != nil {
		return o, zorros.Trace(err)
	}
	if err = p.Parse(args); err != nil {
		return o, err
	}
	return o, o.Validate()
}

func configArgs(args []string) []string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i : i+2]
		}
		if len(a) > 9 && a[:9] == "--config=" {
			return args[i : i+1]
		}
	}
	return nil
}

/*
MustParse parses the process arguments the way arg.MustParse does, printing the usage
and exiting on a bad command line
*/
func MustParse(args []string) Options {
	o, err := Parse(args)
	if err != nil {
		p, _ := arg.NewParser(arg.Config{}, &o)
		if err == arg.ErrHelp {
			p.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		p.Fail(err.Error())
	}
	return o
}

// Validate rejects options no run can use
func (o Options) Validate() error {
	switch {
	case o.Name == "":
		return fu.ConfigErrorf("empty run name")
	case o.BatchSize <= 0:
		return fu.ConfigErrorf("batch_size must be positive, got %d", o.BatchSize)
	case o.NThreads < 0 || o.Prefetch < 0:
		return fu.ConfigErrorf("n_threads and prefetch can't be negative")
	case o.LR <= 0:
		return fu.ConfigErrorf("lr must be positive, got %v", o.LR)
	case o.WD < 0 || o.LambdaRec < 0 || o.LambdaVGG < 0:
		return fu.ConfigErrorf("wd and loss weights can't be negative")
	case o.Epochs < 0 || o.NumTrain < 0 || o.MaxDatasetSize < 0:
		return fu.ConfigErrorf("epochs, num_train and max_dataset_size can't be negative")
	case o.CropSize < 0:
		return fu.ConfigErrorf("crop_size can't be negative, got %d", o.CropSize)
	}
	if _, err := model.ParseArch(o.Arch); err != nil {
		return err
	}
	if _, err := model.ParseLoss(o.Loss); err != nil {
		return err
	}
	if _, err := o.Schedule(); err != nil {
		return err
	}
	return nil
}

// RunDir is the directory holding checkpoints and results of the run
func (o Options) RunDir() string {
	return filepath.Join(fu.CheckpointPath(o.CheckpointsDir), o.Name)
}

// ResolvedWeightPath resolves a relative weight path the way checkpoint directories are
func (o Options) ResolvedWeightPath() string {
	if o.WeightPath == "" {
		return ""
	}
	return fu.CheckpointPath(o.WeightPath)
}

// Schedule builds the learning rate schedule
func (o Options) Schedule() (engine.Schedule, error) {
	return engine.NewSchedule(o.LRPolicy, o.LR, o.LRStep, o.LRGamma)
}

// TrainingSetup converts the options for the fused training stream
func (o Options) TrainingSetup() data.TrainingSetup {
	return data.TrainingSetup{
		Base:     o.BaseDir,
		SynList:  o.SynList,
		Size:     o.MaxDatasetSize,
		CropSize: o.CropSize,
		Samples:  o.NumTrain,
		Seed:     o.Seed,
	}
}

// ModelOptions converts the options for the model wrapper
func (o Options) ModelOptions(isTrain bool) (model.Options, error) {
	a, err := model.ParseArch(o.Arch)
	if err != nil {
		return model.Options{}, err
	}
	l, err := model.ParseLoss(o.Loss)
	if err != nil {
		return model.Options{}, err
	}
	return model.Options{
		Name:      o.Name,
		Arch:      a,
		Loss:      l,
		LR:        o.LR,
		WD:        o.WD,
		LambdaRec: o.LambdaRec,
		LambdaVGG: o.LambdaVGG,
		Seed:      o.Seed,
		IsTrain:   isTrain,
	}, nil
}

// EngineOptions converts the options for the engine
func (o Options) EngineOptions() (engine.Options, error) {
	s, err := o.Schedule()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Name:          o.Name,
		CheckpointDir: o.RunDir(),
		WeightPath:    o.ResolvedWeightPath(),
		Resume:        o.Resume,
		BatchSize:     o.BatchSize,
		Workers:       o.NThreads,
		Prefetch:      o.Prefetch,
		PrintFreq:     o.PrintFreq,
		SaveEpochFreq: o.SaveEpochFreq,
		Debug:         o.Debug,
		Seed:          o.Seed,
		Schedule:      s,
	}, nil
}
