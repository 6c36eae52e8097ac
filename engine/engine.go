/*
Package engine drives training epochs over the fused stream, evaluates the model on
benchmark datasets, exports predictions and keeps the checkpoints of a run.

All methods must be called from one goroutine, the engine owns the model.
*/
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/ledger"
	"go-ml.dev/pkg/sirs/model"
	"go-ml.dev/pkg/zorros/zorros"
	"go.uber.org/zap"
)

const checkpointExt = ".ckpt"

/*
Options is the part of the run configuration consumed by the engine
*/
type Options struct {
	Name          string // run name
	CheckpointDir string // checkpoints and results of the run
	WeightPath    string // checkpoint to start from, empty means the latest one when resuming
	Resume        bool
	BatchSize     int
	Workers       int // concurrent decoders
	Prefetch      int // decoded batches queued ahead
	Writers       int // concurrent artifact writes
	PrintFreq     int // log every PrintFreq iterations
	SaveEpochFreq int // keep a numbered checkpoint every SaveEpochFreq epochs
	Debug         bool
	Seed          int64
	Schedule      Schedule
}

/*
Engine owns the model for the whole run
*/
type Engine struct {
	Model   *model.Model
	Options Options
	Logger  *zap.Logger
	Verbose func(string)
	Ledger  *ledger.Ledger // optional
	State   State
}

/*
New creates the engine and, when resuming or given a weight path, loads the checkpoint.
A missing or corrupt checkpoint is an error, the engine never starts from partially
loaded parameters.
*/
func New(m *model.Model, opt Options, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opt.Schedule == nil {
		opt.Schedule = Constant(m.Options().LR)
	}
	e := &Engine{Model: m, Options: opt, Logger: logger}
	if opt.Resume || opt.WeightPath != "" {
		path := opt.WeightPath
		if path == "" {
			path = e.LatestPath()
		}
		p, err := m.Load(path, true)
		if err != nil {
			return nil, err
		}
		e.State.Epoch, e.State.Iterations = p.Epoch, p.Iterations
		logger.Info("checkpoint loaded",
			zap.String("path", path),
			zap.Int("epoch", p.Epoch),
			zap.Int("iterations", p.Iterations),
			zap.Bool("optimizer", m.Trainable()))
	}
	return e, nil
}

func (e *Engine) verbose(format string, a ...interface{}) {
	if e.Verbose != nil {
		e.Verbose(fmt.Sprintf(format, a...))
	}
}

func (e *Engine) printFreq() int {
	if e.Options.Debug {
		return 1
	}
	return fu.Fnzi(e.Options.PrintFreq, 100)
}

func (e *Engine) progress() model.Progress {
	return model.Progress{Epoch: e.State.Epoch, Iterations: e.State.Iterations}
}

// LatestPath is the checkpoint overwritten at every save
func (e *Engine) LatestPath() string {
	return filepath.Join(e.Options.CheckpointDir, e.Options.Name+"_latest"+checkpointExt)
}

// EpochPath is the numbered checkpoint of the current position
func (e *Engine) EpochPath() string {
	return filepath.Join(e.Options.CheckpointDir,
		fmt.Sprintf("%s_%03d_%08d%v", e.Options.Name, e.State.Epoch, e.State.Iterations, checkpointExt))
}

// ResultsDir is where the evaluations of the current epoch are exported
func (e *Engine) ResultsDir(stamp string) string {
	return filepath.Join(e.Options.CheckpointDir, "results", stamp, fmt.Sprintf("%03d", e.State.Epoch))
}

/*
SaveModel writes the latest checkpoint and, every SaveEpochFreq epochs, a numbered one.
It blocks until the files are committed.
*/
func (e *Engine) SaveModel() error {
	if err := e.State.transition(Checkpointed); err != nil {
		return err
	}
	if err := os.MkdirAll(e.Options.CheckpointDir, 0755); err != nil {
		return zorros.Trace(err)
	}
	paths := []string{e.LatestPath()}
	if f := e.Options.SaveEpochFreq; f > 0 && e.State.Epoch > 0 && e.State.Epoch%f == 0 {
		paths = append(paths, e.EpochPath())
	}
	for _, path := range paths {
		n, err := e.Model.Save(path, e.progress())
		if err != nil {
			return zorros.Wrapf(err, "failed to save checkpoint %v: %v", path, err.Error())
		}
		e.Logger.Info("checkpoint saved",
			zap.String("path", path),
			zap.String("size", humanize.Bytes(uint64(n))),
			zap.Int("epoch", e.State.Epoch),
			zap.Int("iterations", e.State.Iterations))
	}
	return nil
}

// Finish closes the run, no further operation is accepted
func (e *Engine) Finish() error {
	return e.State.transition(Done)
}
