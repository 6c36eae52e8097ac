/*
Package model wraps the reflection separation network with its optimizer and loss terms.

The network and the losses are selected from registries keyed by Arch and LossKind,
the wrapper stages batches, runs forward passes, performs optimization steps and
serializes everything into checkpoint records.
*/
package model

import (
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/zorros/zorros"
)

/*
Options is the part of the run configuration consumed by the model
*/
type Options struct {
	Name      string   // run name, used to name exported images
	Arch      Arch     // network architecture
	Loss      LossKind // pixel loss of every term
	LR        float64  // initial learning rate
	WD        float64  // weight decay
	LambdaRec float64  // reconstruction term weight
	LambdaVGG float64  // perceptual term weight, reported only
	Seed      int64    // run seed, reported with the errors
	IsTrain   bool     // allocate the optimizer
}

/*
Progress is the training position stored along with the weights
*/
type Progress struct {
	Epoch      int
	Iterations int
}

/*
Model owns the network, the optimizer and the currently staged input.
Parameters change only in OptimizeParameters and when a checkpoint is loaded.
*/
type Model struct {
	opt     Options
	network Network
	loss    Loss
	optim   *Adam
	input   *Input
	terms   lossTerms
}

/*
New instantiates the registered network and loss, the optimizer only for training models
*/
func New(opt Options) (*Model, error) {
	network, err := NewNetwork(opt.Arch)
	if err != nil {
		return nil, err
	}
	loss, err := NewLoss(opt.Loss)
	if err != nil {
		return nil, err
	}
	m := &Model{opt: opt, network: network, loss: loss}
	if opt.IsTrain {
		m.optim = NewAdam(network.Params(), opt.LR, opt.WD)
	}
	return m, nil
}

func (m *Model) Options() Options {
	return m.opt
}

func (m *Model) Network() Network {
	return m.network
}

// Trainable reports whether the model owns an optimizer
func (m *Model) Trainable() bool {
	return m.optim != nil
}

// SetLearningRate changes the learning rate of the optimizer
func (m *Model) SetLearningRate(lr float64) {
	if m.optim != nil {
		m.optim.LR = lr
	}
}

func (m *Model) LearningRate() float64 {
	if m.optim != nil {
		return m.optim.LR
	}
	return m.opt.LR
}

/*
SetInput validates a batch for the mode and stages it.
Train and Eval need both targets, Test needs the input only.
*/
func (m *Model) SetInput(b *data.Batch, mode Mode) error {
	in, err := stage(b, mode)
	if err != nil {
		return err
	}
	m.input = in
	return nil
}

/*
Forward decomposes every staged image with the current parameters
*/
func (m *Model) Forward() ([]Output, error) {
	if m.input == nil {
		return nil, zorros.Errorf("forward called without staged input")
	}
	r := make([]Output, len(m.input.Samples))
	for i, s := range m.input.Samples {
		r[i] = m.network.Forward(s.Input)
	}
	return r, nil
}

/*
LuckyLoad loads a checkpoint and panics on any error
*/
func (m *Model) LuckyLoad(path string, strict bool) Progress {
	p, err := m.Load(path, strict)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return p
}
