package model

import (
	"testing"

	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/pix"
	"golang.org/x/xerrors"
	"gotest.tools/v3/assert"
)

func sample(seed int, targets bool) *data.Sample {
	x := pix.New(6, 5)
	for i := range x.Pix {
		x.Pix[i] = float32((i*7+seed*3)%17) / 17
	}
	s := &data.Sample{Input: x, Filename: "s.png"}
	if targets {
		t, r := pix.New(6, 5), pix.New(6, 5)
		for i, v := range x.Pix {
			t.Pix[i] = 0.7 * v
			r.Pix[i] = 0.3 * v
		}
		s.TargetT, s.TargetR = t, r
	}
	return s
}

func batch(targets bool, n int) *data.Batch {
	b := &data.Batch{}
	for i := 0; i < n; i++ {
		b.Index = append(b.Index, i)
		b.Samples = append(b.Samples, sample(i, targets))
	}
	return b
}

func newModel(t *testing.T, train bool) *Model {
	m, err := New(Options{Name: "t", Arch: ArchLinear, Loss: LossMSE, LR: 1e-2, LambdaRec: 0.2, Seed: 7, IsTrain: train})
	assert.NilError(t, err)
	return m
}

func Test_Mode1(t *testing.T) {
	m := newModel(t, true)
	assert.NilError(t, m.SetInput(batch(true, 2), Train))
	assert.NilError(t, m.SetInput(batch(true, 2), Eval))
	assert.NilError(t, m.SetInput(batch(false, 2), Test))
	assert.Assert(t, m.SetInput(batch(false, 2), Train) != nil)
	assert.Assert(t, m.SetInput(batch(false, 2), Eval) != nil)
	assert.Assert(t, m.SetInput(&data.Batch{}, Test) != nil)

	err := m.SetInput(batch(true, 1), Mode(7))
	assert.Assert(t, xerrors.Is(err, ErrUnsupportedMode))
	_, err = ParseMode("predict")
	assert.Assert(t, xerrors.Is(err, ErrUnsupportedMode))
	md, err := ParseMode("Eval")
	assert.NilError(t, err)
	assert.Assert(t, md == Eval && md.String() == "eval")
	assert.Assert(t, Mode(7).String() == "mode(7)")
}

func Test_SizeMismatch1(t *testing.T) {
	m := newModel(t, true)
	b := batch(true, 1)
	b.Samples[0].TargetR = pix.New(3, 3)
	assert.Assert(t, m.SetInput(b, Train) != nil)
}

func Test_Forward1(t *testing.T) {
	m := newModel(t, false)
	_, err := m.Forward()
	assert.Assert(t, err != nil)
	assert.NilError(t, m.SetInput(batch(false, 3), Test))
	a, err := m.Forward()
	assert.NilError(t, err)
	b, err := m.Forward()
	assert.NilError(t, err)
	assert.Assert(t, len(a) == 3)
	assert.DeepEqual(t, a[1].T.Pix, b[1].T.Pix)
	for i, v := range a[0].RR.Pix {
		x := m.input.Samples[0].Input.Pix[i]
		assert.Assert(t, v == x-a[0].T.Pix[i]-a[0].R.Pix[i])
	}
}

func Test_CurrentErrors1(t *testing.T) {
	m := newModel(t, true)
	e := m.CurrentErrors()
	assert.Assert(t, len(e) == 2)
	lr, ok := e.Get("lr")
	assert.Assert(t, ok && lr == 1e-2)
	seed, _ := e.Get("seed")
	assert.Assert(t, seed == 7)
	_, ok = e.Get("I_P")
	assert.Assert(t, !ok)

	assert.NilError(t, m.SetInput(batch(true, 2), Train))
	assert.NilError(t, m.OptimizeParameters())
	e = m.CurrentErrors()
	for _, k := range []string{"R_P", "I_P", "Re", "lr", "seed"} {
		_, ok := e.Get(k)
		assert.Assert(t, ok, k)
	}
	assert.Assert(t, e[0].Name == "R_P")
}

func Test_Optimize1(t *testing.T) {
	m := newModel(t, true)
	b := batch(true, 3)
	assert.NilError(t, m.SetInput(b, Train))
	assert.NilError(t, m.OptimizeParameters())
	first, _ := m.CurrentErrors().Get("I_P")
	for i := 0; i < 50; i++ {
		assert.NilError(t, m.OptimizeParameters())
	}
	last, _ := m.CurrentErrors().Get("I_P")
	assert.Assert(t, last < first, "%v >= %v", last, first)
}

func Test_OptimizeErrors1(t *testing.T) {
	m := newModel(t, false)
	assert.Assert(t, !m.Trainable())
	assert.Assert(t, m.OptimizeParameters() != nil)
	m = newModel(t, true)
	assert.Assert(t, m.OptimizeParameters() != nil)
	assert.NilError(t, m.SetInput(batch(true, 1), Eval))
	assert.Assert(t, m.OptimizeParameters() != nil)
}

func Test_Registry1(t *testing.T) {
	a, err := ParseArch("identity")
	assert.NilError(t, err)
	assert.Assert(t, a == ArchIdentity && a.String() == "identity")
	_, err = ParseArch("unet")
	assert.Assert(t, err != nil)
	_, err = NewNetwork(Arch(9))
	assert.Assert(t, err != nil)
	l, err := ParseLoss("L1")
	assert.NilError(t, err)
	assert.Assert(t, l == LossL1)
	_, err = New(Options{Arch: ArchLinear, Loss: LossKind(5)})
	assert.Assert(t, err != nil)

	n, err := NewNetwork(ArchIdentity)
	assert.NilError(t, err)
	x := sample(1, false).Input
	o := n.Forward(x)
	assert.DeepEqual(t, o.T.Pix, x.Pix)
	for _, v := range o.RRImage().Pix {
		assert.Assert(t, v == 0.5)
	}
}
