package model

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/xerrors"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func trained(t *testing.T, steps int) *Model {
	m := newModel(t, true)
	assert.NilError(t, m.SetInput(batch(true, 2), Train))
	for i := 0; i < steps; i++ {
		assert.NilError(t, m.OptimizeParameters())
	}
	return m
}

func Test_Checkpoint1(t *testing.T) {
	dir := fs.NewDir(t, "ckpt")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "run", "latest.ckpt")

	m := trained(t, 3)
	n, err := m.Save(path, Progress{Epoch: 5, Iterations: 1000})
	assert.NilError(t, err)
	st, err := os.Stat(path)
	assert.NilError(t, err)
	assert.Assert(t, st.Size() == n)

	q := newModel(t, true)
	p, err := q.Load(path, true)
	assert.NilError(t, err)
	assert.Assert(t, p.Epoch == 5 && p.Iterations == 1000)
	for _, k := range m.Network().Params().Names() {
		assert.DeepEqual(t, q.Network().Params()[k].Data, m.Network().Params()[k].Data)
		assert.DeepEqual(t, q.Network().Params()[k].Shape, m.Network().Params()[k].Shape)
	}
	s1, s2 := m.optim.State(), q.optim.State()
	assert.Assert(t, s1.Step == s2.Step && s1.Step == 3)
	assert.DeepEqual(t, s1.ExpAvg["t.weight"].Data, s2.ExpAvg["t.weight"].Data)

	// both continue identically
	assert.NilError(t, q.SetInput(batch(true, 2), Train))
	assert.NilError(t, m.OptimizeParameters())
	assert.NilError(t, q.OptimizeParameters())
	assert.DeepEqual(t, q.Network().Params()["r.bias"].Data, m.Network().Params()["r.bias"].Data)
}

func Test_CheckpointInference1(t *testing.T) {
	dir := fs.NewDir(t, "ckpt")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "a.ckpt")
	m := trained(t, 2)
	_, err := m.Save(path, Progress{Epoch: 1, Iterations: 2})
	assert.NilError(t, err)
	r, err := LoadRecord(path)
	assert.NilError(t, err)
	assert.Assert(t, r.Optimizer != nil && r.Optimizer.Step == 2)

	q := newModel(t, false)
	p := q.LuckyLoad(path, true)
	assert.Assert(t, p.Epoch == 1)
	assert.Assert(t, !q.Trainable())
	assert.DeepEqual(t, q.Network().Params()["t.bias"].Data, m.Network().Params()["t.bias"].Data)

	// inference models write no optimizer state
	path2 := filepath.Join(dir.Path(), "b.ckpt")
	_, err = q.Save(path2, p)
	assert.NilError(t, err)
	r, err = LoadRecord(path2)
	assert.NilError(t, err)
	assert.Assert(t, r.Optimizer == nil)
}

func Test_CheckpointStrict1(t *testing.T) {
	dir := fs.NewDir(t, "ckpt")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "a.ckpt")
	rec := newModel(t, false).StateDict(Progress{}, false)
	delete(rec.Weights, "r.bias")
	rec.Weights["extra.weight"] = NewTensor(2)
	_, err := SaveRecord(path, rec)
	assert.NilError(t, err)

	_, err = newModel(t, false).Load(path, true)
	assert.Assert(t, xerrors.Is(err, ErrStrictKeys))
	assert.Assert(t, strings.Contains(err.Error(), "r.bias"))
	assert.Assert(t, strings.Contains(err.Error(), "extra.weight"))

	_, err = newModel(t, false).Load(path, false)
	assert.NilError(t, err)

	rec = newModel(t, false).StateDict(Progress{}, false)
	rec.Weights["t.weight"] = NewTensor(2, 2)
	_, err = SaveRecord(path, rec)
	assert.NilError(t, err)
	_, err = newModel(t, false).Load(path, false)
	assert.Assert(t, err != nil)
}

func Test_CheckpointCorrupt1(t *testing.T) {
	dir := fs.NewDir(t, "ckpt")
	defer dir.Remove()
	_, err := LoadRecord(filepath.Join(dir.Path(), "missing.ckpt"))
	assert.Assert(t, xerrors.Is(err, ErrCheckpoint))

	bad := filepath.Join(dir.Path(), "bad.ckpt")
	assert.NilError(t, ioutil.WriteFile(bad, []byte("not a checkpoint"), 0644))
	_, err = LoadRecord(bad)
	assert.Assert(t, xerrors.Is(err, ErrCheckpoint))

	m := newModel(t, true)
	before := m.Network().Params().Clone()
	_, err = m.Load(bad, true)
	assert.Assert(t, err != nil)
	assert.DeepEqual(t, m.Network().Params()["t.weight"].Data, before["t.weight"].Data)
}
