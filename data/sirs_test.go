package data

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/pix"
	"golang.org/x/xerrors"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func flat(w, h int, v float32) *pix.Image {
	m := pix.New(w, h)
	for i := range m.Pix {
		m.Pix[i] = v
	}
	return m
}

func write(t *testing.T, path string, m *pix.Image) {
	assert.NilError(t, pix.Save(path, m))
}

func Test_Paired1(t *testing.T) {
	dir := fs.NewDir(t, "paired")
	defer dir.Remove()
	for _, n := range []string{"b.png", "a.png"} {
		write(t, filepath.Join(dir.Path(), BlendedDir, n), flat(40, 36, 0.8))
		write(t, filepath.Join(dir.Path(), TransmissionDir, n), flat(40, 36, 0.6))
	}
	write(t, filepath.Join(dir.Path(), ReflectionDir, "b.png"), flat(40, 36, 0.4))
	ioutil.WriteFile(filepath.Join(dir.Path(), BlendedDir, "notes.txt"), []byte("x"), 0644)

	ds, err := NewRealEval(dir.Path(), Options{SizeRounded: true})
	assert.NilError(t, err)
	assert.Assert(t, ds.Len() == 2)
	assert.Assert(t, ds.Aligned() && !ds.Synthetic())
	assert.Assert(t, strings.HasPrefix(ds.Name(), "real_eval:"))

	a, err := ds.Get(0)
	assert.NilError(t, err)
	assert.Assert(t, a.Filename == ds.Filename(0) && Basename(a.Filename) == "a")
	assert.Assert(t, a.Input.W == 32 && a.Input.H == 32)
	assert.Assert(t, a.TargetT.SameSize(a.Input) && a.TargetR.SameSize(a.Input))
	// derived reflection is blended minus transmission
	r := a.TargetR.At(0, 3, 3)
	assert.Assert(t, r > 0.19 && r < 0.21, "%v", r)

	b, err := ds.Get(1)
	assert.NilError(t, err)
	r = b.TargetR.At(0, 3, 3)
	assert.Assert(t, r > 0.39 && r < 0.41, "%v", r)
}

func Test_PairedCap1(t *testing.T) {
	dir := fs.NewDir(t, "paired")
	defer dir.Remove()
	for _, n := range []string{"1.png", "2.png", "3.png"} {
		write(t, filepath.Join(dir.Path(), BlendedDir, n), flat(4, 4, 0.5))
		write(t, filepath.Join(dir.Path(), TransmissionDir, n), flat(4, 4, 0.5))
	}
	ds, err := NewRealTrain(dir.Path(), Options{Size: 2, Transforms: &Transforms{CropSize: 8, Flip: true, Seed: 1}})
	assert.NilError(t, err)
	assert.Assert(t, ds.Len() == 2)
	s, err := ds.Get(1)
	assert.NilError(t, err)
	assert.Assert(t, s.Input.W == 8 && s.TargetT.W == 8 && s.TargetR.H == 8)
}

func Test_MissingDir1(t *testing.T) {
	_, err := NewSIREval("/nonexistent/sir2", Options{})
	assert.Assert(t, xerrors.Is(err, fu.ErrConfig))
	_, err = NewRealTest("/nonexistent/test", Options{})
	assert.Assert(t, xerrors.Is(err, fu.ErrConfig))
}

func Test_Flat1(t *testing.T) {
	dir := fs.NewDir(t, "flat")
	defer dir.Remove()
	write(t, filepath.Join(dir.Path(), "x.png"), flat(5, 5, 0.3))
	write(t, filepath.Join(dir.Path(), "y.png"), flat(5, 5, 0.3))
	ds, err := NewRealTest(dir.Path(), Options{})
	assert.NilError(t, err)
	assert.Assert(t, ds.Len() == 2 && !ds.Aligned())
	s, err := ds.Get(1)
	assert.NilError(t, err)
	assert.Assert(t, s.TargetT == nil && s.TargetR == nil && s.Unaligned)
	assert.Assert(t, Basename(s.Filename) == "y")
}

func Test_SynTrain1(t *testing.T) {
	dir := fs.NewDir(t, "syn")
	defer dir.Remove()
	write(t, filepath.Join(dir.Path(), "t.png"), flat(12, 12, 0.4))
	write(t, filepath.Join(dir.Path(), "r.png"), flat(16, 10, 0.5))
	list := filepath.Join(dir.Path(), "list.txt")
	assert.NilError(t, ioutil.WriteFile(list, []byte("t.png\n\nr.png\n"), 0644))
	fns, err := ReadFns(list)
	assert.NilError(t, err)
	assert.DeepEqual(t, fns, []string{"t.png", "r.png"})

	tf := &Transforms{CropSize: 8, Seed: 9}
	ds, err := NewSynTrain(dir.Path(), fns, Options{Transforms: tf})
	assert.NilError(t, err)
	s, err := ds.Get(0)
	assert.NilError(t, err)
	assert.Assert(t, s.Input.W == 8 && s.Input.H == 8)
	for i, v := range s.Input.Pix {
		// blend never darkens the transmission
		assert.Assert(t, v >= s.TargetT.Pix[i])
		assert.Assert(t, s.TargetR.Pix[i] >= 0)
	}
	s2, err := ds.Get(0)
	assert.NilError(t, err)
	assert.DeepEqual(t, s.Input.Pix, s2.Input.Pix)

	_, err = NewSynTrain(dir.Path(), fns[:1], Options{})
	assert.Assert(t, xerrors.Is(err, fu.ErrConfig))
}

func Test_Transforms1(t *testing.T) {
	tf := &Transforms{CropSize: 4, Flip: true, Seed: 1}
	m := flat(10, 6, 0.1)
	a := tf.Apply(tf.Rand("k"), m, m)
	assert.Assert(t, a[0].W == 4 && a[1].H == 4)
	r1 := tf.Rand("k").Int63()
	assert.Assert(t, r1 == tf.Rand("k").Int63())
	tf.Reshuffle(1)
	assert.Assert(t, r1 != tf.Rand("k").Int63())
	var none *Transforms
	assert.Assert(t, none.Apply(none.Rand("k"), m)[0] == m)
}

func Test_Benchmarks1(t *testing.T) {
	dir := fs.NewDir(t, "bench")
	defer dir.Remove()
	for _, d := range []string{"real20_420", "SIR2/SolidObjectDataset", "SIR2/PostcardDataset", "SIR2/WildSceneDataset"} {
		write(t, filepath.Join(dir.Path(), "test", d, BlendedDir, "a.png"), flat(4, 4, 0.5))
	}
	b, err := OpenBenchmarks(dir.Path(), Options{}, false)
	assert.NilError(t, err)
	assert.Assert(t, len(b) == 4)
	assert.Assert(t, b[0].Name == "testdata_real20" && b[0].Suffix == "real20" && b[0].Dataset.Len() == 1)
	_, err = OpenBenchmarks(dir.Path(), Options{}, true)
	assert.Assert(t, xerrors.Is(err, fu.ErrConfig))
}
