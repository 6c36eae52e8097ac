package data

import (
	"path/filepath"

	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/pix"
	"go-ml.dev/pkg/zorros/zorros"
)

/*
Options tune a directory adapter
*/
type Options struct {
	Size        int         // maximal number of samples, 0 means all
	SizeRounded bool        // round image sizes down to a multiple of pix.SizeMultiple
	Transforms  *Transforms // training augmentations, nil disables them
	Unaligned   bool        // disables reference based metrics
}

/*
Paired is a directory with blended/ and transmission_layer/ subdirectories holding
images of the same name, and optionally reflection_layer/. Without a reflection
layer the reflection target is the clipped difference of the blended and the
transmitted image.
*/
type Paired struct {
	name string
	dir  string
	fns  []string
	real bool
	opt  Options
}

func newPaired(name, dir string, real bool, opt Options) (*Paired, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	fns, err := listImages(filepath.Join(dir, BlendedDir))
	if err != nil {
		return nil, err
	}
	return &Paired{name: name, dir: dir, fns: capSize(fns, opt.Size), real: real, opt: opt}, nil
}

// NewRealTrain wraps real paired captures used for training
func NewRealTrain(dir string, opt Options) (*Paired, error) {
	return newPaired("real_train:"+filepath.Base(dir), dir, true, opt)
}

// NewRealEval wraps a real paired benchmark such as real20
func NewRealEval(dir string, opt Options) (*Paired, error) {
	opt.Transforms = nil
	return newPaired("real_eval:"+filepath.Base(dir), dir, true, opt)
}

// NewSIREval wraps one SIR2 subset (solid object, postcard, wild scene)
func NewSIREval(dir string, opt Options) (*Paired, error) {
	opt.Transforms = nil
	return newPaired("sir2:"+filepath.Base(dir), dir, true, opt)
}

func (d *Paired) Name() string    { return d.name }
func (d *Paired) Len() int        { return len(d.fns) }
func (d *Paired) Aligned() bool   { return !d.opt.Unaligned }
func (d *Paired) Synthetic() bool { return !d.real }

func (d *Paired) Filename(i int) string {
	return filepath.Join(d.dir, BlendedDir, d.fns[i])
}

func (d *Paired) Reshuffle(epoch int) {
	if d.opt.Transforms != nil {
		d.opt.Transforms.Reshuffle(epoch)
	}
}

func (d *Paired) Get(i int) (*Sample, error) {
	fn := d.fns[i]
	m, err := pix.Load(filepath.Join(d.dir, BlendedDir, fn))
	if err != nil {
		return nil, err
	}
	t, err := pix.Load(filepath.Join(d.dir, TransmissionDir, fn))
	if err != nil {
		return nil, err
	}
	if !m.SameSize(t) {
		t = t.Resize(m.W, m.H)
	}
	var r *pix.Image
	if rp := filepath.Join(d.dir, ReflectionDir, fn); exists(rp) {
		if r, err = pix.Load(rp); err != nil {
			return nil, err
		}
		if !m.SameSize(r) {
			r = r.Resize(m.W, m.H)
		}
	} else {
		r = m.Sub(t)
	}
	if d.opt.SizeRounded {
		m, t, r = m.RoundSize(), t.RoundSize(), r.RoundSize()
	}
	if d.opt.Transforms != nil {
		q := d.opt.Transforms.Apply(d.opt.Transforms.Rand(fn), m, t, r)
		m, t, r = q[0], q[1], q[2]
	}
	return &Sample{
		Input:     m,
		TargetT:   t,
		TargetR:   r,
		Filename:  filepath.Join(d.dir, BlendedDir, fn),
		Real:      d.real,
		Unaligned: d.opt.Unaligned,
	}, nil
}

/*
Flat is a directory of blended images without ground truth
*/
type Flat struct {
	dir string
	fns []string
	opt Options
}

// NewRealTest wraps a flat directory of photographs to decompose
func NewRealTest(dir string, opt Options) (*Flat, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	fns, err := listImages(dir)
	if err != nil {
		return nil, err
	}
	return &Flat{dir: dir, fns: capSize(fns, opt.Size), opt: opt}, nil
}

func (d *Flat) Name() string    { return "real_test:" + filepath.Base(d.dir) }
func (d *Flat) Len() int        { return len(d.fns) }
func (d *Flat) Aligned() bool   { return false }
func (d *Flat) Synthetic() bool { return false }

func (d *Flat) Filename(i int) string {
	return filepath.Join(d.dir, d.fns[i])
}

func (d *Flat) Get(i int) (*Sample, error) {
	path := d.Filename(i)
	m, err := pix.Load(path)
	if err != nil {
		return nil, err
	}
	if d.opt.SizeRounded {
		m = m.RoundSize()
	}
	return &Sample{Input: m, Filename: path, Real: true, Unaligned: true}, nil
}

/*
SynTrain composes training samples from single natural images: the transmitted
layer is the image itself and the reflection is another blurred image of the list.
*/
type SynTrain struct {
	dir string
	fns []string
	opt Options
}

// NewSynTrain wraps the images named in fns, usually read from a list file with ReadFns
func NewSynTrain(dir string, fns []string, opt Options) (*SynTrain, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	fns = capSize(fns, opt.Size)
	if len(fns) < 2 {
		return nil, fu.ConfigErrorf("synthetic dataset %v needs at least two images, got %d", dir, len(fns))
	}
	return &SynTrain{dir: dir, fns: fns, opt: opt}, nil
}

func (d *SynTrain) Name() string    { return "syn_train:" + filepath.Base(d.dir) }
func (d *SynTrain) Len() int        { return len(d.fns) }
func (d *SynTrain) Aligned() bool   { return true }
func (d *SynTrain) Synthetic() bool { return true }

func (d *SynTrain) Reshuffle(epoch int) {
	if d.opt.Transforms != nil {
		d.opt.Transforms.Reshuffle(epoch)
	}
}

func (d *SynTrain) Get(i int) (*Sample, error) {
	rng := d.opt.Transforms.Rand(d.fns[i])
	j := rng.Intn(len(d.fns) - 1)
	if j >= i {
		j++
	}
	t, err := pix.Load(filepath.Join(d.dir, d.fns[i]))
	if err != nil {
		return nil, err
	}
	r, err := pix.Load(filepath.Join(d.dir, d.fns[j]))
	if err != nil {
		return nil, zorros.Wrapf(err, "reflection source of %v: %v", d.fns[i], err.Error())
	}
	if d.opt.Transforms != nil {
		t = d.opt.Transforms.Apply(rng, t)[0]
		r = d.opt.Transforms.Apply(rng, r)[0]
	}
	if !t.SameSize(r) {
		r = r.Resize(t.W, t.H)
	}
	if d.opt.SizeRounded {
		t, r = t.RoundSize(), r.RoundSize()
	}
	m, tt, rr := Synthesize(t, r, float32(0.2+0.3*rng.Float64()), 1+rng.Intn(3))
	return &Sample{Input: m, TargetT: tt, TargetR: rr, Filename: filepath.Join(d.dir, d.fns[i])}, nil
}

/*
Synthesize blends a transmission image with a blurred and attenuated reflection image.
It returns the blended image and the transmission and reflection targets.
*/
func Synthesize(t, r *pix.Image, beta float32, blur int) (m, tt, rr *pix.Image) {
	m = t.Blend(1, r.BoxBlur(blur), beta)
	return m, t, m.Sub(t)
}
