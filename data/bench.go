package data

import (
	"path/filepath"

	"go-ml.dev/pkg/sirs/fu"
)

// DefaultFusionSize is the number of fused samples of an epoch when none is configured
const DefaultFusionSize = 5000

/*
Benchmark is a held out dataset with the name results are reported under and the
subdirectory its predictions are exported to
*/
type Benchmark struct {
	Name    string
	Suffix  string
	Dataset Dataset
}

/*
OpenBenchmarks opens the evaluation sets under base/test: real20 and the three SIR2
subsets, plus the nature set when requested
*/
func OpenBenchmarks(base string, opt Options, nature bool) ([]Benchmark, error) {
	type bench struct {
		name, suffix, dir string
		ctor              func(string, Options) (*Paired, error)
	}
	test := filepath.Join(base, "test")
	sets := []bench{
		{"testdata_real20", "real20", filepath.Join(test, "real20_420"), NewRealEval},
		{"testdata_solidobject", "solidobject", filepath.Join(test, "SIR2", "SolidObjectDataset"), NewSIREval},
		{"testdata_postcard", "postcard", filepath.Join(test, "SIR2", "PostcardDataset"), NewSIREval},
		{"testdata_wild", "wild", filepath.Join(test, "SIR2", "WildSceneDataset"), NewSIREval},
	}
	if nature {
		sets = append(sets, bench{"testdata_nature", "nature", filepath.Join(test, "Nature"), NewRealEval})
	}
	r := make([]Benchmark, 0, len(sets))
	for _, b := range sets {
		ds, err := b.ctor(b.dir, opt)
		if err != nil {
			return nil, err
		}
		r = append(r, Benchmark{b.name, b.suffix, ds})
	}
	return r, nil
}

/*
TrainingSetup describes the fused training stream
*/
type TrainingSetup struct {
	Base     string // data root holding train/
	SynList  string // file naming the synthetic sources, empty lists the directory
	Size     int    // cap of every source
	CropSize int    // 0 disables cropping
	Samples  int    // fused samples per epoch, 0 means DefaultFusionSize
	Seed     int64
}

/*
OpenTraining fuses synthetic composites, real pairs and nature pairs with weights
0.6, 0.2 and 0.2
*/
func OpenTraining(s TrainingSetup) (*Fusion, error) {
	tf := &Transforms{CropSize: s.CropSize, Flip: true, Seed: s.Seed}
	opt := Options{Size: s.Size, Transforms: tf}
	train := filepath.Join(s.Base, "train")

	synDir := filepath.Join(train, "VOCdevkit", "VOC2012", "PNGImages")
	var fns []string
	var err error
	if s.SynList != "" {
		fns, err = ReadFns(s.SynList)
	} else {
		fns, err = listImages(synDir)
	}
	if err != nil {
		return nil, err
	}
	syn, err := NewSynTrain(synDir, fns, opt)
	if err != nil {
		return nil, err
	}
	realPairs, err := NewRealTrain(filepath.Join(train, "real"), opt)
	if err != nil {
		return nil, err
	}
	nature, err := NewRealTrain(filepath.Join(train, "nature"), opt)
	if err != nil {
		return nil, err
	}
	return NewFusion([]Weighted{{syn, 0.6}, {realPairs, 0.2}, {nature, 0.2}}, fu.Fnzi(s.Samples, DefaultFusionSize), s.Seed)
}
