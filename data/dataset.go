/*
Package data implements the datasets feeding the reflection separation model:
directory adapters, the fusion sampler mixing several of them into one training
stream and the prefetching loader.
*/
package data

import (
	"go-ml.dev/pkg/sirs/pix"
)

/*
Sample is a blended image with its transmitted and reflected decomposition.
Targets are nil for test data.
*/
type Sample struct {
	Input     *pix.Image
	TargetT   *pix.Image
	TargetR   *pix.Image
	Filename  string // path of the blended image, empty when unknown
	Real      bool   // captured rather than synthesized
	Unaligned bool   // prediction and reference have no pixel correspondence
}

/*
Dataset is an ordered finite collection of samples
*/
type Dataset interface {
	Name() string
	Len() int
	Get(i int) (*Sample, error)
	// Aligned reports whether reference based metrics are valid
	Aligned() bool
	// Synthetic reports the provenance of samples
	Synthetic() bool
}

/*
Reshuffler is implemented by datasets which draw a new random schedule every epoch
*/
type Reshuffler interface {
	Reshuffle(epoch int)
}

/*
Batch is a group of consecutive draws from a loader
*/
type Batch struct {
	Index   []int
	Samples []*Sample
	Errors  []error // per-sample failures, the failed samples are not in Samples
}

// Len is the number of usable samples
func (b *Batch) Len() int {
	return len(b.Samples)
}

/*
Namer is implemented by datasets which know the file of a sample without decoding it
*/
type Namer interface {
	Filename(i int) string
}

/*
Subset exposes the selected items of a dataset in the given order
*/
type Subset struct {
	Dataset
	Index []int
}

func (s Subset) Len() int { return len(s.Index) }

func (s Subset) Get(i int) (*Sample, error) {
	return s.Dataset.Get(s.Index[i])
}
