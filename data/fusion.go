package data

import (
	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/zorros/zorros"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

/*
Weighted is a fusion source with its mixture weight
*/
type Weighted struct {
	Dataset Dataset
	Weight  float64
}

type pick struct {
	source, index int
}

/*
Fusion is a virtual dataset drawing every position independently: a source is chosen
with probability proportional to its weight, then an item of that source. Items of a
source are drawn without replacement until the source is exhausted and then reshuffled,
so small sources are resampled rather than running dry.
*/
type Fusion struct {
	sources []Weighted
	size    int
	seed    int64
	picks   []pick
}

/*
NewFusion validates the mixture and draws the schedule of epoch 0
*/
func NewFusion(sources []Weighted, size int, seed int64) (*Fusion, error) {
	if len(sources) == 0 {
		return nil, fu.ConfigErrorf("fusion needs at least one source")
	}
	if size <= 0 {
		return nil, fu.ConfigErrorf("fusion size must be positive, got %d", size)
	}
	var total float64
	for _, s := range sources {
		if s.Dataset == nil {
			return nil, fu.ConfigErrorf("fusion source is nil")
		}
		if s.Weight < 0 {
			return nil, fu.ConfigErrorf("fusion source %v has negative weight %v", s.Dataset.Name(), s.Weight)
		}
		if s.Weight > 0 && s.Dataset.Len() == 0 {
			return nil, fu.ConfigErrorf("fusion source %v is empty but has weight %v", s.Dataset.Name(), s.Weight)
		}
		total += s.Weight
	}
	if total == 0 {
		return nil, fu.ConfigErrorf("fusion weights sum to zero")
	}
	f := &Fusion{sources: sources, size: size, seed: seed}
	f.Reshuffle(0)
	return f, nil
}

func (f *Fusion) source(epoch int) rand.Source {
	return rand.NewSource(uint64(f.seed)*0x9E3779B97F4A7C15 + uint64(epoch))
}

/*
Reshuffle redraws the schedule for the epoch, the result depends only on the seed and the epoch.
Sources implementing Reshuffler are notified too.
*/
func (f *Fusion) Reshuffle(epoch int) {
	src := f.source(epoch)
	rng := rand.New(src)
	weights := make([]float64, len(f.sources))
	for i, s := range f.sources {
		weights[i] = s.Weight
	}
	cat := distuv.NewCategorical(weights, src)

	perms := make([][]int, len(f.sources))
	cursors := make([]int, len(f.sources))
	picks := make([]pick, f.size)
	for i := range picks {
		k := int(cat.Rand())
		if cursors[k] == 0 {
			perms[k] = rng.Perm(f.sources[k].Dataset.Len())
		}
		picks[i] = pick{k, perms[k][cursors[k]]}
		cursors[k] = (cursors[k] + 1) % len(perms[k])
	}
	f.picks = picks

	for _, s := range f.sources {
		if r, ok := s.Dataset.(Reshuffler); ok {
			r.Reshuffle(epoch)
		}
	}
}

// Counts reports how many positions of the current schedule draw from every source
func (f *Fusion) Counts() []int {
	r := make([]int, len(f.sources))
	for _, p := range f.picks {
		r[p.source]++
	}
	return r
}

func (f *Fusion) Name() string { return "fusion" }
func (f *Fusion) Len() int     { return f.size }

// Aligned holds when every source which can be drawn is aligned
func (f *Fusion) Aligned() bool {
	for _, s := range f.sources {
		if s.Weight > 0 && !s.Dataset.Aligned() {
			return false
		}
	}
	return true
}

// Synthetic holds when every source which can be drawn is synthetic
func (f *Fusion) Synthetic() bool {
	for _, s := range f.sources {
		if s.Weight > 0 && !s.Dataset.Synthetic() {
			return false
		}
	}
	return true
}

func (f *Fusion) Get(i int) (*Sample, error) {
	p := f.picks[i]
	s := f.sources[p.source].Dataset
	r, err := s.Get(p.index)
	if err != nil {
		return nil, zorros.Wrapf(err, "%v[%d]: %v", s.Name(), p.index, err.Error())
	}
	return r, nil
}
