package data

import (
	"sync"

	"go-ml.dev/pkg/sirs/fu"
	"golang.org/x/exp/rand"
)

/*
Loader prefetches batches of a dataset with a bounded pool of decoding workers.
At most Workers samples are decoded at once and at most Depth batches are decoded
ahead of the consumer, batches are delivered in order.
*/
type Loader struct {
	Dataset   Dataset
	BatchSize int
	Workers   int
	Depth     int
	Shuffle   bool
	Seed      int64
}

type job struct {
	index []int
	out   chan *Batch
}

/*
Iterator delivers the batches of one pass
*/
type Iterator struct {
	pending chan chan *Batch
	done    chan struct{}
	once    sync.Once
}

// Next blocks until the next batch is decoded, false means the pass is over
func (it *Iterator) Next() (*Batch, bool) {
	fut, ok := <-it.pending
	if !ok {
		return nil, false
	}
	return <-fut, true
}

// Close stops prefetching, Next must not be called afterwards
func (it *Iterator) Close() {
	it.once.Do(func() { close(it.done) })
}

func (l Loader) order(epoch int) []int {
	n := l.Dataset.Len()
	if l.Shuffle {
		return rand.New(rand.NewSource(uint64(l.Seed) + uint64(epoch)*7919)).Perm(n)
	}
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

/*
Iterate starts prefetching one pass over the dataset
*/
func (l Loader) Iterate(epoch int) *Iterator {
	bs := fu.Maxi(l.BatchSize, 1)
	workers := fu.Maxi(l.Workers, 1)
	depth := fu.Maxi(l.Depth, 1)

	order := l.order(epoch)
	it := &Iterator{pending: make(chan chan *Batch, depth), done: make(chan struct{})}
	jobs := make(chan job)

	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				j.out <- l.decode(j.index)
			}
		}()
	}

	go func() {
		defer close(it.pending)
		defer close(jobs)
		for i := 0; i < len(order); i += bs {
			j := job{index: order[i:fu.Mini(i+bs, len(order))], out: make(chan *Batch, 1)}
			select {
			case it.pending <- j.out:
			case <-it.done:
				return
			}
			select {
			case jobs <- j:
			case <-it.done:
				return
			}
		}
	}()
	return it
}

func (l Loader) decode(index []int) *Batch {
	b := &Batch{}
	for _, i := range index {
		s, err := l.Dataset.Get(i)
		if err != nil {
			b.Errors = append(b.Errors, err)
			continue
		}
		b.Index = append(b.Index, i)
		b.Samples = append(b.Samples, s)
	}
	return b
}
