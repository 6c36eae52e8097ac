package export

import (
	"sync"

	"go.uber.org/multierr"
)

/*
Writer runs artifact writes in background with at most Limit writes in flight.
Wait must be called before the artifacts are considered to exist.
*/
type Writer struct {
	sem  chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
	err  error
	done int
}

func NewWriter(limit int) *Writer {
	if limit <= 0 {
		limit = 1
	}
	return &Writer{sem: make(chan struct{}, limit)}
}

// Go blocks while Limit writes are in flight, then runs fn in background
func (w *Writer) Go(fn func() error) {
	w.sem <- struct{}{}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.sem }()
		err := fn()
		w.mu.Lock()
		w.err = multierr.Append(w.err, err)
		if err == nil {
			w.done++
		}
		w.mu.Unlock()
	}()
}

// Wait flushes every started write and returns all failures combined
func (w *Writer) Wait() error {
	w.wg.Wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Written returns the number of writes completed without error
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}
