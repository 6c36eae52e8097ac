package model

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tinylib/msgp/msgp"
	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros/zorros"
	"golang.org/x/xerrors"
)

var (
	// ErrCheckpoint classifies missing or unreadable checkpoint files
	ErrCheckpoint = xerrors.New("checkpoint error")
	// ErrStrictKeys is returned by strict loads when parameter names differ
	ErrStrictKeys = xerrors.New("parameter names mismatch")
)

/*
Record is the content of a checkpoint file
*/
type Record struct {
	Weights    Params
	Epoch      int
	Iterations int
	Optimizer  *OptimizerState // optional
}

/*
StateDict snapshots parameters and progress, the optimizer state is included on request
*/
func (m *Model) StateDict(p Progress, withOptimizer bool) *Record {
	r := &Record{Weights: m.network.Params().Clone(), Epoch: p.Epoch, Iterations: p.Iterations}
	if withOptimizer && m.optim != nil {
		r.Optimizer = m.optim.State()
	}
	return r
}

/*
LoadStateDict restores parameters from a record. With strict the parameter names must
match exactly. The optimizer state is restored only when requested and the model is trainable.
*/
func (m *Model) LoadStateDict(r *Record, strict, withOptimizer bool) (Progress, error) {
	params := m.network.Params()
	if err := matchKeys(params, r.Weights, strict); err != nil {
		return Progress{}, err
	}
	if withOptimizer && m.optim != nil && r.Optimizer != nil {
		if err := m.optim.Load(r.Optimizer, params); err != nil {
			return Progress{}, xerrors.Errorf("optimizer state: %w", err)
		}
	}
	for k, v := range r.Weights {
		if p, ok := params[k]; ok {
			copy(p.Data, v.Data)
		}
	}
	return Progress{Epoch: r.Epoch, Iterations: r.Iterations}, nil
}

/*
Save writes the checkpoint file, returning the number of bytes written
*/
func (m *Model) Save(path string, p Progress) (int64, error) {
	return SaveRecord(path, m.StateDict(p, m.optim != nil))
}

/*
Load reads the checkpoint file and restores it into the model
*/
func (m *Model) Load(path string, strict bool) (Progress, error) {
	r, err := LoadRecord(path)
	if err != nil {
		return Progress{}, err
	}
	return m.LoadStateDict(r, strict, m.optim != nil)
}

func matchKeys(params, loaded Params, strict bool) error {
	var missing, unexpected []string
	for k := range params {
		if _, ok := loaded[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k, v := range loaded {
		p, ok := params[k]
		if !ok {
			unexpected = append(unexpected, k)
			continue
		}
		if !p.SameShape(v) {
			return zorros.Errorf("parameter %v has shape %v, checkpoint has %v", k, p.Shape, v.Shape)
		}
	}
	if strict && len(missing)+len(unexpected) > 0 {
		sort.Strings(missing)
		sort.Strings(unexpected)
		return xerrors.Errorf("%w: missing keys [%v], unexpected keys [%v]",
			ErrStrictKeys, strings.Join(missing, ", "), strings.Join(unexpected, ", "))
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

/*
SaveRecord writes an xz compressed MessagePack record. The file is replaced only when
the whole record has been written.
*/
func SaveRecord(path string, r *Record) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, zorros.Trace(err)
	}
	wh, err := iokit.File(path).Create()
	if err != nil {
		return 0, zorros.Trace(err)
	}
	defer wh.End()
	cw := &countingWriter{w: wh}
	xw, err := xz.NewWriter(cw)
	if err != nil {
		return 0, zorros.Trace(err)
	}
	if err = msgp.Encode(xw, r); err != nil {
		return 0, zorros.Wrapf(err, "failed to encode checkpoint %v: %v", path, err.Error())
	}
	if err = xw.Close(); err != nil {
		return 0, zorros.Trace(err)
	}
	if err = wh.Commit(); err != nil {
		return 0, zorros.Trace(err)
	}
	return cw.n, nil
}

/*
LoadRecord reads a record written by SaveRecord
*/
func LoadRecord(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("%w: %v", ErrCheckpoint, err)
	}
	defer f.Close()
	xr, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, xerrors.Errorf("%w: %v is not an xz stream: %v", ErrCheckpoint, path, err)
	}
	r := &Record{}
	if err = msgp.Decode(xr, r); err != nil {
		return nil, xerrors.Errorf("%w: %v is corrupt: %v", ErrCheckpoint, path, err)
	}
	if r.Weights == nil {
		return nil, xerrors.Errorf("%w: %v has no weights", ErrCheckpoint, path)
	}
	return r, nil
}
