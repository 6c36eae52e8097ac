package export

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go-ml.dev/pkg/sirs/pix"
	"go-ml.dev/pkg/zorros/zorros"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func Test_Writer1(t *testing.T) {
	w := NewWriter(2)
	var inflight, peak int32
	for i := 0; i < 10; i++ {
		i := i
		w.Go(func() error {
			n := atomic.AddInt32(&inflight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inflight, -1)
			if i%4 == 0 {
				return zorros.Errorf("write %d failed", i)
			}
			return nil
		})
	}
	err := w.Wait()
	assert.Assert(t, err != nil)
	assert.ErrorContains(t, err, "write 4 failed")
	assert.Assert(t, w.Written() == 7)
	assert.Assert(t, atomic.LoadInt32(&peak) <= 2)
}

func Test_Layout1(t *testing.T) {
	l := Layout{Dir: "/out", Suffix: "real20"}
	img := pix.New(1, 1)
	f := l.Files(&Set{Name: "run", Filename: "/data/blended/a.jpg", Input: img, T: img, R: img, RR: img, TargetT: img})
	for _, p := range []string{"run_t.png", "run_r.png", "run_rr.png", InputFile, TLabelFile} {
		_, ok := f[filepath.Join("/out/real20/a", p)]
		assert.Assert(t, ok, p)
	}
	assert.Assert(t, len(f) == 5)
	assert.Assert(t, l.Primary("run", "x/b.png") == "/out/real20/b/run_t.png")

	f = Layout{Dir: "/out"}.Files(&Set{Index: 3, Input: img, T: img})
	assert.Assert(t, len(f) == 2)
	_, ok := f["/out/transmission_layer/3.png"]
	assert.Assert(t, ok)
	_, ok = f["/out/blended/3.png"]
	assert.Assert(t, ok)
}

func Test_LayoutWrite1(t *testing.T) {
	dir := fs.NewDir(t, "export")
	defer dir.Remove()
	l := Layout{Dir: dir.Path()}
	img := pix.New(2, 2)
	w := NewWriter(3)
	assert.Assert(t, !l.Exists("run", "c.png"))
	l.Write(w, &Set{Name: "run", Filename: "c.png", Input: img, T: img, R: img, RR: img})
	assert.NilError(t, w.Wait())
	assert.Assert(t, w.Written() == 4)
	assert.Assert(t, l.Exists("run", "c.png"))
	_, err := os.Stat(filepath.Join(dir.Path(), "c", TLabelFile))
	assert.Assert(t, os.IsNotExist(err))
}

func Test_WriteFailure1(t *testing.T) {
	dir := fs.NewDir(t, "export", fs.WithFile("blocker", "x"))
	defer dir.Remove()
	img := pix.New(2, 2)
	good := Layout{Dir: dir.Path()}
	w := NewWriter(1)
	good.Write(w, &Set{Name: "run", Filename: "ok.png", Input: img, T: img, R: img, RR: img})
	assert.NilError(t, w.Wait())

	// a regular file where a directory is expected
	bad := Layout{Dir: filepath.Join(dir.Path(), "blocker")}
	w = NewWriter(1)
	bad.Write(w, &Set{Name: "run", Filename: "x.png", Input: img, T: img, R: img, RR: img})
	assert.Assert(t, w.Wait() != nil)
	assert.Assert(t, good.Exists("run", "ok.png"))
}
