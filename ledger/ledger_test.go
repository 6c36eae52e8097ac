package ledger

import (
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func Test_Ledger1(t *testing.T) {
	dir := fs.NewDir(t, "ledger")
	defer dir.Remove()
	l, err := Open(filepath.Join(dir.Path(), "runs.db"))
	assert.NilError(t, err)
	defer l.Close()

	psnr, ssim := 22.5, 0.81
	assert.NilError(t, l.Record(Entry{Run: "a", Epoch: 1, Dataset: "real20", PSNR: &psnr, SSIM: &ssim, Scored: 20, Saved: 10}))
	assert.NilError(t, l.Record(Entry{Run: "a", Epoch: 1, Dataset: "wild", Saved: 3, Failures: 1}))
	assert.NilError(t, l.Record(Entry{Run: "b", Epoch: 7, Dataset: "real20"}))

	r, err := l.Results("a")
	assert.NilError(t, err)
	assert.Assert(t, len(r) == 2)
	assert.Assert(t, r[0].Dataset == "real20" && *r[0].PSNR == psnr && *r[0].SSIM == ssim)
	assert.Assert(t, r[0].Scored == 20 && r[0].Saved == 10)
	assert.Assert(t, r[1].PSNR == nil && r[1].SSIM == nil)
	assert.Assert(t, r[1].Failures == 1)
	assert.Assert(t, !r[1].Created.IsZero())
}

func Test_Ledger2(t *testing.T) {
	l, err := Open(":memory:")
	assert.NilError(t, err)
	defer l.Close()
	r, err := l.Results("none")
	assert.NilError(t, err)
	assert.Assert(t, len(r) == 0)
}
