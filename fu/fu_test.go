package fu

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/xerrors"
	"gotest.tools/v3/assert"
)

func Test_Ints1(t *testing.T) {
	assert.Assert(t, Fnzi(0, 0, 3, 4) == 3)
	assert.Assert(t, Fnzi(0) == 0)
	assert.Assert(t, Maxi(1, 5, 2) == 5)
	assert.Assert(t, Mini(4, 5, 2) == 2)
}

func Test_Floats1(t *testing.T) {
	a, b := []float32{0, 1, 2}, []float32{1, 1, 0}
	assert.Assert(t, Mae(a, b) == 1)
	assert.Assert(t, Mse(a, b) > 1.6666 && Mse(a, b) < 1.6667)
	assert.Assert(t, Mean(a) == 1)
	assert.Assert(t, Clamp01(-1) == 0 && Clamp01(2) == 1 && Clamp01(0.5) == 0.5)
}

func Test_Path1(t *testing.T) {
	assert.Assert(t, CheckpointPath("/abs/run") == "/abs/run")
	p := CheckpointPath("run")
	assert.Assert(t, filepath.Base(p) == "run")
	assert.Assert(t, filepath.Base(filepath.Dir(p)) == "Checkpoints")
	assert.Assert(t, CheckpointPath("./checkpoints") == "./checkpoints")
	assert.Assert(t, CheckpointPath("../w/run.ckpt") == "../w/run.ckpt")
	tm := time.Date(2020, 4, 21, 3, 21, 44, 0, time.UTC)
	assert.Assert(t, FormattedTime(tm) == "20200421-032144")
}

func Test_ConfigError1(t *testing.T) {
	err := ConfigErrorf("bad %v", 1)
	assert.Assert(t, xerrors.Is(err, ErrConfig))
	assert.ErrorContains(t, err, "bad 1")
}
