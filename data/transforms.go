package data

import (
	"fmt"
	"sync/atomic"

	"github.com/dgryski/go-spooky"
	"go-ml.dev/pkg/sirs/pix"
	"golang.org/x/exp/rand"
)

/*
Transforms are the random training augmentations: a square crop and a horizontal flip.
The randomness of every sample depends only on the run seed, the epoch and the file name.
*/
type Transforms struct {
	CropSize int
	Flip     bool
	Seed     int64

	epoch int32
}

func (t *Transforms) Reshuffle(epoch int) {
	atomic.StoreInt32(&t.epoch, int32(epoch))
}

// Rand returns the generator of the sample identified by key for the current epoch
func (t *Transforms) Rand(key string) *rand.Rand {
	var seed int64
	var epoch int32
	if t != nil {
		seed, epoch = t.Seed, atomic.LoadInt32(&t.epoch)
	}
	h := spooky.Hash64([]byte(fmt.Sprintf("%d/%d/%s", seed, epoch, key)))
	return rand.New(rand.NewSource(h))
}

/*
Apply crops and flips all images the same way, images are upscaled when smaller than the crop
*/
func (t *Transforms) Apply(rng *rand.Rand, imgs ...*pix.Image) []*pix.Image {
	r := make([]*pix.Image, len(imgs))
	copy(r, imgs)
	if t == nil || len(imgs) == 0 {
		return r
	}
	if t.CropSize > 0 {
		w, h := r[0].W, r[0].H
		if m := minInt(w, h); m < t.CropSize {
			w, h = (w*t.CropSize+m-1)/m, (h*t.CropSize+m-1)/m
		}
		x0 := rng.Intn(w - t.CropSize + 1)
		y0 := rng.Intn(h - t.CropSize + 1)
		for i, m := range r {
			if m.W != w || m.H != h {
				m = m.Resize(w, h)
			}
			r[i] = m.Crop(x0, y0, t.CropSize, t.CropSize)
		}
	}
	if t.Flip && rng.Float64() < 0.5 {
		for i, m := range r {
			r[i] = m.FlipH()
		}
	}
	return r
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
