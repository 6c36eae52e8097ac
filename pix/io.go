package pix

import (
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros/zorros"
)

var extensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// IsImageFile reports whether the file name has a supported image extension
func IsImageFile(name string) bool {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

func newNRGBA64(w, h int) *image.NRGBA64 {
	return image.NewNRGBA64(image.Rect(0, 0, w, h))
}

// Load decodes a png or jpeg file
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, zorros.Wrapf(err, "failed to decode %v: %v", path, err.Error())
	}
	return FromImage(src), nil
}

/*
Save writes the image as png, the file appears only after the content is committed
*/
func Save(path string, m *Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zorros.Trace(err)
	}
	wh, err := iokit.File(path).Create()
	if err != nil {
		return zorros.Trace(err)
	}
	defer wh.End()
	if err = png.Encode(wh, m.NRGBA()); err != nil {
		return zorros.Wrapf(err, "failed to encode %v: %v", path, err.Error())
	}
	if err = wh.Commit(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}
