package data

import (
	"bufio"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go-ml.dev/pkg/sirs/fu"
	"go-ml.dev/pkg/sirs/pix"
	"go-ml.dev/pkg/zorros/zorros"
)

const (
	BlendedDir      = "blended"
	TransmissionDir = "transmission_layer"
	ReflectionDir   = "reflection_layer"
)

/*
ReadFns reads a list file with one image name per line, blank lines are skipped
*/
func ReadFns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer f.Close()
	var fns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			fns = append(fns, s)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, zorros.Trace(err)
	}
	return fns, nil
}

// listImages returns the sorted image file names of dir
func listImages(dir string) ([]string, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, zorros.Wrapf(err, "failed to list %v: %v", dir, err.Error())
	}
	var r []string
	for _, fi := range infos {
		if !fi.IsDir() && pix.IsImageFile(fi.Name()) {
			r = append(r, fi.Name())
		}
	}
	sort.Strings(r)
	return r, nil
}

func capSize(fns []string, size int) []string {
	if size > 0 && len(fns) > size {
		return fns[:size]
	}
	return fns
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func checkDir(dir string) error {
	if !isDir(dir) {
		return fu.ConfigErrorf("dataset directory %v does not exist", dir)
	}
	return nil
}

// Basename is the file name without directory and extension
func Basename(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
