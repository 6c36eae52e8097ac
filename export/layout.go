/*
Package export lays out the images produced by evaluation and test runs.
*/
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/sirs/pix"
)

const (
	InputFile  = "m_input.png"
	TLabelFile = "t_label.png"
	RLabelFile = "r_label.png"
)

/*
Set is one exported decomposition
*/
type Set struct {
	Name     string // run name prefixing predicted images
	Filename string // source file, empty when unknown
	Index    int    // position used when the filename is unknown
	Input    *pix.Image
	T, R, RR *pix.Image
	TargetT  *pix.Image // optional
	TargetR  *pix.Image // optional
}

/*
Layout maps sets to files under Dir/[Suffix/]
*/
type Layout struct {
	Dir    string
	Suffix string
}

func (l Layout) root() string {
	if l.Suffix != "" {
		return filepath.Join(l.Dir, l.Suffix)
	}
	return l.Dir
}

// SetDir is the directory holding the images of a named set
func (l Layout) SetDir(filename string) string {
	return filepath.Join(l.root(), data.Basename(filename))
}

func (l Layout) numbered(dir string, index int) string {
	return filepath.Join(l.root(), dir, fmt.Sprintf("%d.png", index))
}

// Primary is the file whose presence means the set was already exported
func (l Layout) Primary(name, filename string) string {
	return filepath.Join(l.SetDir(filename), name+"_t.png")
}

/*
Files returns the destination of every image of the set.
Without a filename only the transmission and the input are kept, numbered by Index.
*/
func (l Layout) Files(s *Set) map[string]*pix.Image {
	r := map[string]*pix.Image{}
	if s.Filename == "" {
		r[l.numbered(data.TransmissionDir, s.Index)] = s.T
		r[l.numbered(data.BlendedDir, s.Index)] = s.Input
		return r
	}
	d := l.SetDir(s.Filename)
	r[filepath.Join(d, s.Name+"_t.png")] = s.T
	r[filepath.Join(d, s.Name+"_r.png")] = s.R
	r[filepath.Join(d, s.Name+"_rr.png")] = s.RR
	r[filepath.Join(d, InputFile)] = s.Input
	if s.TargetT != nil {
		r[filepath.Join(d, TLabelFile)] = s.TargetT
	}
	if s.TargetR != nil {
		r[filepath.Join(d, RLabelFile)] = s.TargetR
	}
	return r
}

/*
Write schedules every image of the set on the writer
*/
func (l Layout) Write(w *Writer, s *Set) {
	for path, m := range l.Files(s) {
		if m == nil {
			continue
		}
		path, m := path, m
		w.Go(func() error { return pix.Save(path, m) })
	}
}

// Exists reports whether the set was exported already
func (l Layout) Exists(name, filename string) bool {
	_, err := os.Stat(l.Primary(name, filename))
	return err == nil
}

// Exported is Exists for a set that may have no filename, then its transmission is looked up by Index
func (l Layout) Exported(s *Set) bool {
	if s.Filename != "" {
		return l.Exists(s.Name, s.Filename)
	}
	_, err := os.Stat(l.numbered(data.TransmissionDir, s.Index))
	return err == nil
}
