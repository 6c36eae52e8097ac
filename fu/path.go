package fu

import (
	"path/filepath"
	"strings"
	"time"

	"go-ml.dev/pkg/iokit"
)

/*
CheckpointPath resolves bare checkpoint names into the iokit cache directory.
Absolute paths and paths starting with ./ or ../ are taken as they are.
*/
func CheckpointPath(s string) string {
	if filepath.IsAbs(s) || local(s) {
		return s
	}
	return iokit.CacheFile(filepath.Join("go-ml", "Checkpoints", s))
}

func local(s string) bool {
	s = filepath.ToSlash(s)
	return s == "." || s == ".." || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}

// FormattedTime is the timestamp used to name result directories
func FormattedTime(t time.Time) string {
	return t.Format("20060102-150405")
}
