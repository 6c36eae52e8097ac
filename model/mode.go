package model

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// ErrUnsupportedMode is returned when an input is staged for a mode the model does not know
var ErrUnsupportedMode = xerrors.New("unsupported mode")

/*
Mode selects which fields of a sample must be present when it is staged
*/
type Mode int

const (
	Train Mode = iota
	Eval
	Test
)

func (m Mode) String() string {
	switch m {
	case Train:
		return "train"
	case Eval:
		return "eval"
	case Test:
		return "test"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// NeedsTargets reports whether the mode requires both decomposition targets
func (m Mode) NeedsTargets() (bool, error) {
	switch m {
	case Train, Eval:
		return true, nil
	case Test:
		return false, nil
	}
	return false, xerrors.Errorf("mode %d: %w", int(m), ErrUnsupportedMode)
}

// ParseMode converts the textual mode used in configuration files
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "train":
		return Train, nil
	case "eval":
		return Eval, nil
	case "test":
		return Test, nil
	}
	return 0, xerrors.Errorf("mode %q: %w", s, ErrUnsupportedMode)
}
