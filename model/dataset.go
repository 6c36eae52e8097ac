package model

import (
	"go-ml.dev/pkg/sirs/data"
	"go-ml.dev/pkg/zorros/zorros"
)

/*
Input is a batch staged for one mode
*/
type Input struct {
	Mode    Mode
	Samples []*data.Sample
}

func stage(b *data.Batch, mode Mode) (*Input, error) {
	needsTargets, err := mode.NeedsTargets()
	if err != nil {
		return nil, err
	}
	if b == nil || b.Len() == 0 {
		return nil, zorros.Errorf("empty batch staged for %v", mode)
	}
	for _, s := range b.Samples {
		if s.Input == nil {
			return nil, zorros.Errorf("sample %q has no input image", s.Filename)
		}
		if !needsTargets {
			continue
		}
		if s.TargetT == nil || s.TargetR == nil {
			return nil, zorros.Errorf("sample %q has no targets, required in %v mode", s.Filename, mode)
		}
		if !s.Input.SameSize(s.TargetT) || !s.Input.SameSize(s.TargetR) {
			return nil, zorros.Errorf("sample %q targets differ in size from the input", s.Filename)
		}
	}
	return &Input{Mode: mode, Samples: b.Samples}, nil
}
