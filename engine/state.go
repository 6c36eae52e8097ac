package engine

import (
	"fmt"

	"go-ml.dev/pkg/zorros/zorros"
)

/*
Phase is the position of the engine in the epoch cycle
*/
type Phase int

const (
	Idle Phase = iota
	Training
	Evaluating
	Checkpointed
	Done
)

var phaseNames = map[Phase]string{
	Idle:         "idle",
	Training:     "training",
	Evaluating:   "evaluating",
	Checkpointed: "checkpointed",
	Done:         "done",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// legal successors, every epoch runs training, any number of evaluations, then the checkpoint
var transitions = map[Phase][]Phase{
	Idle:         {Training, Evaluating, Checkpointed, Done},
	Training:     {Evaluating, Checkpointed, Done},
	Evaluating:   {Evaluating, Checkpointed, Done},
	Checkpointed: {Training, Evaluating, Checkpointed, Done},
}

/*
State is the progress of the engine, Epoch and Iterations never decrease
*/
type State struct {
	Phase      Phase
	Epoch      int
	Iterations int
	Failures   int // samples skipped because they could not be loaded or staged
}

func (s *State) transition(to Phase) error {
	for _, p := range transitions[s.Phase] {
		if p == to {
			s.Phase = to
			return nil
		}
	}
	return zorros.Errorf("illegal engine transition %v -> %v at epoch %d", s.Phase, to, s.Epoch)
}
