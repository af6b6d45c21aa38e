package chart

import (
	"time"

	"github.com/matzehuels/vizbind/pkg/transition"
)

// Command phases.
const (
	PhaseEnter  = "enter"
	PhaseUpdate = "update"
	PhaseExit   = "exit"
)

// Command is one draw instruction for the surface.
//
// Commands from an update pass carry the mark's current attributes, its
// target and the duration to reach it. Frame commands are sent on every
// transition tick with the sampled attributes. A command with Done set is
// the final state of its mark for this transition; for the exit phase it
// means the mark must be removed.
type Command struct {
	Component string           `json:"component"`
	Key       string           `json:"key"`
	Shape     string           `json:"shape"`
	Phase     string           `json:"phase"`
	Attrs     transition.Attrs `json:"attrs"`
	Target    transition.Attrs `json:"target,omitempty"`
	Duration  time.Duration    `json:"duration,omitempty"`
	Frame     bool             `json:"frame,omitempty"`
	Done      bool             `json:"done,omitempty"`
}

// Surface receives draw commands. Draw is called once per update pass and
// once per transition frame.
type Surface interface {
	Draw(cmds []Command) error
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(cmds []Command) error

func (f SurfaceFunc) Draw(cmds []Command) error { return f(cmds) }
