// Package transition animates visual attributes between states.
//
// An [Engine] tracks the rendered attributes of every keyed mark of one
// chart instance. Entering marks animate from an enter state to their
// target, updating marks animate from wherever they currently are, and
// exiting marks animate to an exit state and are dropped once that
// animation completes.
//
// Time is supplied by the host through a [Scheduler]. The engine registers
// one tick callback per in-flight transition and keeps its token; when a new
// target arrives for a key, the old token is cancelled and the new
// transition starts from the value sampled at the scheduler's current time,
// so there is never a jump in the rendered value.
//
// [Clock] is a deterministic scheduler advanced explicitly by the host. It
// drives tests, the frame renderer and the terminal player.
package transition
