package sink

import (
	"slices"
	"sync"

	"github.com/matzehuels/vizbind/pkg/chart"
)

// Recorder keeps every batch it is asked to draw.
type Recorder struct {
	mu      sync.Mutex
	batches [][]chart.Command
}

func (r *Recorder) Draw(cmds []chart.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, slices.Clone(cmds))
	return nil
}

// Batches returns the recorded batches in draw order.
func (r *Recorder) Batches() [][]chart.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.batches)
}

// Passes returns only the batches produced by update passes.
func (r *Recorder) Passes() [][]chart.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out [][]chart.Command
	for _, b := range r.batches {
		if len(b) > 0 && b[0].Frame {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Commands returns all recorded commands flattened.
func (r *Recorder) Commands() []chart.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chart.Command
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = nil
}

// Tee draws every batch to each surface in turn, stopping at the first
// error.
func Tee(surfaces ...chart.Surface) chart.Surface {
	return chart.SurfaceFunc(func(cmds []chart.Command) error {
		for _, s := range surfaces {
			if err := s.Draw(cmds); err != nil {
				return err
			}
		}
		return nil
	})
}
