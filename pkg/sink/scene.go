package sink

import (
	"cmp"
	"slices"
	"sync"

	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Mark is one retained element of a scene.
type Mark struct {
	Component string           `json:"component"`
	Key       string           `json:"key"`
	Shape     string           `json:"shape"`
	Phase     string           `json:"phase"`
	Attrs     transition.Attrs `json:"attrs"`
}

// Exiting reports whether the mark is animating out.
func (m Mark) Exiting() bool { return m.Phase == chart.PhaseExit }

type markID struct{ component, key string }

// Scene applies draw commands to a retained set of marks.
type Scene struct {
	mu         sync.Mutex
	marks      map[markID]*Mark
	components []string // First-appearance order
}

func NewScene() *Scene {
	return &Scene{marks: make(map[markID]*Mark)}
}

// Draw applies cmds in order. A finished exit removes its mark.
func (s *Scene) Draw(cmds []chart.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cmds {
		id := markID{c.Component, c.Key}
		if c.Phase == chart.PhaseExit && c.Done {
			delete(s.marks, id)
			continue
		}
		m, ok := s.marks[id]
		if !ok {
			m = &Mark{Component: c.Component, Key: c.Key}
			s.marks[id] = m
			if !slices.Contains(s.components, c.Component) {
				s.components = append(s.components, c.Component)
			}
		}
		if c.Shape != "" {
			m.Shape = c.Shape
		}
		m.Phase = c.Phase
		m.Attrs = c.Attrs.Clone()
	}
	return nil
}

// Marks returns the retained marks grouped by component, in the order
// components were first drawn, and sorted by key within a component.
func (s *Scene) Marks() []Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	rank := make(map[string]int, len(s.components))
	for i, c := range s.components {
		rank[c] = i
	}
	out := make([]Mark, 0, len(s.marks))
	for _, m := range s.marks {
		cp := *m
		cp.Attrs = m.Attrs.Clone()
		out = append(out, cp)
	}
	slices.SortFunc(out, func(a, b Mark) int {
		return cmp.Or(cmp.Compare(rank[a.Component], rank[b.Component]), cmp.Compare(a.Key, b.Key))
	})
	return out
}

// Mark returns one retained mark.
func (s *Scene) Mark(component, key string) (Mark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.marks[markID{component, key}]
	if !ok {
		return Mark{}, false
	}
	cp := *m
	cp.Attrs = m.Attrs.Clone()
	return cp, true
}

func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.marks)
}
