package chart

import (
	"strings"

	"github.com/matzehuels/vizbind/pkg/join"
	"github.com/matzehuels/vizbind/pkg/scale"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// State is the render state of one instance. It is created with the
// instance, replaced field by field at the end of every successful pass and
// torn down by Dispose.
type State struct {
	Items []join.Item
	X, Y  scale.Scale
	Marks map[string][]Mark
	Order []string // Component names of the last pass

	engine   *transition.Engine
	shapes   map[string]markRef // Engine key to mark identity
	rendered bool
}

type markRef struct {
	component string
	key       string
	shape     string
}

func newState() *State {
	return &State{
		Marks:  make(map[string][]Mark),
		shapes: make(map[string]markRef),
	}
}

// engineKey namespaces a mark key by component. Component names cannot
// contain the separator, see Config.Validate.
func engineKey(component, key string) string {
	return component + keySep + key
}

const keySep = "\x1f"

func splitEngineKey(k string) (component, key string) {
	component, key, _ = strings.Cut(k, keySep)
	return component, key
}

func markItems(ms []Mark) []join.Item {
	items := make([]join.Item, len(ms))
	for i, m := range ms {
		items[i] = join.Item{Key: m.Key, Index: i}
	}
	return items
}
