package hierarchy

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

var (
	// ErrCycle is returned when a node is its own ancestor.
	ErrCycle = stderrors.New("cyclic hierarchy")

	// ErrUnknownParent is returned when a parent key names no record.
	ErrUnknownParent = stderrors.New("unknown parent")

	// ErrDuplicateNode is returned when two nodes share a key.
	ErrDuplicateNode = stderrors.New("duplicate node key")
)

// PathSeparator joins level values into synthetic group keys.
const PathSeparator = "/"

// Node is one vertex of the tree. Parent and Children are arena indices.
type Node struct {
	Key       string
	Name      string // Display name: the level value for groups, the key otherwise
	Index     int
	Parent    int // -1 for roots
	Children  []int
	Depth     int
	Height    int
	Ancestors []string // Root-first keys, len == Depth
	Value     float64  // Leaf weight, or the sum of descendant leaf weights
	Level     string   // Level name of synthetic groups
	Synthetic bool
	Datum     accessor.Datum // Nil for synthetic groups
	Order     int            // Appearance order
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Path returns the ancestors followed by the node's own key.
func (n *Node) Path() []string {
	return append(append([]string(nil), n.Ancestors...), n.Key)
}

// Tree is a forest of nodes stored in an arena.
type Tree struct {
	Nodes []Node
	Roots []int

	index map[string]int
	cfg   Config
}

type record struct {
	key    string
	index  int
	datum  accessor.Datum
	weight float64
	parent string
	path   []string
}

// Build constructs the tree described by cfg over data.
func Build(data []accessor.Datum, cfg Config) (*Tree, []errors.Diagnostic, error) {
	recs, err := readRecords(data, cfg)
	if err != nil {
		return nil, nil, err
	}

	t := &Tree{index: make(map[string]int, len(recs)), cfg: cfg}
	if len(cfg.Levels) > 0 {
		err = t.linkLevels(recs)
	} else {
		err = t.linkParents(recs)
	}
	if err != nil {
		return nil, nil, err
	}

	for _, r := range t.Roots {
		t.visit(r, 0, nil)
	}

	var diags []errors.Diagnostic
	if len(recs) == 0 {
		diags = append(diags, errors.Diag(errors.DiagDegenerateInput, "hierarchy", "no records"))
	}
	return t, diags, nil
}

func readRecords(data []accessor.Datum, cfg Config) ([]record, error) {
	keyFn := cfg.Key.Resolve()
	valueFn := cfg.Value.Resolve()
	ancFn := cfg.Ancestors.Resolve()
	parentFn := cfg.Parent.Resolve()

	recs := make([]record, len(data))
	seen := make(map[string]int, len(data))
	for i, d := range data {
		r := record{key: strconv.Itoa(i), index: i, datum: d, weight: 1}
		if v := keyFn(d, i, data); !accessor.IsUndefined(v) {
			r.key = accessor.Text(v)
		}
		if j, dup := seen[r.key]; dup {
			return nil, errors.Wrap(errors.ErrCodeDuplicateKey, ErrDuplicateNode,
				"record %d repeats key %q of record %d", i, r.key, j)
		}
		seen[r.key] = i

		if cfg.Value.IsSet() {
			r.weight = 0
			if w, ok := accessor.Number(valueFn(d, i, data)); ok && w > 0 {
				r.weight = w
			}
		}

		switch {
		case len(cfg.Levels) > 0:
			for _, lvl := range cfg.Levels {
				v := lvl.Accessor.Eval(d, i, data)
				s := accessor.Text(v)
				if s == "" {
					break
				}
				r.path = append(r.path, s)
			}
		case cfg.Ancestors.IsSet():
			chain := chainOf(ancFn(d, i, data))
			for _, a := range chain {
				if a == r.key {
					return nil, errors.Wrap(errors.ErrCodeCyclicHierarchy, ErrCycle,
						"node %q appears in its own ancestor chain %v", r.key, chain)
				}
			}
			if len(chain) > 0 {
				r.parent = chain[len(chain)-1]
			}
		case cfg.Parent.IsSet():
			r.parent = accessor.Text(parentFn(d, i, data))
		}
		recs[i] = r
	}
	return recs, nil
}

func chainOf(v any) []string {
	if s, ok := accessor.Strings(v); ok {
		return s
	}
	if s := accessor.Text(v); s != "" {
		return []string{s}
	}
	return nil
}

func (t *Tree) add(n Node) int {
	n.Index = len(t.Nodes)
	n.Order = n.Index
	t.Nodes = append(t.Nodes, n)
	t.index[n.Key] = n.Index
	if n.Parent < 0 {
		t.Roots = append(t.Roots, n.Index)
	} else {
		t.Nodes[n.Parent].Children = append(t.Nodes[n.Parent].Children, n.Index)
	}
	return n.Index
}

func (t *Tree) linkLevels(recs []record) error {
	for _, r := range recs {
		parent := -1
		for j, name := range r.path {
			key := strings.Join(r.path[:j+1], PathSeparator)
			if idx, ok := t.index[key]; ok {
				if !t.Nodes[idx].Synthetic {
					return errors.Wrap(errors.ErrCodeDuplicateKey, ErrDuplicateNode,
						"group %q collides with record key", key)
				}
				parent = idx
				continue
			}
			parent = t.add(Node{
				Key:       key,
				Name:      name,
				Parent:    parent,
				Level:     t.cfg.Levels[j].Name,
				Synthetic: true,
			})
		}
		if _, ok := t.index[r.key]; ok {
			return errors.Wrap(errors.ErrCodeDuplicateKey, ErrDuplicateNode,
				"record key %q collides with a group", r.key)
		}
		t.add(Node{Key: r.key, Name: r.key, Parent: parent, Value: r.weight, Datum: r.datum})
	}
	return nil
}

func (t *Tree) linkParents(recs []record) error {
	parentOf := make(map[string]string, len(recs))
	for _, r := range recs {
		parentOf[r.key] = r.parent
	}
	for _, r := range recs {
		if r.parent == "" {
			continue
		}
		if _, ok := parentOf[r.parent]; !ok {
			return errors.Wrap(errors.ErrCodeUnknownParent, ErrUnknownParent,
				"node %q references parent %q", r.key, r.parent)
		}
	}
	if key, ok := findCycle(recs, parentOf); ok {
		return errors.Wrap(errors.ErrCodeCyclicHierarchy, ErrCycle,
			"node %q is its own ancestor", key)
	}

	// Parents may appear after their children, so allocate first and link
	// in a second pass.
	pos := make(map[string]int, len(recs))
	for i, r := range recs {
		pos[r.key] = i
		t.Nodes = append(t.Nodes, Node{
			Key:    r.key,
			Name:   r.key,
			Index:  i,
			Order:  i,
			Parent: -1,
			Value:  r.weight,
			Datum:  r.datum,
		})
		t.index[r.key] = i
	}
	for i, r := range recs {
		if r.parent == "" {
			t.Roots = append(t.Roots, i)
			continue
		}
		p := pos[r.parent]
		t.Nodes[i].Parent = p
		t.Nodes[p].Children = append(t.Nodes[p].Children, i)
	}
	return nil
}

// findCycle walks every parent chain with a visited set. Chains already
// proven to reach a root are not walked again.
func findCycle(recs []record, parentOf map[string]string) (string, bool) {
	acyclic := make(map[string]bool, len(recs))
	for _, r := range recs {
		seen := make(map[string]bool)
		for cur := r.key; cur != "" && !acyclic[cur]; cur = parentOf[cur] {
			if seen[cur] {
				return cur, true
			}
			seen[cur] = true
		}
		for k := range seen {
			acyclic[k] = true
		}
	}
	return "", false
}

// visit assigns depth, ancestors, height and aggregate value.
func (t *Tree) visit(i, depth int, ancestors []string) {
	n := &t.Nodes[i]
	n.Depth = depth
	n.Ancestors = ancestors

	if n.IsLeaf() {
		n.Height = 0
		return
	}
	path := n.Path()
	var height int
	var sum float64
	for _, c := range n.Children {
		t.visit(c, depth+1, path)
		child := &t.Nodes[c]
		height = max(height, child.Height+1)
		sum += child.Value
	}
	n.Height = height
	n.Value = sum
}

// Node returns the node with the given key.
func (t *Tree) Node(key string) (*Node, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return &t.Nodes[i], true
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Height returns the height of the tallest tree.
func (t *Tree) Height() int {
	h := 0
	for _, r := range t.Roots {
		h = max(h, t.Nodes[r].Height)
	}
	return h
}

// Walk visits nodes depth-first in child order. Returning false from fn
// skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var walk func(i int)
	walk = func(i int) {
		if !fn(&t.Nodes[i]) {
			return
		}
		for _, c := range t.Nodes[i].Children {
			walk(c)
		}
	}
	for _, r := range t.Roots {
		walk(r)
	}
}

// Leaves returns the leaf keys in depth-first order.
func (t *Tree) Leaves() []string {
	var out []string
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			out = append(out, n.Key)
		}
		return true
	})
	return out
}
