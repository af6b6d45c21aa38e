// Package join reconciles two keyed item sets into entering, updating and
// exiting groups.
//
// Items are keyed by an explicit key accessor, or by position when the
// accessor is absent. Keys that persist across two snapshots identify the
// same visual element, which is what lets the transition engine animate it
// instead of recreating it.
//
// Ordering is deterministic: entering and updating items follow the new
// dataset's order, exiting items follow the previous dataset's order.
package join

import (
	"strconv"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

// Policy decides what happens when two datums share a key.
type Policy int

const (
	// FirstWins keeps the first occurrence, drops later ones and reports a
	// DUPLICATE_KEY diagnostic.
	FirstWins Policy = iota
	// Reject fails the pass with a DUPLICATE_KEY configuration error.
	Reject
)

func (p Policy) String() string {
	if p == Reject {
		return "reject"
	}
	return "first-wins"
}

// Item is a keyed datum. Index is the datum's position in its dataset.
type Item struct {
	Key   string
	Index int
	Datum accessor.Datum
}

// Pair links the previous and the new item for an updating key.
type Pair struct {
	Old Item
	New Item
}

// Result is the outcome of a join.
type Result struct {
	Entering []Item
	Updating []Pair
	Exiting  []Item
}

// Counts returns the size of each group.
func (r Result) Counts() (entering, updating, exiting int) {
	return len(r.Entering), len(r.Updating), len(r.Exiting)
}

// Keys derives an Item per datum. A datum whose key accessor is absent or
// yields Undefined is keyed by its index. Duplicate keys are handled by
// policy.
func Keys(data []accessor.Datum, key accessor.Accessor, policy Policy) ([]Item, []errors.Diagnostic, error) {
	fn := key.Resolve()
	items := make([]Item, 0, len(data))
	seen := make(map[string]int, len(data))
	var diags []errors.Diagnostic

	for i, d := range data {
		k := strconv.Itoa(i)
		if v := fn(d, i, data); !accessor.IsUndefined(v) {
			k = accessor.Text(v)
		}
		if first, dup := seen[k]; dup {
			if policy == Reject {
				return nil, nil, errors.New(errors.ErrCodeDuplicateKey,
					"key %q at index %d duplicates index %d", k, i, first)
			}
			diags = append(diags, errors.Diag(errors.DiagDuplicateKey, "join",
				"key %q at index %d duplicates index %d, keeping the first", k, i, first))
			continue
		}
		seen[k] = i
		items = append(items, Item{Key: k, Index: i, Datum: d})
	}
	return items, diags, nil
}

// Join classifies next against prev. Both sets must have unique keys, as
// produced by Keys.
func Join(prev, next []Item) Result {
	old := make(map[string]int, len(prev))
	for i, it := range prev {
		old[it.Key] = i
	}
	present := make(map[string]bool, len(next))

	var r Result
	for _, it := range next {
		present[it.Key] = true
		if i, ok := old[it.Key]; ok {
			r.Updating = append(r.Updating, Pair{Old: prev[i], New: it})
		} else {
			r.Entering = append(r.Entering, it)
		}
	}
	for _, it := range prev {
		if !present[it.Key] {
			r.Exiting = append(r.Exiting, it)
		}
	}
	return r
}

// KeySet returns the keys of items in order.
func KeySet(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}
