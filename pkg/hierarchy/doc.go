// Package hierarchy builds trees from flat records and lays them out
// radially for chord diagrams.
//
// # Building
//
// [Build] turns records into a forest. The structure comes from one of:
//
//   - Levels: named accessors whose values form a root-first path. Every
//     path prefix becomes a synthetic group node keyed by the path joined
//     with "/", and the record becomes a leaf under the deepest group.
//   - Ancestors: an accessor returning the root-first list of ancestor keys.
//     The last entry is the parent and must be the key of another record.
//   - Parent: an accessor returning the parent key directly.
//
// Records without any of these are roots. Nodes live in an arena and refer
// to each other by index. Cycles and references to unknown parents are
// configuration errors, detected before the arena is built.
//
// # Layout
//
// [Tree.Layout] partitions the angular range among roots in proportion to
// their total leaf weight, then recurses into every group. Each height gets
// its own ring, leaves innermost, so ribbons meet the leaves at the inner
// radius. Ribbon ends are sorted around each leaf by the angle of the
// opposite end, which keeps ribbons of one leaf from crossing each other.
package hierarchy
