// Package diff implements the Zhang-Shasha tree edit distance over labeled
// ordered trees.
//
// Given a source and a destination tree it computes a minimum-cost sequence
// of insertions, deletions, and updates, and reports the node pairs judged
// equivalent as a [MappingStore]. Callers use the mapping to recognize
// unchanged subtrees across layout generations instead of tearing them down
// and rebuilding.
//
// Worst-case complexity is O(n² · min(depth, leaves)²), which is fine for
// layout trees: one node per window plus containers, rarely more than a few
// dozen.
package diff
