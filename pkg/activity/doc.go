/*
Package activity is the activity-diagram graph produced by a transformation.

A Graph is an arena of nodes keyed by caller-chosen ids plus an insertion-ordered edge
list that references those ids. Cycles (loop back-edges, resume jumps) need no special
handling. Adjacency is indexed in both directions so structural edits can rewire
edges in place.

The graph only grows: nodes and edges are never removed, and the only in-place change
is redirecting an edge endpoint during InsertNodeAfter / InsertNodeBefore. Every
mutation fails fast with one of the sentinel errors in errors.go.

A Graph is not safe for concurrent use. It is owned by a single transformation.
*/
package activity
