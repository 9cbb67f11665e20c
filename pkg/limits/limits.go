// Package limits bounds the recursion depth of the tree-walking pipeline
// stages. Nesting depth is attacker-controlled, so every stage that descends
// into a tree threads a Depth through its recursion and stops with a
// StructureError once the configured maximum is crossed.
package limits

import "fmt"

// DefaultMaxDepth is used whenever a caller supplies a non-positive maximum.
const DefaultMaxDepth = 512

// StructureError reports a document whose nesting exceeds the allowed depth.
type StructureError struct {
	Stage string // "html", "style" or "layout"
	Depth int
	Max   int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: nesting depth %d exceeds maximum %d", e.Stage, e.Depth, e.Max)
}

// Depth is an immutable recursion counter. Descend returns the counter for
// the next level down, or a StructureError if that level is too deep.
type Depth struct {
	stage   string
	current int
	max     int
}

// NewDepth starts a counter at level zero.
func NewDepth(stage string, max int) Depth {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	return Depth{stage: stage, max: max}
}

// Descend returns the counter one level deeper.
func (d Depth) Descend() (Depth, error) {
	next := d.current + 1
	if next > d.max {
		return d, &StructureError{Stage: d.stage, Depth: next, Max: d.max}
	}
	return Depth{stage: d.stage, current: next, max: d.max}, nil
}

// Level returns the current depth.
func (d Depth) Level() int { return d.current }

// Check reports whether a depth reached without a Depth counter, such as an
// explicit stack length, is still within bounds.
func Check(stage string, depth, max int) error {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	if depth > max {
		return &StructureError{Stage: stage, Depth: depth, Max: max}
	}
	return nil
}
