// Package labels allocates the monotonically increasing assembly labels the
// code generator needs for control flow and short-circuit boolean lowering.
// It is adapted from the teacher compiler's instructions.go: that package
// tagged a small closed set of RPN instruction kinds with byte constants;
// here the same catalog-of-constants idiom tags label-site prefixes
// instead, paired with the per-compilation counter the teacher threaded by
// hand through genPower/genFactorial's "i" parameter.
package labels

import "fmt"

// Prefix names a label-allocation site. Each site's labels never collide
// with another site's because every prefix is distinct.
type Prefix string

// The label-site prefixes spec.md §4.3 names.
const (
	LoopStart       Prefix = "loop_start"
	LoopEnd         Prefix = "loop_end"
	Cond            Prefix = "cond"
	PostCond        Prefix = "post_cond"
	Conditional     Prefix = "conditional"
	PostConditional Prefix = "post_conditional"
	Clause          Prefix = "_clause"
)

// Allocator hands out unique "prefix_N" labels from a single monotonic
// counter shared across every prefix, so that labels are globally unique
// within one compilation even when two sites reuse the same index.
type Allocator struct {
	next int
}

// New returns an Allocator starting its counter at zero.
func New() *Allocator {
	return &Allocator{}
}

// Next returns the next label for prefix and advances the counter.
func (a *Allocator) Next(prefix Prefix) string {
	label := fmt.Sprintf("%s_%d", prefix, a.next)
	a.next++
	return label
}
