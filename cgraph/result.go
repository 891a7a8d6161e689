package cgraph

import (
	"fmt"
	"sort"
)

// MaskedResource records one classpath entry that lost first-writer-wins
// masking: a later root defined the same relative path as an earlier one,
// so its class data never reached the graph.
type MaskedResource struct {
	ClasspathEntry string
	RelativePath   string
	// Rank is the masked entry's own classpath rank, not the winner's.
	Rank int
	// ContentHash is the masked entry's own content fingerprint, letting a
	// caller tell a truly redundant duplicate apart from a conflicting
	// definition without re-reading either classfile.
	ContentHash uint64
}

func sortMaskedResources(m []MaskedResource) {
	sort.Slice(m, func(i, j int) bool {
		if m[i].Rank != m[j].Rank {
			return m[i].Rank < m[j].Rank
		}
		return m[i].RelativePath < m[j].RelativePath
	})
}

// ScanResult is the frozen output of a Linker.Link call: every class node
// reachable from the scan, indexed by name and available in deterministic
// name order. It is read-only; package query wraps it with the safe
// caller-facing surface (set algebra, filtering, name lookup).
type ScanResult struct {
	classes map[string]*ClassNode
	ordered []*ClassNode
	masked  []MaskedResource
}

// MaskedResources returns every resource masking dropped, in classpath-rank
// order, then relative path.
func (r *ScanResult) MaskedResources() []MaskedResource {
	return r.masked
}

// Lookup returns the node for name, or nil if it wasn't scanned (and wasn't
// retained as an external reference either).
func (r *ScanResult) Lookup(name string) *ClassNode {
	return r.classes[name]
}

// All returns every node in the graph, in deterministic name order. Callers
// must not mutate the returned slice's backing array.
func (r *ScanResult) All() []*ClassNode {
	return r.ordered
}

// Len reports how many nodes (including external stubs, if retained) the
// graph holds.
func (r *ScanResult) Len() int {
	return len(r.ordered)
}

func errDuplicateClass(name string) error {
	return fmt.Errorf("duplicate class %s reached Linker.Link -- masking should have been applied upstream", name)
}
