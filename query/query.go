// Package query is the read-only surface handed to callers over a frozen
// cgraph.ScanResult: name lookup, direct/reachable relation accessors
// (subclasses_of, superinterfaces_of, implementors_of, annotations_on, ...),
// predicate filtering, and set algebra across result sets that preserves the
// direct-vs-reachable distinction rather than collapsing it.
package query

import (
	"sort"

	"github.com/viant/cpgraph/cgraph"
)

// Query wraps a frozen ScanResult with the operations callers actually need,
// so nothing outside cgraph.Linker ever has to reach into ClassNode's raw
// edge slices directly.
type Query struct {
	result *cgraph.ScanResult
}

// New wraps result for querying. result must not be mutated afterward;
// cgraph.ScanResult already enforces this by construction.
func New(result *cgraph.ScanResult) *Query {
	return &Query{result: result}
}

// Lookup returns the node named name, or nil if it was never scanned (and
// never retained as an external reference either).
func (q *Query) Lookup(name string) *cgraph.ClassNode {
	return q.result.Lookup(name)
}

// All returns every node in the graph, in deterministic name order.
func (q *Query) All() []*cgraph.ClassNode {
	return q.result.All()
}

// Len reports how many nodes the graph holds.
func (q *Query) Len() int {
	return q.result.Len()
}

// SuperclassOf returns name's direct extends edge, or nil if name is unknown,
// is java.lang.Object, is an interface, or its superclass was never scanned
// and external references are not retained.
func (q *Query) SuperclassOf(name string) *cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return n.Superclass
}

// SubclassesOf returns the classes that extend name, directly when reachable
// is false or transitively (excluding name itself) when true. Interfaces
// implementing name are never included here; see ImplementorsOf.
func (q *Query) SubclassesOf(name string, reachable bool) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	if !reachable {
		return onlyKind(n.Subclasses, cgraph.KindClass, cgraph.KindEnum)
	}
	return onlyKind(n.ReachableSubtypes(), cgraph.KindClass, cgraph.KindEnum)
}

// SuperclassesOf returns name's ancestor chain: direct is just [SuperclassOf]
// (at most one element), reachable walks the full extends chain up to but
// excluding java.lang.Object.
func (q *Query) SuperclassesOf(name string, reachable bool) []*cgraph.ClassNode {
	if !reachable {
		if sup := q.SuperclassOf(name); sup != nil {
			return []*cgraph.ClassNode{sup}
		}
		return nil
	}
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return onlyKind(n.ReachableSupertypes(), cgraph.KindClass, cgraph.KindEnum)
}

// ImplementorsOf returns the classes that implement the interface name,
// directly or through the full extends/implements closure.
func (q *Query) ImplementorsOf(name string, reachable bool) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	if !reachable {
		return onlyKind(n.Implementors, cgraph.KindClass, cgraph.KindEnum)
	}
	return onlyKind(n.ReachableSubtypes(), cgraph.KindClass, cgraph.KindEnum)
}

// SuperinterfacesOf returns the interfaces name directly or transitively
// extends/implements.
func (q *Query) SuperinterfacesOf(name string, reachable bool) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	if !reachable {
		return onlyKind(n.Interfaces, cgraph.KindInterface)
	}
	return onlyKind(n.ReachableSupertypes(), cgraph.KindInterface)
}

// AnnotationsOn returns the annotation types directly present on name.
// Per the one-hop rule, an annotation that is itself annotated is not
// expanded automatically; call AnnotationsOn again on its type name if that
// second hop is wanted.
func (q *Query) AnnotationsOn(name string) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return n.AnnotatedBy
}

// AnnotatedClasses returns the classes directly carrying the annotation type
// name, the reverse of AnnotationsOn.
func (q *Query) AnnotatedClasses(name string) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return n.Annotates
}

// FieldTypeUsesOf returns the types directly referenced by name's field
// declarations (declared types and generic signature pieces).
func (q *Query) FieldTypeUsesOf(name string) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return n.FieldTypeUses
}

// MethodTypeUsesOf returns the types directly referenced by name's method
// signatures (parameters, return types, thrown exceptions, generics).
func (q *Query) MethodTypeUsesOf(name string) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return n.MethodTypeUses
}

// UsedAsFieldTypeBy returns the classes that declare a field typed name, the
// reverse of FieldTypeUsesOf.
func (q *Query) UsedAsFieldTypeBy(name string) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return n.UsedAsFieldTypeBy
}

// UsedAsMethodTypeBy returns the classes that reference name in a method
// signature, the reverse of MethodTypeUsesOf.
func (q *Query) UsedAsMethodTypeBy(name string) []*cgraph.ClassNode {
	n := q.result.Lookup(name)
	if n == nil {
		return nil
	}
	return n.UsedAsMethodTypeBy
}

// Filter returns every node for which keep reports true, in deterministic
// name order.
func (q *Query) Filter(keep func(*cgraph.ClassNode) bool) []*cgraph.ClassNode {
	var out []*cgraph.ClassNode
	for _, n := range q.result.All() {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

func onlyKind(nodes []*cgraph.ClassNode, kinds ...cgraph.Kind) []*cgraph.ClassNode {
	if len(kinds) == 0 {
		return nodes
	}
	var out []*cgraph.ClassNode
	for _, n := range nodes {
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Set is a deduplicated, name-ordered collection of nodes supporting the set
// algebra callers need to combine multiple query results (e.g. "classes
// reachable from p.I minus classes annotated @Deprecated") without losing
// the direct-vs-reachable distinction baked into how each operand was built.
type Set struct {
	byName map[string]*cgraph.ClassNode
}

// NewSet builds a Set from zero or more node slices, deduplicating by name.
func NewSet(groups ...[]*cgraph.ClassNode) Set {
	s := Set{byName: make(map[string]*cgraph.ClassNode)}
	for _, g := range groups {
		for _, n := range g {
			s.byName[n.Name] = n
		}
	}
	return s
}

// Union returns a new Set containing every node in s or other.
func (s Set) Union(other Set) Set {
	out := Set{byName: make(map[string]*cgraph.ClassNode, len(s.byName)+len(other.byName))}
	for name, n := range s.byName {
		out.byName[name] = n
	}
	for name, n := range other.byName {
		out.byName[name] = n
	}
	return out
}

// Intersect returns a new Set containing only nodes present in both s and
// other.
func (s Set) Intersect(other Set) Set {
	out := Set{byName: make(map[string]*cgraph.ClassNode)}
	for name, n := range s.byName {
		if _, ok := other.byName[name]; ok {
			out.byName[name] = n
		}
	}
	return out
}

// Difference returns a new Set containing nodes present in s but not other.
func (s Set) Difference(other Set) Set {
	out := Set{byName: make(map[string]*cgraph.ClassNode)}
	for name, n := range s.byName {
		if _, ok := other.byName[name]; !ok {
			out.byName[name] = n
		}
	}
	return out
}

// Contains reports whether name is a member of s.
func (s Set) Contains(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Len reports how many nodes s holds.
func (s Set) Len() int {
	return len(s.byName)
}

// Slice returns s's members in deterministic name order.
func (s Set) Slice() []*cgraph.ClassNode {
	out := make([]*cgraph.ClassNode, 0, len(s.byName))
	for _, n := range s.byName {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
