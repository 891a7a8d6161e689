// Package cgraph builds and queries the in-memory relationship graph over a
// classpath scan's output: one ClassNode per observed class/interface/
// annotation type, linked by extends, implements, annotated_by,
// field_type_uses, and method_type_uses edges. The graph is built once by a
// Linker and is read-only afterward;
// see package query for the safe read surface handed to callers.
package cgraph

import (
	"sort"

	"github.com/viant/cpgraph/classfile"
)

// Kind classifies a ClassNode the way javac's access_flags would.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindAnnotation
	KindEnum
	// KindExternal marks a node that was never scanned -- only referenced by
	// a scanned class's extends/implements/annotated_by/field or method type
	// use -- and materialized as a stub because retain_external_references
	// was enabled.
	KindExternal
)

// FieldInfo, MethodInfo and AnnotationInfo are aliases of
// classfile.RawFieldInfo/RawMethodInfo/RawAnnotationInfo, carried onto the
// frozen graph unchanged.
type FieldInfo = classfile.RawFieldInfo
type MethodInfo = classfile.RawMethodInfo
type AnnotationInfo = classfile.RawAnnotationInfo

// ClassNode is one vertex of the relationship graph.
type ClassNode struct {
	Name       string
	Kind       Kind
	Flags      classfile.ClassFlags
	Fields     []FieldInfo
	Methods    []MethodInfo
	SourceFile string
	Deprecated bool
	IsNested   bool

	// ClasspathEntry is the canonical classpath entry string this class was
	// read from (a directory, jar, or nested archive path); empty for
	// KindExternal stub nodes.
	ClasspathEntry string
	// RelativePath is the class's path within ClasspathEntry, e.g.
	// "com/example/Widget.class".
	RelativePath string
	// ContentHash is the keyed fingerprint of the winning classfile's raw
	// bytes; zero for KindExternal stub nodes.
	ContentHash uint64

	// Superclass is the direct extends edge; nil for java.lang.Object,
	// interfaces, and unresolved superclasses when retain_external_references
	// is disabled.
	Superclass *ClassNode
	// Interfaces are direct implements edges, sorted by name.
	Interfaces []*ClassNode
	// AnnotatedBy are direct, one-hop-only annotation-type edges: unlike
	// extends/implements, annotated_by is never transitively closed.
	AnnotatedBy []*ClassNode
	// FieldTypeUses/MethodTypeUses are direct type-reference edges derived
	// from the type names in Fields (declared and signature types) and
	// Methods (parameter, return, signature and thrown types) respectively.
	FieldTypeUses  []*ClassNode
	MethodTypeUses []*ClassNode

	// Subclasses, Implementors, Annotates, UsedAsFieldTypeBy, and
	// UsedAsMethodTypeBy are the reverse of the edges above, populated by
	// the Linker so queries can walk the graph in either direction without
	// a linear scan.
	Subclasses         []*ClassNode
	Implementors       []*ClassNode
	Annotates          []*ClassNode
	UsedAsFieldTypeBy  []*ClassNode
	UsedAsMethodTypeBy []*ClassNode

	// reachableSupertypes is the reflexive-transitive closure of
	// Superclass+Interfaces, computed once at freeze time; self is excluded,
	// order is deterministic.
	reachableSupertypes []*ClassNode
	// reachableSubtypes is the reverse closure: everything that transitively
	// extends/implements this node.
	reachableSubtypes []*ClassNode
}

// ReachableSupertypes returns every class/interface this node transitively
// extends or implements (not including itself), sorted by name.
func (n *ClassNode) ReachableSupertypes() []*ClassNode {
	return n.reachableSupertypes
}

// ReachableSubtypes returns every class that transitively extends or
// implements this node (not including itself).
func (n *ClassNode) ReachableSubtypes() []*ClassNode {
	return n.reachableSubtypes
}

func sortNodesByName(nodes []*ClassNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
}
