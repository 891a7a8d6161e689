package cgraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/cpgraph/classfile"
	"github.com/viant/cpgraph/scanerr"
	"github.com/viant/cpgraph/scanlog"
)

// ScannedClass pairs one classfile's parsed facts with the classpath
// location it was read from. The scan package is responsible for producing
// exactly one ScannedClass per distinct class name: the first classpath
// entry to define a class name wins, every later definition is masked.
// Linker trusts that invariant and does not re-check for duplicates itself.
type ScannedClass struct {
	Info           *classfile.RawClassInfo
	ClasspathEntry string
	RelativePath   string
	// ContentHash is a keyed 64-bit fingerprint of the classfile's raw bytes,
	// computed by scan before parsing. It lets a masking diagnostic report
	// whether the entry it dropped actually differed from the winner, not
	// merely that a later root also defined the name.
	ContentHash uint64
}

// Linker turns a masked, classpath-ordered list of ScannedClass into a
// frozen relationship graph.
type Linker struct {
	// RetainExternalReferences controls whether a name referenced by an
	// extends/implements/annotated_by/field or method type use, but never
	// itself scanned, materializes as a KindExternal stub node (true) or is
	// simply left as a missing edge (false). Mirrors cpconfig's
	// retain_external_references option.
	RetainExternalReferences bool
}

// Link builds the graph. It never returns a partially-wired result: on
// error the caller gets nil. masked lists every resource that lost first-
// writer-wins masking upstream; Link does not recompute masking, only
// carries the list onto the frozen ScanResult. A cyclic extends chain in the
// scanned classes is tolerated (the closure computation below still
// terminates) but is reported as a warning against ctx via scanlog.Warn,
// since java.lang.Object is the only implicit root a well-formed extends
// forest should ever bottom out at.
func (l *Linker) Link(ctx context.Context, classes []ScannedClass, masked []MaskedResource) (*ScanResult, error) {
	nodes := make(map[string]*ClassNode, len(classes))

	// Phase 1: intern names, materialize one node per scanned class.
	for _, sc := range classes {
		if _, exists := nodes[sc.Info.Name]; exists {
			return nil, scanerr.New(scanerr.Internal, "cgraph.Link", errDuplicateClass(sc.Info.Name))
		}
		nodes[sc.Info.Name] = &ClassNode{
			Name:           sc.Info.Name,
			Kind:           kindOf(sc.Info.Flags),
			Flags:          sc.Info.Flags,
			Fields:         sc.Info.Fields,
			Methods:        sc.Info.Methods,
			SourceFile:     sc.Info.SourceFile,
			Deprecated:     sc.Info.Deprecated,
			IsNested:       sc.Info.IsNested,
			ClasspathEntry: sc.ClasspathEntry,
			RelativePath:   sc.RelativePath,
			ContentHash:    sc.ContentHash,
		}
	}

	resolve := func(name string) *ClassNode {
		return l.resolveNode(nodes, name)
	}

	// Phase 2: wire direct edges.
	for _, sc := range classes {
		node := nodes[sc.Info.Name]
		info := sc.Info

		if info.SuperclassName != "" {
			node.Superclass = resolve(info.SuperclassName)
		}
		for _, ifaceName := range info.InterfaceNames {
			if n := resolve(ifaceName); n != nil {
				node.Interfaces = append(node.Interfaces, n)
			}
		}
		for _, annName := range info.AnnotationNames {
			if n := resolve(annName); n != nil {
				node.AnnotatedBy = append(node.AnnotatedBy, n)
			}
		}

		fieldUses := fieldTypeReferences(info)
		for _, name := range fieldUses {
			if n := resolve(name); n != nil {
				node.FieldTypeUses = appendUnique(node.FieldTypeUses, n)
			}
		}
		methodUses := methodTypeReferences(info)
		for _, name := range methodUses {
			if n := resolve(name); n != nil {
				node.MethodTypeUses = appendUnique(node.MethodTypeUses, n)
			}
		}
	}

	// Phase 3: reverse edges.
	for _, node := range nodes {
		if node.Superclass != nil {
			node.Superclass.Subclasses = append(node.Superclass.Subclasses, node)
		}
		for _, iface := range node.Interfaces {
			iface.Implementors = append(iface.Implementors, node)
		}
		for _, ann := range node.AnnotatedBy {
			ann.Annotates = append(ann.Annotates, node)
		}
		for _, used := range node.FieldTypeUses {
			used.UsedAsFieldTypeBy = append(used.UsedAsFieldTypeBy, node)
		}
		for _, used := range node.MethodTypeUses {
			used.UsedAsMethodTypeBy = append(used.UsedAsMethodTypeBy, node)
		}
	}

	// Phase 4: deterministic ordering and transitive closures, then freeze.
	for _, node := range nodes {
		sortNodesByName(node.Interfaces)
		sortNodesByName(node.AnnotatedBy)
		sortNodesByName(node.FieldTypeUses)
		sortNodesByName(node.MethodTypeUses)
		sortNodesByName(node.Subclasses)
		sortNodesByName(node.Implementors)
		sortNodesByName(node.Annotates)
		sortNodesByName(node.UsedAsFieldTypeBy)
		sortNodesByName(node.UsedAsMethodTypeBy)
	}
	reportExtendsCycles(ctx, nodes)

	for _, node := range nodes {
		node.reachableSupertypes = closure(node, func(n *ClassNode) []*ClassNode {
			return directSupers(n)
		})
		node.reachableSubtypes = closure(node, func(n *ClassNode) []*ClassNode {
			return directSubs(n)
		})
	}

	all := make([]*ClassNode, 0, len(nodes))
	for _, n := range nodes {
		all = append(all, n)
	}
	sortNodesByName(all)

	maskedCopy := append([]MaskedResource(nil), masked...)
	sortMaskedResources(maskedCopy)

	return &ScanResult{classes: nodes, ordered: all, masked: maskedCopy}, nil
}

// resolveNode looks a referenced class name up among the scanned nodes,
// materializing a KindExternal stub the first time an unscanned name is
// referenced when RetainExternalReferences is set. Returns nil (meaning
// "no edge") when the name is unresolved and external references aren't
// retained -- an edge must never point at a node that doesn't exist in the
// result set.
func (l *Linker) resolveNode(nodes map[string]*ClassNode, name string) *ClassNode {
	name = stripArraySuffix(name)
	if n, ok := nodes[name]; ok {
		return n
	}
	if !l.RetainExternalReferences {
		return nil
	}
	stub := &ClassNode{Name: name, Kind: KindExternal}
	nodes[name] = stub
	return stub
}

func kindOf(flags classfile.ClassFlags) Kind {
	switch {
	case flags.IsAnnotation:
		return KindAnnotation
	case flags.IsInterface:
		return KindInterface
	case flags.IsEnum:
		return KindEnum
	default:
		return KindClass
	}
}

func stripArraySuffix(name string) string {
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	return name
}

func fieldTypeReferences(info *classfile.RawClassInfo) []string {
	var out []string
	for _, f := range info.Fields {
		out = append(out, f.DeclaredType)
		out = append(out, f.SignatureTypeNames...)
	}
	return out
}

func methodTypeReferences(info *classfile.RawClassInfo) []string {
	var out []string
	for _, m := range info.Methods {
		out = append(out, m.ParameterTypes...)
		out = append(out, m.ReturnType)
		out = append(out, m.SignatureTypeNames...)
		out = append(out, m.ThrownExceptions...)
	}
	return out
}

func directSupers(n *ClassNode) []*ClassNode {
	out := make([]*ClassNode, 0, 1+len(n.Interfaces))
	if n.Superclass != nil {
		out = append(out, n.Superclass)
	}
	out = append(out, n.Interfaces...)
	return out
}

func directSubs(n *ClassNode) []*ClassNode {
	out := make([]*ClassNode, 0, len(n.Subclasses)+len(n.Implementors))
	out = append(out, n.Subclasses...)
	out = append(out, n.Implementors...)
	return out
}

// cycleState marks a node's progress through reportExtendsCycles' walk of the
// Superclass chain: unvisited, currently on the walk's stack, or fully
// resolved with no cycle found through it.
type cycleState int

const (
	cycleUnvisited cycleState = iota
	cycleOnStack
	cycleResolved
)

// reportExtendsCycles walks every node's Superclass chain looking for a
// revisit of a node still on the current walk's stack: extends is a
// single-parent edge, so any such revisit means the chain loops back on
// itself instead of bottoming out at java.lang.Object. Each distinct cycle
// is reported once, as a warning against ctx, naming every class on it in
// sorted order. This never alters the graph -- it only detects and reports;
// closure() below still terminates correctly on its own.
func reportExtendsCycles(ctx context.Context, nodes map[string]*ClassNode) {
	state := make(map[*ClassNode]cycleState, len(nodes))
	for _, start := range nodes {
		if state[start] != cycleUnvisited {
			continue
		}
		var stack []*ClassNode
		n := start
		for n != nil {
			switch state[n] {
			case cycleOnStack:
				reportOneExtendsCycle(ctx, stack, n)
				for _, s := range stack {
					state[s] = cycleResolved
				}
				n = nil
				continue
			case cycleResolved:
				for _, s := range stack {
					state[s] = cycleResolved
				}
				n = nil
				continue
			}
			state[n] = cycleOnStack
			stack = append(stack, n)
			n = n.Superclass
		}
		for _, s := range stack {
			if state[s] == cycleOnStack {
				state[s] = cycleResolved
			}
		}
	}
}

// reportOneExtendsCycle emits one warning naming every class on the cycle
// that closes back at repeated, the first node on stack already seen again.
func reportOneExtendsCycle(ctx context.Context, stack []*ClassNode, repeated *ClassNode) {
	start := 0
	for i, n := range stack {
		if n == repeated {
			start = i
			break
		}
	}
	members := append([]*ClassNode(nil), stack[start:]...)
	sortNodesByName(members)
	names := make([]string, len(members))
	for i, n := range members {
		names[i] = n.Name
	}
	scanlog.Warn(ctx, repeated.Name, fmt.Sprintf(
		"extends cycle detected: %s", strings.Join(names, " -> ")), 0)
}

// closure computes the reflexive-transitive closure of expand starting from
// start's immediate neighbors, excluding start itself, with a visited set
// guarding against cycles: a malformed or adversarial classpath must never
// hang the linker even if it describes a cyclic type hierarchy.
func closure(start *ClassNode, expand func(*ClassNode) []*ClassNode) []*ClassNode {
	visited := map[*ClassNode]bool{start: true}
	var out []*ClassNode
	queue := expand(start)
	for len(queue) > 0 {
		var next []*ClassNode
		for _, n := range queue {
			if visited[n] {
				continue
			}
			visited[n] = true
			out = append(out, n)
			next = append(next, expand(n)...)
		}
		queue = next
	}
	sortNodesByName(out)
	return out
}

func appendUnique(list []*ClassNode, n *ClassNode) []*ClassNode {
	for _, existing := range list {
		if existing == n {
			return list
		}
	}
	return append(list, n)
}
