package cgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpgraph/classfile"
	"github.com/viant/cpgraph/scanlog"
)

func classInfo(name, super string, ifaces ...string) *classfile.RawClassInfo {
	return &classfile.RawClassInfo{Name: name, SuperclassName: super, InterfaceNames: ifaces}
}

// diamond builds: Base <- Middle <- Leaf, and Leaf implements Marker.
func diamond() []ScannedClass {
	return []ScannedClass{
		{Info: classInfo("com.example.Base", "")},
		{Info: classInfo("com.example.Middle", "com.example.Base")},
		{Info: classInfo("com.example.Leaf", "com.example.Middle", "com.example.Marker")},
		{Info: &classfile.RawClassInfo{Name: "com.example.Marker", Flags: classfile.ClassFlags{IsInterface: true}}},
	}
}

func TestLink_DirectAndReachableSupertypes(t *testing.T) {
	result, err := (&Linker{}).Link(context.Background(), diamond(), nil)
	require.NoError(t, err)

	leaf := result.Lookup("com.example.Leaf")
	require.NotNil(t, leaf)
	require.NotNil(t, leaf.Superclass)
	assert.Equal(t, "com.example.Middle", leaf.Superclass.Name)
	require.Len(t, leaf.Interfaces, 1)
	assert.Equal(t, "com.example.Marker", leaf.Interfaces[0].Name)

	names := nodeNames(leaf.ReachableSupertypes())
	assert.Equal(t, []string{"com.example.Base", "com.example.Marker", "com.example.Middle"}, names)
}

func TestLink_ReverseEdges(t *testing.T) {
	result, err := (&Linker{}).Link(context.Background(), diamond(), nil)
	require.NoError(t, err)

	base := result.Lookup("com.example.Base")
	require.NotNil(t, base)
	assert.Equal(t, []string{"com.example.Middle"}, nodeNames(base.Subclasses))
	assert.Equal(t, []string{"com.example.Base"}, nodeNames(result.Lookup("com.example.Middle").ReachableSupertypes()))

	marker := result.Lookup("com.example.Marker")
	assert.Equal(t, []string{"com.example.Leaf"}, nodeNames(marker.Implementors))
	assert.Equal(t, []string{"com.example.Leaf"}, nodeNames(marker.ReachableSubtypes()))
	assert.Equal(t, []string{"com.example.Leaf", "com.example.Middle"}, nodeNames(base.ReachableSubtypes()))
}

func TestLink_UnresolvedSuperclassWithoutRetention(t *testing.T) {
	classes := []ScannedClass{
		{Info: classInfo("com.example.Orphan", "com.example.NotScanned")},
	}
	result, err := (&Linker{RetainExternalReferences: false}).Link(context.Background(), classes, nil)
	require.NoError(t, err)
	orphan := result.Lookup("com.example.Orphan")
	assert.Nil(t, orphan.Superclass)
	assert.Equal(t, 1, result.Len())
}

func TestLink_UnresolvedSuperclassWithRetention(t *testing.T) {
	classes := []ScannedClass{
		{Info: classInfo("com.example.Orphan", "com.example.NotScanned")},
	}
	result, err := (&Linker{RetainExternalReferences: true}).Link(context.Background(), classes, nil)
	require.NoError(t, err)
	orphan := result.Lookup("com.example.Orphan")
	require.NotNil(t, orphan.Superclass)
	assert.Equal(t, "com.example.NotScanned", orphan.Superclass.Name)
	assert.Equal(t, KindExternal, orphan.Superclass.Kind)
	assert.Equal(t, 2, result.Len())
}

func TestLink_AnnotatedByIsOneHopOnly(t *testing.T) {
	classes := []ScannedClass{
		{Info: &classfile.RawClassInfo{Name: "com.example.Meta", AnnotationNames: []string{"com.example.Root"}}},
		{Info: &classfile.RawClassInfo{Name: "com.example.Widget", AnnotationNames: []string{"com.example.Meta"}}},
		{Info: &classfile.RawClassInfo{Name: "com.example.Root"}},
	}
	result, err := (&Linker{}).Link(context.Background(), classes, nil)
	require.NoError(t, err)
	widget := result.Lookup("com.example.Widget")
	assert.Equal(t, []string{"com.example.Meta"}, nodeNames(widget.AnnotatedBy))
	// Widget is NOT transitively "annotated by" Root just because Meta is:
	// annotated_by has no reachable/closure form.
}

func TestLink_FieldAndMethodTypeUses(t *testing.T) {
	classes := []ScannedClass{
		{Info: &classfile.RawClassInfo{
			Name: "com.example.Repo",
			Fields: []classfile.RawFieldInfo{
				{Name: "cache", DeclaredType: "com.example.Cache"},
			},
			Methods: []classfile.RawMethodInfo{
				{Name: "find", ParameterTypes: []string{"java.lang.String"}, ReturnType: "com.example.Widget"},
			},
		}},
		{Info: &classfile.RawClassInfo{Name: "com.example.Cache"}},
		{Info: &classfile.RawClassInfo{Name: "com.example.Widget"}},
	}
	result, err := (&Linker{}).Link(context.Background(), classes, nil)
	require.NoError(t, err)
	repo := result.Lookup("com.example.Repo")
	assert.Equal(t, []string{"com.example.Cache"}, nodeNames(repo.FieldTypeUses))
	assert.Equal(t, []string{"com.example.Widget"}, nodeNames(repo.MethodTypeUses))
	assert.Equal(t, []string{"com.example.Repo"}, nodeNames(result.Lookup("com.example.Cache").UsedAsFieldTypeBy))
	assert.Equal(t, []string{"com.example.Repo"}, nodeNames(result.Lookup("com.example.Widget").UsedAsMethodTypeBy))
}

func TestLink_CarriesMaskedResourcesVerbatim(t *testing.T) {
	classes := []ScannedClass{
		{Info: classInfo("com.example.Widget", ""), ClasspathEntry: "a.jar", RelativePath: "com/example/Widget.class", ContentHash: 1},
	}
	masked := []MaskedResource{
		{ClasspathEntry: "b.jar", RelativePath: "com/example/Widget.class", Rank: 1, ContentHash: 2},
	}
	result, err := (&Linker{}).Link(context.Background(), classes, masked)
	require.NoError(t, err)
	require.Len(t, result.MaskedResources(), 1)
	assert.Equal(t, "b.jar", result.MaskedResources()[0].ClasspathEntry)
	assert.Equal(t, uint64(2), result.MaskedResources()[0].ContentHash)
}

func TestLink_DetectsAndReportsExtendsCycle(t *testing.T) {
	classes := []ScannedClass{
		{Info: classInfo("com.example.A", "com.example.B")},
		{Info: classInfo("com.example.B", "com.example.C")},
		{Info: classInfo("com.example.C", "com.example.A")},
	}
	ctx, collector := scanlog.NewContext(context.Background(), nil)
	result, err := (&Linker{}).Link(ctx, classes, nil)
	require.NoError(t, err)
	require.Equal(t, 3, result.Len(), "a cyclic extends chain is still linked, not dropped")

	warnings := collector.Warnings()
	require.Len(t, warnings, 1, "one cycle must yield exactly one warning, not one per member")
	assert.Contains(t, warnings[0].Reason, "cycle")
	for _, name := range []string{"com.example.A", "com.example.B", "com.example.C"} {
		assert.Contains(t, warnings[0].Reason, name)
	}

	// closure() must still terminate on a cyclic chain rather than hang or panic.
	a := result.Lookup("com.example.A")
	require.NotNil(t, a)
	assert.Equal(t, []string{"com.example.B", "com.example.C"}, nodeNames(a.ReachableSupertypes()))
}

func TestLink_AcyclicExtendsChainReportsNothing(t *testing.T) {
	ctx, collector := scanlog.NewContext(context.Background(), nil)
	result, err := (&Linker{}).Link(ctx, diamond(), nil)
	require.NoError(t, err)
	require.Equal(t, 4, result.Len())
	assert.Equal(t, 0, collector.Len())
}

func nodeNames(nodes []*ClassNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
