package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldDescriptor(t *testing.T) {
	cases := map[string]string{
		"Z":                     "boolean",
		"I":                     "int",
		"[I":                    "int[]",
		"[[Ljava/lang/String;":  "java.lang.String[][]",
		"Ljava/lang/Object;":    "java.lang.Object",
		"Lcom/example/Widget;":  "com.example.Widget",
	}
	for desc, want := range cases {
		got, err := parseFieldDescriptor(desc)
		require.NoErrorf(t, err, "descriptor %q", desc)
		assert.Equal(t, want, got, "descriptor %q", desc)
	}
}

func TestParseFieldDescriptor_RejectsTrailingData(t *testing.T) {
	_, err := parseFieldDescriptor("IZ")
	assert.Error(t, err)
}

func TestParseFieldDescriptor_RejectsUnterminatedClass(t *testing.T) {
	_, err := parseFieldDescriptor("Ljava/lang/String")
	assert.Error(t, err)
}

func TestParseMethodDescriptor(t *testing.T) {
	params, ret, err := parseMethodDescriptor("(ILjava/lang/String;[B)Z")
	require.NoError(t, err)
	assert.Equal(t, []string{"int", "java.lang.String", "byte[]"}, params)
	assert.Equal(t, "boolean", ret)
}

func TestParseMethodDescriptor_NoArgsVoidReturn(t *testing.T) {
	params, ret, err := parseMethodDescriptor("()V")
	require.NoError(t, err)
	assert.Empty(t, params)
	assert.Equal(t, "void", ret)
}

func TestParseMethodDescriptor_MissingParens(t *testing.T) {
	_, _, err := parseMethodDescriptor("ILjava/lang/String;)Z")
	assert.Error(t, err)
}

func TestScanReferencedTypes_PlainClassDescriptor(t *testing.T) {
	var out []string
	scanReferencedTypes("Ljava/util/List;", allowAllFilter{}, &out)
	assert.Equal(t, []string{"java.util.List"}, out)
}

func TestScanReferencedTypes_GenericSignature(t *testing.T) {
	// List<Widget> field signature.
	var out []string
	scanReferencedTypes("Ljava/util/List<Lcom/example/Widget;>;", allowAllFilter{}, &out)
	assert.ElementsMatch(t, []string{"java.util.List", "com.example.Widget"}, out)
}

func TestScanReferencedTypes_ClassSignatureWithFormalTypeParameters(t *testing.T) {
	// class Box<T> extends AbstractBox implements Comparable<Box<T>> -- the
	// full ClassSignature form: formal type params, superclass sig, then one
	// superinterface sig, all back-to-back in a single Signature attribute.
	sig := "<T:Ljava/lang/Object;>Lcom/example/AbstractBox;Ljava/lang/Comparable<Lcom/example/Box<TT;>;>;"
	var out []string
	scanReferencedTypes(sig, allowAllFilter{}, &out)
	assert.Contains(t, out, "java.lang.Object")
	assert.Contains(t, out, "com.example.AbstractBox")
	assert.Contains(t, out, "java.lang.Comparable")
	assert.Contains(t, out, "com.example.Box")
	// TT; is a type-variable reference, not a class; it must not be emitted.
	assert.NotContains(t, out, "T")
}

func TestScanReferencedTypes_ArrayOfGeneric(t *testing.T) {
	var out []string
	scanReferencedTypes("[Ljava/util/List<Ljava/lang/String;>;", allowAllFilter{}, &out)
	assert.ElementsMatch(t, []string{"java.util.List", "java.lang.String"}, out)
}

func TestScanReferencedTypes_WildcardBounds(t *testing.T) {
	// List<? extends Number>
	var out []string
	scanReferencedTypes("Ljava/util/List<+Ljava/lang/Number;>;", allowAllFilter{}, &out)
	assert.ElementsMatch(t, []string{"java.util.List", "java.lang.Number"}, out)
}

type prefixFilter string

func (f prefixFilter) Allow(name string) bool {
	return len(name) >= len(f) && name[:len(f)] == string(f)
}

func TestScanReferencedTypes_Filtered(t *testing.T) {
	var out []string
	scanReferencedTypes("Ljava/util/List<Lcom/example/Widget;>;", prefixFilter("com."), &out)
	assert.Equal(t, []string{"com.example.Widget"}, out)
}
