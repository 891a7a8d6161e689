package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpgraph/classpath"
	"github.com/viant/cpgraph/internal/testfix"
)

func writeClassFile(t *testing.T, dir string, spec testfix.ClassSpec) {
	t.Helper()
	rel := testfix.RelativePath(spec.Name)
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, testfix.Build(spec), 0o644))
}

func TestDriver_ScansDirectoryRootAndLinksHierarchy(t *testing.T) {
	dir := t.TempDir()
	writeClassFile(t, dir, testfix.ClassSpec{Name: "com.example.Base", Super: "java.lang.Object"})
	writeClassFile(t, dir, testfix.ClassSpec{Name: "com.example.Widget", Super: "com.example.Base"})

	d, err := NewDriver(WithWorkerCount(4))
	require.NoError(t, err)

	result, err := d.Scan(context.Background(), []classpath.ResourceRoot{
		{Path: dir, Kind: classpath.KindDirectory, Rank: 0},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())

	widget := result.Lookup("com.example.Widget")
	require.NotNil(t, widget)
	require.NotNil(t, widget.Superclass)
	assert.Equal(t, "com.example.Base", widget.Superclass.Name)

	base := result.Lookup("com.example.Base")
	require.NotNil(t, base)
	require.Len(t, base.Subclasses, 1)
	assert.Equal(t, "com.example.Widget", base.Subclasses[0].Name)
}

func TestDriver_DropsJavaLangObject(t *testing.T) {
	dir := t.TempDir()
	writeClassFile(t, dir, testfix.ClassSpec{Name: "java.lang.Object"})
	writeClassFile(t, dir, testfix.ClassSpec{Name: "com.example.Widget", Super: "java.lang.Object"})

	d, err := NewDriver()
	require.NoError(t, err)
	result, err := d.Scan(context.Background(), []classpath.ResourceRoot{
		{Path: dir, Kind: classpath.KindDirectory, Rank: 0},
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.Len())
	widget := result.Lookup("com.example.Widget")
	require.NotNil(t, widget)
	assert.Nil(t, widget.Superclass)
}

func TestDriver_FirstWriterWinsAcrossRoots(t *testing.T) {
	firstDir := t.TempDir()
	secondDir := t.TempDir()
	writeClassFile(t, firstDir, testfix.ClassSpec{Name: "com.example.Widget", Super: "java.lang.Object"})
	writeClassFile(t, secondDir, testfix.ClassSpec{Name: "com.example.Widget", Interface: true})

	d, err := NewDriver()
	require.NoError(t, err)
	result, err := d.Scan(context.Background(), []classpath.ResourceRoot{
		{Path: firstDir, Kind: classpath.KindDirectory, Rank: 0},
		{Path: secondDir, Kind: classpath.KindDirectory, Rank: 1},
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.Len())
	widget := result.Lookup("com.example.Widget")
	require.NotNil(t, widget)
	assert.False(t, widget.Flags.IsInterface, "the Rank-0 definition must win over the later duplicate")

	require.Len(t, result.MaskedResources(), 1)
	assert.Equal(t, secondDir, result.MaskedResources()[0].ClasspathEntry)
	assert.NotEqual(t, widget.ContentHash, result.MaskedResources()[0].ContentHash,
		"the masked duplicate declared a different shape, so its fingerprint must differ from the winner's")
}

func TestDriver_DropsPathNameMismatch(t *testing.T) {
	dir := t.TempDir()
	// Declared name "com.example.Widget" written at a path that implies
	// "com.example.WrongName" -- the declared/path-derived names diverge and
	// the entry must be dropped with a warning, not linked under either name.
	full := filepath.Join(dir, "com", "example", "WrongName.class")
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, testfix.Build(testfix.ClassSpec{
		Name: "com.example.Widget", Super: "java.lang.Object",
	}), 0o644))

	d, err := NewDriver()
	require.NoError(t, err)
	result, err := d.Scan(context.Background(), []classpath.ResourceRoot{
		{Path: dir, Kind: classpath.KindDirectory, Rank: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestDriver_ScansArchiveRoot(t *testing.T) {
	data, err := testfix.Archive(map[string][]byte{
		testfix.RelativePath("com.example.Base"): testfix.Build(testfix.ClassSpec{
			Name: "com.example.Base", Super: "java.lang.Object",
		}),
		testfix.RelativePath("com.example.Widget"): testfix.Build(testfix.ClassSpec{
			Name: "com.example.Widget", Super: "com.example.Base",
		}),
	})
	require.NoError(t, err)

	dir := t.TempDir()
	jarPath := filepath.Join(dir, "lib.jar")
	require.NoError(t, os.WriteFile(jarPath, data, 0o644))

	d, err := NewDriver()
	require.NoError(t, err)
	result, err := d.Scan(context.Background(), []classpath.ResourceRoot{
		{Path: jarPath, Kind: classpath.KindArchive, Rank: 0},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())
	widget := result.Lookup("com.example.Widget")
	require.NotNil(t, widget)
	require.NotNil(t, widget.Superclass)
	assert.Equal(t, "com.example.Base", widget.Superclass.Name)
}

func TestDriver_RetainExternalReferencesMaterializesStub(t *testing.T) {
	dir := t.TempDir()
	writeClassFile(t, dir, testfix.ClassSpec{
		Name:  "com.example.Widget",
		Super: "java.lang.Object",
		Interfaces: []string{
			"com.example.NeverScanned",
		},
	})

	d, err := NewDriver(WithRetainExternalReferences(true))
	require.NoError(t, err)
	result, err := d.Scan(context.Background(), []classpath.ResourceRoot{
		{Path: dir, Kind: classpath.KindDirectory, Rank: 0},
	})
	require.NoError(t, err)

	stub := result.Lookup("com.example.NeverScanned")
	require.NotNil(t, stub)
	widget := result.Lookup("com.example.Widget")
	require.Len(t, widget.Interfaces, 1)
	assert.Same(t, stub, widget.Interfaces[0])
}
