package example

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpgraph/cpconfig"
	"github.com/viant/cpgraph/internal/testfix"
)

func TestScan_EndToEndViaClasspathOverride(t *testing.T) {
	dir := t.TempDir()
	writeClass := func(spec testfix.ClassSpec) {
		full := filepath.Join(dir, filepath.FromSlash(testfix.RelativePath(spec.Name)))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, testfix.Build(spec), 0o644))
	}
	writeClass(testfix.ClassSpec{Name: "p.A", Super: "java.lang.Object"})
	writeClass(testfix.ClassSpec{Name: "p.B", Super: "p.A"})

	cfg := cpconfig.Default()
	cfg.ClasspathOverride = dir
	cfg.IncludePackages = []string{"p"}

	q, warnings, err := Scan(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Equal(t, 2, q.Len())
	assert.Equal(t, "p.A", q.SuperclassOf("p.B").Name)
}
