package typelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		path := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "index.html", "uuid.html", "communication.html", "style.css", "nested/situations.html")

	names, err := Discover(dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"communication", "uuid"}, names)
}

func TestDiscoverFilters(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "audio.html", "communication.html", "uuid.html", "metadata.html")

	names, err := Discover(dir, []string{"[a-m]*.html"}, []string{"metadata.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"audio", "communication"}, names)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), nil, nil)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	discovered := []string{"a", "b"}
	assert.Equal(t, []string{"Foo", "Bar", "Foo"}, Resolve([]string{"Foo", "Bar", "Foo"}, discovered))
	assert.Equal(t, discovered, Resolve(nil, discovered))
	assert.Empty(t, Resolve(nil, nil))
}
