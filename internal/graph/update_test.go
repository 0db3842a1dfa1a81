package graph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFile_RewritesEdges(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@use \"a\";\n")
	a := f.write("styles/_a.scss", "@use \"b\";\n")
	b := f.write("styles/_b.scss", "$x: 1;\n")
	c := f.write("styles/_c.scss", "$y: 2;\n")
	f.build()

	// _a drops its use of _b and picks up _c instead.
	require.NoError(t, os.WriteFile(filepath.FromSlash(a), []byte("@use \"c\";\n"), 0o600))
	affected := f.store.UpdateFile(a)

	assert.Contains(t, affected, b, "former edge target must be reported as affected")

	n, ok := f.store.Lookup(a)
	require.True(t, ok)
	assert.Contains(t, n.Uses, c)
	assert.NotContains(t, n.Uses, b)

	old, ok := f.store.Lookup(b)
	require.True(t, ok)
	assert.NotContains(t, old.Importers, a)

	requireSymmetry(t, f.store, style, a, b, c)
}

func TestUpdateFile_PreservesImporters(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@use \"a\";\n")
	a := f.write("styles/_a.scss", "$x: 1;\n")
	f.build()

	require.NoError(t, os.WriteFile(filepath.FromSlash(a), []byte("$x: 2;\n"), 0o600))
	f.store.UpdateFile(a)

	// Impact resolution must still find the entry point after the rewrite.
	assert.Equal(t, []string{style}, f.store.ParentFiles(a))
}

func TestUpdateFile_DeletedFileStaysRemoved(t *testing.T) {
	f := newFixture(t)
	f.write("styles/style.scss", "@use \"a\";\n")
	a := f.write("styles/_a.scss", "$x: 1;\n")
	f.build()

	require.NoError(t, os.Remove(filepath.FromSlash(a)))
	f.store.UpdateFile(a)

	_, ok := f.store.Lookup(a)
	assert.False(t, ok, "a deleted file must not be re-added")
	assert.Empty(t, f.store.ParentFiles(a))
}

func TestUpdateFile_UntrackedPathIngestsFresh(t *testing.T) {
	f := newFixture(t)
	f.write("styles/style.scss", "$x: 1;\n")
	f.build()

	// A brand-new partial appears without a full rebuild.
	fresh := f.write("styles/_fresh.scss", "$y: 2;\n")
	affected := f.store.UpdateFile(fresh)

	assert.Empty(t, affected)
	_, ok := f.store.Lookup(fresh)
	assert.True(t, ok)
}
