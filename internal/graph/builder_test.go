package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_RecordsForwardAndReverseEdges(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@use \"a\";\n")
	partial := f.write("styles/_a.scss", "$color: red;\n")
	f.build()

	n, ok := f.store.Lookup(style)
	require.True(t, ok)
	assert.Contains(t, n.Uses, partial)
	assert.Empty(t, n.Importers)

	p, ok := f.store.Lookup(partial)
	require.True(t, ok)
	assert.Contains(t, p.Importers, style)
	assert.Empty(t, p.Uses)
}

func TestBuilder_Build_Idempotent(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@use \"a\";\n@use \"b\";\n")
	a := f.write("styles/_a.scss", "@use \"b\";\n")
	b := f.write("styles/_b.scss", "$x: 1;\n")

	f.build()
	first := snapshot(t, f, style, a, b)

	f.build()
	second := snapshot(t, f, style, a, b)

	assert.Equal(t, first, second, "rebuilding an unchanged file set must yield an identical edge set")
}

func TestBuilder_Build_SymmetryInvariant(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@use \"a\";\n")
	a := f.write("styles/_a.scss", "@use \"b\";\n@forward \"c\";\n")
	b := f.write("styles/_b.scss", "@use \"c\";\n")
	c := f.write("styles/_c.scss", "$x: 1;\n")
	f.build()

	requireSymmetry(t, f.store, style, a, b, c)
}

func TestBuilder_Build_UnresolvedImportTolerance(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@use \"missing\";\n@use \"a\";\n")
	a := f.write("styles/_a.scss", "$x: 1;\n")
	f.build()

	n, ok := f.store.Lookup(style)
	require.True(t, ok)
	assert.Contains(t, n.Uses, a, "valid imports must survive an unresolvable sibling")
	assert.Len(t, n.Uses, 1)
}

func TestBuilder_Build_LoadPathFallback(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@use \"pkg/theme\";\n")
	theme := f.write("node_modules/pkg/_theme.scss", "$x: 1;\n")
	f.files = f.files[:1] // only the style sheet is scanned; the package is probed

	f.build()

	n, ok := f.store.Lookup(style)
	require.True(t, ok)
	assert.Contains(t, n.Uses, theme)
}

func TestBuilder_Build_MultipleImportsPerStatement(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@import \"a\", \"b\";\n")
	a := f.write("styles/_a.scss", "$x: 1;\n")
	b := f.write("styles/_b.scss", "$y: 2;\n")
	f.build()

	n, ok := f.store.Lookup(style)
	require.True(t, ok)
	assert.Contains(t, n.Uses, a)
	assert.Contains(t, n.Uses, b)
}

func TestBuilder_Build_ModifierClausesIgnored(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss",
		"@use \"a\" as theme;\n@use \"b\" with ($label: \"nope\");\n@forward \"c\" show $x;\n")
	a := f.write("styles/_a.scss", "$x: 1;\n")
	b := f.write("styles/_b.scss", "$label: \"yes\" !default;\n")
	c := f.write("styles/_c.scss", "$x: 1;\n")
	f.build()

	n, ok := f.store.Lookup(style)
	require.True(t, ok)
	assert.Len(t, n.Uses, 3)
	assert.Contains(t, n.Uses, a)
	assert.Contains(t, n.Uses, b)
	assert.Contains(t, n.Uses, c)
}

func TestBuilder_Build_IndentedSyntaxStatements(t *testing.T) {
	f := newFixture(t)
	// Indented syntax has no statement terminators; a modifier clause on one
	// line must not swallow the imports that follow it.
	style := f.write("styles/style.sass",
		"@use \"a\" with ($label: \"x\")\n@use \"b\"\n@forward \"c\"\n")
	a := f.write("styles/_a.sass", "$label: \"y\" !default\n")
	b := f.write("styles/_b.sass", "$x: 1\n")
	c := f.write("styles/_c.sass", "$y: 2\n")
	f.build()

	n, ok := f.store.Lookup(style)
	require.True(t, ok)
	assert.Len(t, n.Uses, 3)
	assert.Contains(t, n.Uses, a)
	assert.Contains(t, n.Uses, b)
	assert.Contains(t, n.Uses, c)
}

func TestBuilder_Build_MultiLineImportList(t *testing.T) {
	f := newFixture(t)
	style := f.write("styles/style.scss", "@import \"a\",\n    \"b\";\n")
	a := f.write("styles/_a.scss", "$x: 1;\n")
	b := f.write("styles/_b.scss", "$y: 2;\n")
	f.build()

	n, ok := f.store.Lookup(style)
	require.True(t, ok)
	assert.Contains(t, n.Uses, a)
	assert.Contains(t, n.Uses, b)
}

// snapshot captures the edge sets of the given paths.
func snapshot(t *testing.T, f *fixture, paths ...string) map[string][2]map[string]struct{} {
	t.Helper()

	out := make(map[string][2]map[string]struct{}, len(paths))
	for _, path := range paths {
		n, ok := f.store.Lookup(path)
		require.True(t, ok)
		out[path] = [2]map[string]struct{}{n.Uses, n.Importers}
	}
	return out
}
