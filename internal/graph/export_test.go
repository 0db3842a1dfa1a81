package graph_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestStore_Export_Golden(t *testing.T) {
	f := newFixture(t)
	f.write("styles/style.scss", "@use \"a\";\n")
	f.write("styles/_a.scss", "@use \"b\";\n")
	f.write("styles/_b.scss", "$x: 1;\n")
	f.build()

	var buf bytes.Buffer
	require.NoError(t, f.store.Export(&buf, f.root))

	g := goldie.New(t)
	g.Assert(t, "export_simple", buf.Bytes())
}

func TestStore_Export_Deterministic(t *testing.T) {
	f := newFixture(t)
	f.write("styles/style.scss", "@use \"a\";\n")
	f.write("styles/_a.scss", "$x: 1;\n")
	f.build()

	var first, second bytes.Buffer
	require.NoError(t, f.store.Export(&first, f.root))
	require.NoError(t, f.store.Export(&second, f.root))
	require.Equal(t, first.String(), second.String())
}
