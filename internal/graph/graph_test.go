package graph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports/mocks"
	"go.trai.ch/cinder/internal/graph"
	"go.uber.org/mock/gomock"
)

// fixture is a scratch project directory with a store built over it.
type fixture struct {
	t       *testing.T
	root    string
	store   *graph.Store
	builder *graph.Builder
	globber *mocks.MockGlobber
	files   []string
}

// newFixture creates an empty project and a store wired with loose mocks.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	root := t.TempDir()
	resolver := graph.NewResolver(filepath.Join(root, "node_modules"))
	store := graph.NewStore(resolver, logger)
	globber := mocks.NewMockGlobber(ctrl)

	return &fixture{
		t:       t,
		root:    root,
		store:   store,
		builder: graph.NewBuilder(store, globber, logger, root),
		globber: globber,
	}
}

// write creates a file under the fixture root and registers it for globbing.
func (f *fixture) write(rel, content string) string {
	f.t.Helper()

	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o600))
	f.files = append(f.files, path)
	return domain.Canonicalize(path)
}

// build runs a full graph build over all files written so far.
func (f *fixture) build() {
	f.t.Helper()

	files := make([]string, len(f.files))
	copy(files, f.files)
	f.globber.EXPECT().Glob(f.root, gomock.Any()).Return(files, nil)
	require.NoError(f.t, f.builder.Build([]string{"**/*.scss"}))
}

// requireSymmetry asserts the importers/uses symmetry invariant over the
// whole store.
func requireSymmetry(t *testing.T, store *graph.Store, paths ...string) {
	t.Helper()

	for _, path := range paths {
		n, ok := store.Lookup(path)
		require.True(t, ok, "node %s missing", path)

		for used := range n.Uses {
			target, ok := store.Lookup(used)
			require.True(t, ok, "edge target %s missing", used)
			require.Contains(t, target.Importers, n.Path,
				"%s uses %s but reverse edge is missing", n.Path, used)
		}
		for importer := range n.Importers {
			source, ok := store.Lookup(importer)
			require.True(t, ok, "importer %s missing", importer)
			require.Contains(t, source.Uses, n.Path,
				"%s imported by %s but forward edge is missing", n.Path, importer)
		}
	}
}
