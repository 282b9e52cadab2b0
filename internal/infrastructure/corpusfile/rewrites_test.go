package corpusfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzymatix/mechvalid/internal/testutil"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

func TestLoadRewritesAppliesReplacements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewrites.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"InChI=1S/broken": "InChI=1S/fixed"}`), 0o644))

	rw, err := LoadRewrites(context.Background(), path, testutil.NewRecordingLogger())
	require.NoError(t, err)
	assert.Equal(t, "InChI=1S/fixed", rw.Rewrite("InChI=1S/broken"))
	assert.Equal(t, "InChI=1S/other", rw.Rewrite("InChI=1S/other"))
}

func TestLoadRewritesEmptyPathIsIdentity(t *testing.T) {
	rw, err := LoadRewrites(context.Background(), "", testutil.NewRecordingLogger())
	require.NoError(t, err)
	assert.Equal(t, "OCC", rw.Rewrite("OCC"))
}

func TestLoadRewritesMissingFileIsCorpusLoadError(t *testing.T) {
	_, err := LoadRewrites(context.Background(), filepath.Join(t.TempDir(), "absent.json"), testutil.NewRecordingLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCorpusLoad))
}

func TestLoadRewritesMalformedFileIsCorpusLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewrites.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "a", "map"]`), 0o644))

	_, err := LoadRewrites(context.Background(), path, testutil.NewRecordingLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCorpusLoad))
}
