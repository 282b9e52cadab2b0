package corpusfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/testutil"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

const corpusJSON = `[
  {"id": 7, "name": "alcohol oxidation", "template": "[C:1][O:2]>>[C:1]=[O:2]", "substrate_arity": 1, "status": "perfect"},
  {"id": 12, "name": "amide hydrolysis", "template": "[C:1](=[O:2])N>>[C:1](=[O:2])O", "substrate_arity": 2, "status": "unknown"}
]`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRulesPreservesFileOrder(t *testing.T) {
	src := NewSource(writeCorpus(t, corpusJSON), testutil.NewRecordingLogger())

	corpus, err := rule.Load(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, 2, corpus.Len())
	assert.Equal(t, int64(7), corpus.Rules()[0].ID)
	assert.Equal(t, rule.StatusPerfect, corpus.Rules()[0].Status)
	assert.Equal(t, 2, corpus.Rules()[1].SubstrateArity)
}

func TestMissingFileIsCorpusLoadError(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "absent.json"), testutil.NewRecordingLogger())
	_, err := rule.Load(context.Background(), src)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCorpusLoad))
}

func TestMalformedJSONIsCorpusLoadError(t *testing.T) {
	src := NewSource(writeCorpus(t, `{"not": "an array"`), testutil.NewRecordingLogger())
	_, err := rule.Load(context.Background(), src)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCorpusLoad))
}

func TestUnknownStatusIsWarnedNotFatal(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	src := NewSource(writeCorpus(t, `[
  {"id": 1, "template": "t", "substrate_arity": 1, "status": "experimental"}
]`), logger)

	corpus, err := rule.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.Len())
	assert.True(t, logger.HasMessage("rule carries unrecognised curation status"))
}
