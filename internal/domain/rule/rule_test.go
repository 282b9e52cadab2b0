package rule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzymatix/mechvalid/pkg/errors"
)

func TestMatchScoreLadder(t *testing.T) {
	cases := []struct {
		status CurationStatus
		score  int
	}{
		{StatusPerfect, 4},
		{StatusManuallyValidated, 3},
		{StatusUnknown, 2},
		{StatusManuallyNotVerified, 1}, // fallback bucket
		{StatusManuallyInvalidated, 0},
		{CurationStatus("something_new"), 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.score, MatchScore(tc.status), "status %s", tc.status)
	}
}

func TestLadderIsStrictlyOrdered(t *testing.T) {
	// Perfect > ManuallyValidated > Unknown > fallback > ManuallyInvalidated > Unmatch
	assert.Greater(t, MatchScore(StatusPerfect), MatchScore(StatusManuallyValidated))
	assert.Greater(t, MatchScore(StatusManuallyValidated), MatchScore(StatusUnknown))
	assert.Greater(t, MatchScore(StatusUnknown), DefaultMatchScore)
	assert.Greater(t, DefaultMatchScore, MatchScore(StatusManuallyInvalidated))
	assert.Greater(t, MatchScore(StatusManuallyInvalidated), UnmatchScore)
}

func TestCurationStatusValid(t *testing.T) {
	assert.True(t, StatusPerfect.Valid())
	assert.True(t, StatusUnknown.Valid())
	assert.False(t, CurationStatus("perfekt").Valid())
}

type sliceSource struct {
	rules []*Rule
	err   error
}

func (s sliceSource) LoadRules(_ context.Context) ([]*Rule, error) {
	return s.rules, s.err
}

func TestLoadWrapsSourceFailure(t *testing.T) {
	_, err := Load(context.Background(), sliceSource{err: assert.AnError})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCorpusLoad))
}

func TestLoadRejectsNonPositiveArity(t *testing.T) {
	_, err := Load(context.Background(), sliceSource{rules: []*Rule{
		{ID: 1, Template: "t", SubstrateArity: 0, Status: StatusUnknown},
	}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCorpusLoad))
}

func testCorpus() *Corpus {
	return NewCorpus([]*Rule{
		{ID: 1, Template: "a>>b", SubstrateArity: 1, Status: StatusPerfect},
		{ID: 2, Template: "a.b>>c", SubstrateArity: 2, Status: StatusManuallyValidated},
		{ID: 3, Template: "c>>d", SubstrateArity: 1, Status: StatusManuallyInvalidated},
		{ID: 4, Template: "d>>e", SubstrateArity: 1, Status: StatusUnknown},
	})
}

func TestFilterByArityIsPure(t *testing.T) {
	c := testCorpus()
	single := c.FilterByArity(1)

	assert.Equal(t, 3, single.Len())
	assert.Equal(t, 4, c.Len(), "receiver must be unchanged")

	// A second filter with a different arity on the original corpus still
	// sees the full set.
	double := c.FilterByArity(2)
	require.Equal(t, 1, double.Len())
	assert.EqualValues(t, 2, double.Rules()[0].ID)
}

func TestFilterPreservesOrder(t *testing.T) {
	single := testCorpus().FilterByArity(1)
	ids := make([]int64, 0, single.Len())
	for _, r := range single.Rules() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{1, 3, 4}, ids)
}

func TestFilterByStatus(t *testing.T) {
	trusted := testCorpus().FilterByStatus(StatusPerfect, StatusManuallyValidated)
	require.Equal(t, 2, trusted.Len())
	assert.EqualValues(t, 1, trusted.Rules()[0].ID)
	assert.EqualValues(t, 2, trusted.Rules()[1].ID)
}

func TestNewCorpusCopiesSlice(t *testing.T) {
	rules := []*Rule{{ID: 1, Template: "a>>b", SubstrateArity: 1, Status: StatusUnknown}}
	c := NewCorpus(rules)
	rules[0] = &Rule{ID: 99}
	assert.EqualValues(t, 1, c.Rules()[0].ID)
}
