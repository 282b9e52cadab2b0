package expansion

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/testutil"
)

func corpusOf(rules ...*rule.Rule) *rule.Corpus { return rule.NewCorpus(rules) }

func arityRule(id int64, template string, arity int) *rule.Rule {
	return &rule.Rule{ID: id, Template: template, SubstrateArity: arity, Status: rule.StatusUnknown}
}

func TestSeedsAreRuleByMoleculeCrossProduct(t *testing.T) {
	engine := testutil.NewStubEngine()
	corpus := corpusOf(
		arityRule(1, "t1", 1),
		arityRule(2, "t2", 1),
	)
	x := NewSingleSubstrateExpander(corpus, engine, testutil.NewRecordingLogger())
	molecules := testutil.Structures("m1", "m2", "m3")

	seeds, err := x.Seeds(context.Background(), molecules)
	require.NoError(t, err)
	require.Len(t, seeds, 6)

	// Corpus order outer, molecule order inner.
	for i, want := range []string{"t1/m1", "t1/m2", "t1/m3", "t2/m1", "t2/m2", "t2/m3"} {
		got := fmt.Sprintf("%s/%s", seeds[i].Compiled.Template(), seeds[i].Substrates[0].Raw())
		assert.Equal(t, want, got)
	}
}

func TestMultiSubstrateRulesAreExcluded(t *testing.T) {
	engine := testutil.NewStubEngine()
	corpus := corpusOf(
		arityRule(1, "t1", 1),
		arityRule(2, "t2", 2),
		arityRule(3, "t3", 1),
	)
	x := NewSingleSubstrateExpander(corpus, engine, testutil.NewRecordingLogger())
	assert.Equal(t, 2, x.RuleCount())
}

func TestMalformedTemplateIsDroppedWithWarning(t *testing.T) {
	engine := testutil.NewStubEngine()
	engine.FailCompile = map[string]error{"bad": fmt.Errorf("unbalanced template")}
	logger := testutil.NewRecordingLogger()

	x := NewSingleSubstrateExpander(corpusOf(
		arityRule(1, "bad", 1),
		arityRule(2, "t2", 1),
	), engine, logger)

	assert.Equal(t, 1, x.RuleCount())
	assert.True(t, logger.HasMessage("dropping expansion rule with uncompilable template"))

	seeds, err := x.Seeds(context.Background(), testutil.Structures("m1"))
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, int64(2), seeds[0].Rule.ID)
}

func TestEachSeedStopsOnCallbackError(t *testing.T) {
	engine := testutil.NewStubEngine()
	x := NewSingleSubstrateExpander(corpusOf(arityRule(1, "t1", 1)), engine, testutil.NewRecordingLogger())

	stop := fmt.Errorf("enough")
	calls := 0
	err := x.EachSeed(context.Background(), testutil.Structures("m1", "m2", "m3"), func(PredictionSeed) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestEachSeedHonorsCancellation(t *testing.T) {
	engine := testutil.NewStubEngine()
	x := NewSingleSubstrateExpander(corpusOf(arityRule(1, "t1", 1)), engine, testutil.NewRecordingLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := x.EachSeed(ctx, testutil.Structures("m1"), func(PredictionSeed) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyProjectsSeed(t *testing.T) {
	engine := testutil.NewStubEngine()
	engine.Project("t1", []string{"p1", "p2"})
	x := NewSingleSubstrateExpander(corpusOf(arityRule(1, "t1", 1)), engine, testutil.NewRecordingLogger())

	seeds, err := x.Seeds(context.Background(), testutil.Structures("m1"))
	require.NoError(t, err)
	require.Len(t, seeds, 1)

	sets, err := x.Apply(context.Background(), seeds[0])
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "p1", sets[0][0].Raw())
	assert.Equal(t, "p2", sets[0][1].Raw())
}
