// Package expansion enumerates prediction seeds: pairings of curated
// single-substrate rules with candidate molecules that a downstream network
// expansion can project into novel products.
package expansion

import (
	"context"

	"github.com/enzymatix/mechvalid/internal/application/validation"
	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// PredictionSeed pairs one compiled rule with the substrate list it will be
// projected over.
type PredictionSeed struct {
	Rule       *rule.Rule
	Compiled   chemistry.CompiledRule
	Substrates []chemistry.Structure

	// Constraint is an opaque structure-activity constraint attached by the
	// caller and carried through untouched.  Nil means unconstrained.
	Constraint any
}

// SingleSubstrateExpander builds the cross product of arity-1 rules and
// candidate molecules.  Rules whose templates fail to compile are logged and
// dropped at construction, mirroring the validator's tolerance for bad corpus
// entries.
type SingleSubstrateExpander struct {
	rules      []*rule.Rule
	compiled   map[int64]chemistry.CompiledRule
	projection *validation.ProjectionEngine
	logger     logging.Logger
}

// NewSingleSubstrateExpander narrows the corpus to single-substrate rules and
// compiles their templates.
func NewSingleSubstrateExpander(corpus *rule.Corpus, engine chemistry.Engine, logger logging.Logger) *SingleSubstrateExpander {
	narrowed := corpus.FilterByArity(1)
	x := &SingleSubstrateExpander{
		compiled:   make(map[int64]chemistry.CompiledRule, narrowed.Len()),
		projection: validation.NewProjectionEngine(engine, logger),
		logger:     logger,
	}
	for _, r := range narrowed.Rules() {
		c, err := engine.CompileRule(r.Template)
		if err != nil {
			logger.Warn("dropping expansion rule with uncompilable template",
				logging.Int64("rule", r.ID),
				logging.Err(err))
			continue
		}
		x.rules = append(x.rules, r)
		x.compiled[r.ID] = c
	}
	return x
}

// RuleCount returns the number of usable single-substrate rules.
func (x *SingleSubstrateExpander) RuleCount() int { return len(x.rules) }

// EachSeed streams the rule-by-molecule cross product in deterministic order:
// corpus order outer, molecule order inner.  Iteration stops at the first fn
// error or when ctx is cancelled.
func (x *SingleSubstrateExpander) EachSeed(ctx context.Context, molecules []chemistry.Structure, fn func(PredictionSeed) error) error {
	for _, r := range x.rules {
		for _, mol := range molecules {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := PredictionSeed{
				Rule:       r,
				Compiled:   x.compiled[r.ID],
				Substrates: []chemistry.Structure{mol},
			}
			if err := fn(seed); err != nil {
				return err
			}
		}
	}
	return nil
}

// Seeds materializes the full cross product.  For corpora times molecule sets
// that do not fit in memory, use EachSeed.
func (x *SingleSubstrateExpander) Seeds(ctx context.Context, molecules []chemistry.Structure) ([]PredictionSeed, error) {
	seeds := make([]PredictionSeed, 0, len(x.rules)*len(molecules))
	err := x.EachSeed(ctx, molecules, func(s PredictionSeed) error {
		seeds = append(seeds, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seeds, nil
}

// Apply projects a seed's rule over its substrates, returning the capped
// candidate product sets.
func (x *SingleSubstrateExpander) Apply(ctx context.Context, seed PredictionSeed) ([][]chemistry.Structure, error) {
	if seed.Compiled == nil {
		return nil, errors.Newf(errors.CodeRuleTemplateInvalid, "seed for rule %d carries no compiled template", seed.Rule.ID)
	}
	return x.projection.Project(ctx, seed.Compiled, seed.Substrates)
}
