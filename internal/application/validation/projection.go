// Package validation implements the rule-projection and scoring engine: it
// applies candidate transformation rules to a reaction's substrate multiset,
// compares canonicalized candidate products against the expected product set,
// and aggregates per-rule scores into a ranked, composition-cached result.
package validation

import (
	"context"

	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// DefaultMaxProjections bounds the number of alternative candidate output
// sets considered per rule application.  Rules over symmetric substrates can
// explode combinatorially; everything past the cap is discarded on purpose.
const DefaultMaxProjections = 10

// ExpectedProducts is the set of canonical (stereochemistry-stripped)
// identifiers a reaction's declared products reduce to.
type ExpectedProducts map[string]struct{}

// Add inserts a canonical identifier into the set.
func (e ExpectedProducts) Add(canonical string) { e[canonical] = struct{}{} }

// Contains reports whether the canonical identifier is in the set.
func (e ExpectedProducts) Contains(canonical string) bool {
	_, ok := e[canonical]
	return ok
}

// Verdict is the outcome of scoring one rule against one reaction.
type Verdict struct {
	Matched bool
	Score   int
}

// Unmatch is the verdict for a rule that does not explain the reaction.
func Unmatch() Verdict {
	return Verdict{Matched: false, Score: rule.UnmatchScore}
}

// ProjectionEngine wraps the chemistry engine's rule projection with the
// engine-side policies: the projection cap and the any-structure-matches
// acceptance rule.
type ProjectionEngine struct {
	engine         chemistry.Engine
	maxProjections int
	logger         logging.Logger
}

// ProjectionOption configures a ProjectionEngine.
type ProjectionOption func(*ProjectionEngine)

// WithMaxProjections overrides DefaultMaxProjections.  Values below 1 are
// ignored.
func WithMaxProjections(n int) ProjectionOption {
	return func(p *ProjectionEngine) {
		if n >= 1 {
			p.maxProjections = n
		}
	}
}

// NewProjectionEngine constructs a ProjectionEngine over the given chemistry
// engine.
func NewProjectionEngine(engine chemistry.Engine, logger logging.Logger, opts ...ProjectionOption) *ProjectionEngine {
	p := &ProjectionEngine{
		engine:         engine,
		maxProjections: DefaultMaxProjections,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxProjections returns the configured projection cap.
func (p *ProjectionEngine) MaxProjections() int { return p.maxProjections }

// Project applies a compiled rule to the substrate multiset and returns at
// most MaxProjections candidate output sets.  The cap is enforced here even
// when the underlying engine returns more.  Errors are recoverable: callers
// record them as a non-match, never abort the batch.
func (p *ProjectionEngine) Project(ctx context.Context, compiled chemistry.CompiledRule, substrates []chemistry.Structure) ([][]chemistry.Structure, error) {
	if len(substrates) == 0 {
		return nil, errors.New(errors.CodeNoSubstrates, "projection requires at least one substrate")
	}
	sets, err := p.engine.ProjectRule(ctx, compiled, substrates, p.maxProjections)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeProjectionFailed, "chemistry engine projection failed").
			WithDetail("template=" + compiled.Template())
	}
	if len(sets) > p.maxProjections {
		sets = sets[:p.maxProjections]
	}
	return sets, nil
}

// Score tests whether any candidate output set contains at least one
// structure whose canonical identifier appears in the expected product set.
// Partial overlap is sufficient evidence that the rule explains the
// transformation; requiring the full set to match would punish rules that
// emit side products the curators left out of the reaction record.
//
// Structures that fail canonicalization are skipped with a warning; only a
// complete absence of matches yields Unmatch.
func (p *ProjectionEngine) Score(ctx context.Context, r *rule.Rule, candidateSets [][]chemistry.Structure, expected ExpectedProducts) Verdict {
	if len(candidateSets) == 0 {
		return Unmatch()
	}
	for _, set := range candidateSets {
		for _, candidate := range set {
			canonical, err := p.engine.CanonicalIdentifier(p.engine.Normalize(candidate), chemistry.ComparisonOptions)
			if err != nil {
				p.logger.Warn("skipping candidate product that failed canonicalization",
					logging.Int64("rule", r.ID),
					logging.String("identifier", candidate.Raw()),
					logging.Err(err))
				continue
			}
			if expected.Contains(canonical) {
				return Verdict{Matched: true, Score: rule.MatchScore(r.Status)}
			}
		}
	}
	return Unmatch()
}
