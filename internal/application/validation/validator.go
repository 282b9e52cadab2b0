package validation

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/internal/domain/reaction"
	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// ChemicalStore resolves reactions and chemical identifiers from the
// knowledge store.  Implementations live in infrastructure.
type ChemicalStore interface {
	ReadReaction(ctx context.Context, id string) (*reaction.Observed, error)
	ReadChemicalIdentifier(ctx context.Context, id reaction.ChemicalID) (string, error)
}

// MetricsObserver receives validation events.  The Prometheus implementation
// lives in infrastructure/monitoring; the default is a no-op.
type MetricsObserver interface {
	CacheHit()
	ReactionMatched()
	ProjectionError()
	ValidationDone(d time.Duration, outcome string)
}

type nopMetrics struct{}

func (nopMetrics) CacheHit()                            {}
func (nopMetrics) ReactionMatched()                     {}
func (nopMetrics) ProjectionError()                     {}
func (nopMetrics) ValidationDone(time.Duration, string) {}

// Stats are the run counters reported by LogSummary.
type Stats struct {
	Processed int64
	Matched   int64
	CacheHits int64
	Failed    int64
}

// Validator scores every rule in the corpus against observed reactions.  Rule
// templates are compiled once at construction; templates that fail to compile
// are logged and skipped so one bad corpus entry cannot take down a run.
//
// Validate is safe for concurrent use.  Concurrent validations of reactions
// with the same composition key are collapsed to a single computation.
type Validator struct {
	corpus     *rule.Corpus
	engine     chemistry.Engine
	store      ChemicalStore
	cache      Cache
	projection *ProjectionEngine
	rewriter   chemistry.IdentifierRewriter
	keyPolicy  reaction.KeyPolicy
	metrics    MetricsObserver
	logger     logging.Logger

	compiled map[int64]chemistry.CompiledRule
	flight   singleflight.Group

	processed atomic.Int64
	matched   atomic.Int64
	cacheHits atomic.Int64
	failed    atomic.Int64
}

// Option configures a Validator.
type Option func(*Validator)

// WithKeyPolicy selects the composition-key policy.  The default is
// KeyPolicyRoleAware.
func WithKeyPolicy(p reaction.KeyPolicy) Option {
	return func(v *Validator) { v.keyPolicy = p }
}

// WithRewriter installs an identifier rewriter applied to every chemical
// identifier before parsing, used to substitute structures the engine cannot
// process.
func WithRewriter(r chemistry.IdentifierRewriter) Option {
	return func(v *Validator) {
		if r != nil {
			v.rewriter = r
		}
	}
}

// WithMetrics installs a metrics observer.
func WithMetrics(m MetricsObserver) Option {
	return func(v *Validator) {
		if m != nil {
			v.metrics = m
		}
	}
}

// WithProjectionCap overrides the per-rule candidate output set cap.
func WithProjectionCap(n int) Option {
	return func(v *Validator) { WithMaxProjections(n)(v.projection) }
}

// NewValidator compiles the corpus and returns a ready Validator.
func NewValidator(corpus *rule.Corpus, engine chemistry.Engine, store ChemicalStore, cache Cache, logger logging.Logger, opts ...Option) *Validator {
	v := &Validator{
		corpus:     corpus,
		engine:     engine,
		store:      store,
		cache:      cache,
		projection: NewProjectionEngine(engine, logger),
		rewriter:   chemistry.NewIdentityRewriter(),
		keyPolicy:  reaction.KeyPolicyRoleAware,
		metrics:    nopMetrics{},
		logger:     logger,
		compiled:   make(map[int64]chemistry.CompiledRule, corpus.Len()),
	}
	for _, opt := range opts {
		opt(v)
	}
	for _, r := range corpus.Rules() {
		c, err := engine.CompileRule(r.Template)
		if err != nil {
			v.logger.Error("skipping rule with uncompilable template",
				logging.Int64("rule", r.ID),
				logging.Err(err))
			continue
		}
		v.compiled[r.ID] = c
	}
	return v
}

// CompiledRuleCount returns how many corpus rules compiled successfully.
func (v *Validator) CompiledRuleCount() int { return len(v.compiled) }

// ValidateByID resolves a reaction from the store and validates it.
func (v *Validator) ValidateByID(ctx context.Context, id string) (*reaction.ScoreRanking, error) {
	obs, err := v.store.ReadReaction(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.CodeReactionNotFound, "reaction not found").WithDetail("id=" + id)
		}
		return nil, errors.Wrap(err, errors.CodeChemicalResolution, "failed to read reaction").WithDetail("id=" + id)
	}
	return v.Validate(ctx, obs)
}

// Validate scores every compiled rule against the reaction and returns the
// ranking of rules with scores above the unmatch level.  An empty ranking
// means no rule explains the reaction; it is cached like any other result.
//
// Failure to resolve or parse any non-placeholder participant aborts this
// reaction with an error; projection failures for individual rules do not.
func (v *Validator) Validate(ctx context.Context, obs *reaction.Observed) (*reaction.ScoreRanking, error) {
	start := time.Now()
	ranking, err := v.validate(ctx, obs)
	if err != nil {
		v.failed.Add(1)
		v.metrics.ValidationDone(time.Since(start), "error")
		return nil, err
	}
	v.processed.Add(1)
	if !ranking.Empty() {
		v.matched.Add(1)
		v.metrics.ReactionMatched()
	}
	v.metrics.ValidationDone(time.Since(start), "ok")
	return ranking, nil
}

func (v *Validator) validate(ctx context.Context, obs *reaction.Observed) (*reaction.ScoreRanking, error) {
	key := reaction.KeyFor(obs, v.keyPolicy)

	if cached, ok := v.lookup(ctx, key); ok {
		v.cacheHits.Add(1)
		v.metrics.CacheHit()
		v.logger.Debug("composition cache hit",
			logging.String("reaction", obs.ID()),
			logging.String("key", string(key)))
		return cached, nil
	}

	res, err, _ := v.flight.Do(string(key), func() (interface{}, error) {
		if cached, ok := v.lookup(ctx, key); ok {
			return cached, nil
		}
		ranking, err := v.score(ctx, obs)
		if err != nil {
			return nil, err
		}
		if err := v.cache.Put(ctx, key, ranking); err != nil {
			v.logger.Warn("failed to cache ranking",
				logging.String("key", string(key)),
				logging.Err(err))
		}
		return ranking, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*reaction.ScoreRanking), nil
}

func (v *Validator) lookup(ctx context.Context, key reaction.CompositionKey) (*reaction.ScoreRanking, bool) {
	cached, ok, err := v.cache.Get(ctx, key)
	if err != nil {
		v.logger.Warn("cache read failed, recomputing",
			logging.String("key", string(key)),
			logging.Err(err))
		return nil, false
	}
	return cached, ok
}

// score runs the full corpus sweep for one reaction.
func (v *Validator) score(ctx context.Context, obs *reaction.Observed) (*reaction.ScoreRanking, error) {
	substrates, err := v.substrateMultiset(ctx, obs)
	if err != nil {
		return nil, err
	}
	expected, err := v.expectedProducts(ctx, obs)
	if err != nil {
		return nil, err
	}

	builder := reaction.NewRankingBuilder()
	for _, r := range v.corpus.Rules() {
		compiled, ok := v.compiled[r.ID]
		if !ok {
			continue
		}
		sets, err := v.projection.Project(ctx, compiled, substrates)
		if err != nil {
			v.metrics.ProjectionError()
			v.logger.Debug("projection failed, rule counts as unmatch",
				logging.String("reaction", obs.ID()),
				logging.Int64("rule", r.ID),
				logging.Err(err))
			continue
		}
		verdict := v.projection.Score(ctx, r, sets, expected)
		if verdict.Score > rule.UnmatchScore {
			builder.Add(verdict.Score, r.ID)
		}
	}
	return builder.Build(), nil
}

// substrateMultiset resolves, rewrites and parses the substrates, expanding
// each by its stoichiometric coefficient.  Placeholder chemicals are dropped.
// Any resolution or parse failure aborts the reaction.
func (v *Validator) substrateMultiset(ctx context.Context, obs *reaction.Observed) ([]chemistry.Structure, error) {
	var out []chemistry.Structure
	for _, p := range obs.Substrates() {
		identifier, skip, err := v.resolve(ctx, obs, p.ID)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		s, err := v.engine.ParseStructure(ctx, identifier)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStructureParse, "failed to parse substrate").
				WithDetail("reaction=" + obs.ID() + " chemical=" + string(p.ID))
		}
		s = v.engine.Normalize(s)
		for i := 0; i < obs.Coefficient(p.ID, reaction.RoleSubstrate); i++ {
			out = append(out, s)
		}
	}
	return out, nil
}

// expectedProducts canonicalizes the declared products into the comparison
// set.  Placeholder products are dropped; a reaction whose products are all
// placeholders yields an empty set and every rule scores as unmatch.
func (v *Validator) expectedProducts(ctx context.Context, obs *reaction.Observed) (ExpectedProducts, error) {
	expected := make(ExpectedProducts, len(obs.Products()))
	for _, p := range obs.Products() {
		identifier, skip, err := v.resolve(ctx, obs, p.ID)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		s, err := v.engine.ParseStructure(ctx, identifier)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStructureParse, "failed to parse product").
				WithDetail("reaction=" + obs.ID() + " chemical=" + string(p.ID))
		}
		canonical, err := v.engine.CanonicalIdentifier(v.engine.Normalize(s), chemistry.ComparisonOptions)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeCanonicalization, "failed to canonicalize product").
				WithDetail("reaction=" + obs.ID() + " chemical=" + string(p.ID))
		}
		expected.Add(canonical)
	}
	return expected, nil
}

// resolve reads and rewrites one participant's identifier.  skip is true for
// placeholder chemicals, which are not an error.
func (v *Validator) resolve(ctx context.Context, obs *reaction.Observed, id reaction.ChemicalID) (identifier string, skip bool, err error) {
	identifier, err = v.store.ReadChemicalIdentifier(ctx, id)
	if err != nil {
		return "", false, errors.Wrap(err, errors.CodeChemicalResolution, "failed to resolve chemical").
			WithDetail("reaction=" + obs.ID() + " chemical=" + string(id))
	}
	identifier = v.rewriter.Rewrite(identifier)
	if chemistry.IsPlaceholder(identifier) {
		v.logger.Debug("skipping placeholder chemical",
			logging.String("reaction", obs.ID()),
			logging.String("chemical", string(id)))
		return "", true, nil
	}
	return identifier, false, nil
}

// Snapshot returns the current run counters.
func (v *Validator) Snapshot() Stats {
	return Stats{
		Processed: v.processed.Load(),
		Matched:   v.matched.Load(),
		CacheHits: v.cacheHits.Load(),
		Failed:    v.failed.Load(),
	}
}

// LogSummary emits the end-of-run counter line.
func (v *Validator) LogSummary() {
	s := v.Snapshot()
	v.logger.Info("validation run summary",
		logging.Int64("processed", s.Processed),
		logging.Int64("matched", s.Matched),
		logging.Int64("cache_hits", s.CacheHits),
		logging.Int64("failed", s.Failed))
}
