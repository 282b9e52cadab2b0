// Package testutil provides shared test doubles: a scriptable, call-counting
// stub chemistry engine and a recording logger.  Production code must never
// import this package.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// StubStructure is the chemistry.Structure used by the stub engine: just the
// identifier it was "parsed" from.
type StubStructure struct {
	Identifier string
}

func (s StubStructure) Raw() string { return s.Identifier }

// StubRule is the chemistry.CompiledRule used by the stub engine.
type StubRule struct {
	Tmpl string
}

func (r StubRule) Template() string { return r.Tmpl }

// StubEngine is a scriptable chemistry.Engine.  Projections maps a rule
// template to the candidate output sets (as identifiers) it should produce;
// the Fail* maps inject errors.  All call counters are safe for concurrent
// use.
type StubEngine struct {
	mu sync.Mutex

	// Projections: template → alternative candidate output sets.
	Projections map[string][][]string

	// FailParse: identifier → error returned by ParseStructure.
	FailParse map[string]error

	// FailCanonical: identifier → error returned by CanonicalIdentifier.
	FailCanonical map[string]error

	// FailCompile: template → error returned by CompileRule.
	FailCompile map[string]error

	// FailProject: template → error returned by ProjectRule.
	FailProject map[string]error

	// IgnoreMaxResults makes ProjectRule return every scripted candidate set
	// regardless of maxResults, to exercise caller-side truncation.
	IgnoreMaxResults bool

	ParseCalls     int
	NormalizeCalls int
	CanonicalCalls int
	CompileCalls   int
	ProjectCalls   int

	// ProjectInputs records the identifiers passed to each ProjectRule call.
	ProjectInputs [][]string
}

// NewStubEngine returns an engine with no scripted projections: every rule
// projects to nothing.
func NewStubEngine() *StubEngine {
	return &StubEngine{Projections: map[string][][]string{}}
}

// Project scripts the candidate output sets for a rule template.
func (e *StubEngine) Project(template string, sets ...[]string) *StubEngine {
	e.Projections[template] = append(e.Projections[template], sets...)
	return e
}

func (e *StubEngine) ParseStructure(_ context.Context, identifier string) (chemistry.Structure, error) {
	e.mu.Lock()
	e.ParseCalls++
	e.mu.Unlock()
	if err := e.FailParse[identifier]; err != nil {
		return nil, errors.Wrap(err, errors.CodeStructureParse, "stub parse failure")
	}
	return StubStructure{Identifier: identifier}, nil
}

func (e *StubEngine) Normalize(s chemistry.Structure) chemistry.Structure {
	e.mu.Lock()
	e.NormalizeCalls++
	e.mu.Unlock()
	return s
}

// CanonicalIdentifier strips the stereo marker characters "@", "/" and "\"
// when StripStereochemistry is set, mimicking a stereo-free export.
func (e *StubEngine) CanonicalIdentifier(s chemistry.Structure, opts chemistry.CanonicalOptions) (string, error) {
	e.mu.Lock()
	e.CanonicalCalls++
	e.mu.Unlock()
	raw := s.Raw()
	if err := e.FailCanonical[raw]; err != nil {
		return "", errors.Wrap(err, errors.CodeCanonicalization, "stub canonicalization failure")
	}
	if opts.StripStereochemistry {
		raw = strings.Map(func(r rune) rune {
			switch r {
			case '@', '/', '\\':
				return -1
			}
			return r
		}, raw)
	}
	return raw, nil
}

func (e *StubEngine) CompileRule(template string) (chemistry.CompiledRule, error) {
	e.mu.Lock()
	e.CompileCalls++
	e.mu.Unlock()
	if err := e.FailCompile[template]; err != nil {
		return nil, errors.Wrap(err, errors.CodeRuleTemplateInvalid, "stub compile failure")
	}
	return StubRule{Tmpl: template}, nil
}

func (e *StubEngine) ProjectRule(_ context.Context, rule chemistry.CompiledRule, inputs []chemistry.Structure, maxResults int) ([][]chemistry.Structure, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.Raw())
	}
	e.mu.Lock()
	e.ProjectCalls++
	e.ProjectInputs = append(e.ProjectInputs, ids)
	e.mu.Unlock()
	if len(inputs) == 0 {
		return nil, errors.New(errors.CodeNoSubstrates, "stub: no inputs")
	}
	if err := e.FailProject[rule.Template()]; err != nil {
		return nil, errors.Wrap(err, errors.CodeProjectionFailed, "stub projection failure")
	}
	sets := e.Projections[rule.Template()]
	if !e.IgnoreMaxResults && len(sets) > maxResults {
		sets = sets[:maxResults]
	}
	out := make([][]chemistry.Structure, 0, len(sets))
	for _, set := range sets {
		structs := make([]chemistry.Structure, 0, len(set))
		for _, id := range set {
			structs = append(structs, StubStructure{Identifier: id})
		}
		out = append(out, structs)
	}
	return out, nil
}

// ProjectCallCount returns a snapshot of the projection call counter.
func (e *StubEngine) ProjectCallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ProjectCalls
}

// Structures is a convenience constructor for ordered input lists.
func Structures(identifiers ...string) []chemistry.Structure {
	out := make([]chemistry.Structure, 0, len(identifiers))
	for _, id := range identifiers {
		out = append(out, StubStructure{Identifier: id})
	}
	return out
}
