// Package chemistry defines the contract with the external chemistry engine:
// structure parsing, normalization, canonical identifier export, and rule
// projection.  The engine itself (ChemAxon, RDKit, or a service wrapping one)
// lives outside this repository; everything here is interface plus the small
// helpers the validation core needs around it.
package chemistry

import "context"

// Structure is an opaque molecular structure owned by the chemistry engine.
// The core never inspects it beyond the raw identifier it was parsed from.
type Structure interface {
	// Raw returns the identifier the structure was parsed from.
	Raw() string
}

// CompiledRule is a rule template compiled into whatever executable form the
// engine uses (a reactor, a SMARTS transform, ...).  Compilation is the step
// that fails for malformed templates, so callers can skip bad rules up front.
type CompiledRule interface {
	// Template returns the rule template the compiled form was built from.
	Template() string
}

// CanonicalOptions controls canonical identifier export.
type CanonicalOptions struct {
	// StripStereochemistry removes stereo detail before export.  The
	// validation core always sets this: rule matching compares constitution,
	// not configuration.
	StripStereochemistry bool
}

// ComparisonOptions is the option set used everywhere the core canonicalizes
// a structure for equality comparison.
var ComparisonOptions = CanonicalOptions{StripStereochemistry: true}

// Engine is the external chemistry collaborator.  All calls are synchronous;
// the engine may be slow or rate limited, which is why batch callers
// parallelize across reactions rather than within one reaction's rule loop.
type Engine interface {
	// ParseStructure parses a chemical identifier into a Structure.
	ParseStructure(ctx context.Context, identifier string) (Structure, error)

	// Normalize 2D-cleans and aromatizes a structure.  Idempotent.  Rules
	// only match cleaned, aromatized structures, so the core normalizes every
	// structure it parses before projection or comparison.
	Normalize(s Structure) Structure

	// CanonicalIdentifier exports a canonical identifier string for s.
	CanonicalIdentifier(s Structure, opts CanonicalOptions) (string, error)

	// CompileRule compiles a rule template.  A malformed template returns an
	// error; callers skip the rule rather than aborting.
	CompileRule(template string) (CompiledRule, error)

	// ProjectRule applies a compiled rule to an ordered input list and
	// returns up to maxResults alternative output structure sets.  An empty
	// result means the rule does not apply to these inputs.
	ProjectRule(ctx context.Context, rule CompiledRule, inputs []Structure, maxResults int) ([][]Structure, error)
}

// IdentifierRewriter rewrites known-bad structure identifiers before they
// reach the engine.  The curated corpus ships a blacklist of identifiers with
// corrected replacements; everything else passes through unchanged.
type IdentifierRewriter interface {
	Rewrite(identifier string) string
}

// identityRewriter passes every identifier through unchanged.
type identityRewriter struct{}

func (identityRewriter) Rewrite(identifier string) string { return identifier }

// NewIdentityRewriter returns a rewriter that never changes identifiers.
func NewIdentityRewriter() IdentifierRewriter { return identityRewriter{} }

// mapRewriter rewrites identifiers through a fixed replacement table.
type mapRewriter struct {
	replacements map[string]string
}

func (m mapRewriter) Rewrite(identifier string) string {
	if repl, ok := m.replacements[identifier]; ok {
		return repl
	}
	return identifier
}

// NewMapRewriter returns a rewriter backed by the given replacement table.
// The table is copied; later mutation of the argument has no effect.
func NewMapRewriter(replacements map[string]string) IdentifierRewriter {
	cp := make(map[string]string, len(replacements))
	for k, v := range replacements {
		cp[k] = v
	}
	return mapRewriter{replacements: cp}
}
