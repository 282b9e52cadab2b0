package rule

import (
	"context"

	"github.com/enzymatix/mechvalid/pkg/errors"
)

// Source supplies the curated rule set from its backing reference data
// (a corpus file, a database table).  Implementations live in infrastructure.
type Source interface {
	LoadRules(ctx context.Context) ([]*Rule, error)
}

// Corpus is an immutable, ordered working set of rules.  Filtering returns a
// new Corpus so that a corpus shared between a validation run and an expansion
// run cannot be narrowed behind the other's back.
type Corpus struct {
	rules []*Rule
}

// NewCorpus builds a Corpus over the given rules.  The slice is copied; the
// Rule values themselves are shared and must not be mutated by callers.
func NewCorpus(rules []*Rule) *Corpus {
	cp := make([]*Rule, len(rules))
	copy(cp, rules)
	return &Corpus{rules: cp}
}

// Load reads the full rule set from src.  A missing or malformed backing
// store surfaces as CodeCorpusLoad, which is fatal to the run: scoring
// against a partial corpus would silently misreport confidence.
func Load(ctx context.Context, src Source) (*Corpus, error) {
	rules, err := src.LoadRules(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCorpusLoad, "failed to load rule corpus")
	}
	for _, r := range rules {
		if r.SubstrateArity < 1 {
			return nil, errors.Newf(errors.CodeCorpusLoad,
				"rule %d has non-positive substrate arity %d", r.ID, r.SubstrateArity)
		}
	}
	return NewCorpus(rules), nil
}

// Rules returns the working rule set in corpus order.  The returned slice is
// shared; callers must treat it as read-only.
func (c *Corpus) Rules() []*Rule {
	return c.rules
}

// Len returns the number of rules in the working set.
func (c *Corpus) Len() int {
	return len(c.rules)
}

// FilterByArity returns a new Corpus containing only rules whose substrate
// arity equals n, preserving corpus order.  The receiver is unchanged.
func (c *Corpus) FilterByArity(n int) *Corpus {
	filtered := make([]*Rule, 0, len(c.rules))
	for _, r := range c.rules {
		if r.SubstrateArity == n {
			filtered = append(filtered, r)
		}
	}
	return &Corpus{rules: filtered}
}

// FilterByStatus returns a new Corpus containing only rules whose curation
// status is one of the given statuses, preserving corpus order.
func (c *Corpus) FilterByStatus(statuses ...CurationStatus) *Corpus {
	want := make(map[CurationStatus]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	filtered := make([]*Rule, 0, len(c.rules))
	for _, r := range c.rules {
		if _, ok := want[r.Status]; ok {
			filtered = append(filtered, r)
		}
	}
	return &Corpus{rules: filtered}
}
