// Package rule provides the domain model for reaction operators: curated
// transformation rules, their curation status, the fixed match-score ladder,
// and the corpus that owns the working rule set for a validation or expansion
// run.
package rule

// CurationStatus is the human-review label on a rule indicating how much
// confidence a match against that rule carries.
type CurationStatus string

const (
	// StatusPerfect marks rules classified as perfect by the curation team.
	StatusPerfect CurationStatus = "perfect"

	// StatusManuallyValidated marks rules a curator reviewed and confirmed.
	StatusManuallyValidated CurationStatus = "manually_validated"

	// StatusManuallyNotVerified marks rules a curator looked at without
	// reaching a verdict.
	StatusManuallyNotVerified CurationStatus = "manually_not_verified"

	// StatusManuallyInvalidated marks rules a curator actively rejected.
	StatusManuallyInvalidated CurationStatus = "manually_invalidated"

	// StatusUnknown marks rules no curator has reviewed.
	StatusUnknown CurationStatus = "unknown"
)

// Valid reports whether s is one of the defined curation statuses.
func (s CurationStatus) Valid() bool {
	switch s {
	case StatusPerfect, StatusManuallyValidated, StatusManuallyNotVerified,
		StatusManuallyInvalidated, StatusUnknown:
		return true
	}
	return false
}

// Rule is one curated transformation rule (reaction operator).  The template
// is an opaque token handed to the chemistry engine; the core never interprets
// it.  Rules are immutable once loaded and owned by the Corpus for the
// lifetime of a run.
type Rule struct {
	// ID is the stable corpus identifier of the rule.
	ID int64 `json:"id"`

	// Template is the rule template in whatever notation the chemistry
	// engine consumes.
	Template string `json:"template"`

	// SubstrateArity is the number of distinct input structures the rule
	// expects.  Always positive.
	SubstrateArity int `json:"substrate_arity"`

	// Status is the curation status driving the match score.
	Status CurationStatus `json:"status"`

	// Name is an optional human-readable label for reports and logs.
	Name string `json:"name,omitempty"`
}
