package rule

// The match-score ladder is policy, kept as data so a change to the taxonomy
// is a table edit rather than a logic change.  The placement of StatusUnknown
// above StatusManuallyInvalidated is deliberate: an unreviewed rule is better
// evidence than one a curator actively rejected, and worse than one a curator
// confirmed.
var matchScoreTable = map[CurationStatus]int{
	StatusPerfect:             4,
	StatusManuallyValidated:   3,
	StatusUnknown:             2,
	StatusManuallyInvalidated: 0,
}

const (
	// DefaultMatchScore is assigned when a rule matches but its status is not
	// in the ladder (StatusManuallyNotVerified and any future statuses).
	DefaultMatchScore = 1

	// UnmatchScore marks a rule that does not explain the reaction.  Rules
	// scoring UnmatchScore never enter a ScoreRanking.
	UnmatchScore = -1
)

// MatchScore returns the score a rule with the given curation status earns
// when it matches a reaction.
func MatchScore(status CurationStatus) int {
	if score, ok := matchScoreTable[status]; ok {
		return score
	}
	return DefaultMatchScore
}
