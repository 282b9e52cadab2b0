package reaction

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Bucket is one score level of a ranking together with the rules that earned
// it, in the order they were accumulated (corpus order).
type Bucket struct {
	Score   int     `json:"score"`
	RuleIDs []int64 `json:"rule_ids"`
}

// ScoreRanking maps scores (descending) to the rules that achieved them for
// one reaction.  It is built once per reaction, cached under the reaction's
// CompositionKey, and immutable thereafter.  An empty ranking means no rule
// matched; that is a valid outcome, distinct from a validation failure.
type ScoreRanking struct {
	buckets []Bucket // sorted by Score descending
}

// RankingBuilder accumulates match verdicts during a corpus sweep.
type RankingBuilder struct {
	byScore map[int][]int64
	scores  []int
}

// NewRankingBuilder returns an empty builder.
func NewRankingBuilder() *RankingBuilder {
	return &RankingBuilder{byScore: make(map[int][]int64)}
}

// Add records that a rule achieved the given score.  Scores at or below the
// unmatch level should not be added; the builder does not enforce the policy.
func (b *RankingBuilder) Add(score int, ruleID int64) *RankingBuilder {
	if _, ok := b.byScore[score]; !ok {
		b.scores = append(b.scores, score)
	}
	b.byScore[score] = append(b.byScore[score], ruleID)
	return b
}

// Build produces the immutable ranking.  The builder can be discarded after.
func (b *RankingBuilder) Build() *ScoreRanking {
	sort.Sort(sort.Reverse(sort.IntSlice(b.scores)))
	buckets := make([]Bucket, 0, len(b.scores))
	for _, s := range b.scores {
		ids := make([]int64, len(b.byScore[s]))
		copy(ids, b.byScore[s])
		buckets = append(buckets, Bucket{Score: s, RuleIDs: ids})
	}
	return &ScoreRanking{buckets: buckets}
}

// Buckets returns the score buckets in descending score order.  The slice is
// shared; callers must treat it as read-only.
func (r *ScoreRanking) Buckets() []Bucket { return r.buckets }

// Empty reports whether no rule matched.
func (r *ScoreRanking) Empty() bool { return len(r.buckets) == 0 }

// Len returns the total number of matched rules across all buckets.
func (r *ScoreRanking) Len() int {
	n := 0
	for _, b := range r.buckets {
		n += len(b.RuleIDs)
	}
	return n
}

// Best returns the highest score in the ranking and true, or 0 and false when
// the ranking is empty.
func (r *ScoreRanking) Best() (int, bool) {
	if len(r.buckets) == 0 {
		return 0, false
	}
	return r.buckets[0].Score, true
}

// RuleScores flattens the ranking into a rule-id → score map, the shape in
// which results are attached back onto the reaction record.
func (r *ScoreRanking) RuleScores() map[string]int {
	out := make(map[string]int, r.Len())
	for _, b := range r.buckets {
		for _, id := range b.RuleIDs {
			out[strconv.FormatInt(id, 10)] = b.Score
		}
	}
	return out
}

// MarshalJSON serializes the ranking as the rule-id → score map.
func (r *ScoreRanking) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.RuleScores())
}

// UnmarshalJSON rebuilds a ranking from the rule-id → score map.  Rule ids
// within a bucket are sorted ascending: the map form does not preserve corpus
// order, so a deterministic order is imposed instead.
func (r *ScoreRanking) UnmarshalJSON(data []byte) error {
	var scores map[string]int
	if err := json.Unmarshal(data, &scores); err != nil {
		return err
	}
	byScore := make(map[int][]int64)
	var levels []int
	for idStr, score := range scores {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return err
		}
		if _, ok := byScore[score]; !ok {
			levels = append(levels, score)
		}
		byScore[score] = append(byScore[score], id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))
	buckets := make([]Bucket, 0, len(levels))
	for _, s := range levels {
		ids := byScore[s]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		buckets = append(buckets, Bucket{Score: s, RuleIDs: ids})
	}
	r.buckets = buckets
	return nil
}
