// Package validation defines the wire types exchanged over the job queue and
// stored alongside validation outcomes.
package validation

import (
	"time"
)

// Job is a request to validate a batch of reactions, published on the jobs
// topic.
type Job struct {
	JobID       string    `json:"job_id"`
	ReactionIDs []string  `json:"reaction_ids"`
	// KeyPolicy optionally overrides the worker's configured composition-key
	// policy: "role_aware" or "substrate_lookup".  Empty means worker default.
	KeyPolicy   string    `json:"key_policy,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Result is the per-reaction outcome published on the results topic.  Either
// RuleScores or Error is populated; an empty RuleScores map with no Error
// means validation ran and no rule matched.
type Result struct {
	JobID       string         `json:"job_id"`
	ReactionID  string         `json:"reaction_id"`
	RuleScores  map[string]int `json:"rule_scores,omitempty"`
	Error       string         `json:"error,omitempty"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Failed reports whether the reaction's validation errored.
func (r Result) Failed() bool { return r.Error != "" }
