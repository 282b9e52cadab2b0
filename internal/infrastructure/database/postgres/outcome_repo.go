package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enzymatix/mechvalid/internal/domain/reaction"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// OutcomeRepo persists per-reaction validation results so that completed
// batches survive worker restarts.
type OutcomeRepo struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewOutcomeRepo builds an OutcomeRepo over an open connection.
func NewOutcomeRepo(conn *Connection, logger logging.Logger) *OutcomeRepo {
	return &OutcomeRepo{pool: conn.Pool(), logger: logger}
}

// Save upserts the ranking for a reaction.  Re-validating a reaction
// overwrites its previous outcome.
func (r *OutcomeRepo) Save(ctx context.Context, reactionID string, key reaction.CompositionKey, ranking *reaction.ScoreRanking) error {
	scores, err := json.Marshal(ranking)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode ranking")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO validation_outcomes (reaction_id, composition_key, rule_scores, validated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (reaction_id)
		DO UPDATE SET composition_key = $2, rule_scores = $3, validated_at = now()`,
		reactionID, string(key), scores)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to save validation outcome").
			WithDetail("reaction=" + reactionID)
	}
	return nil
}

// Get returns the stored ranking for a reaction, or CodeNotFound when the
// reaction has never been validated.
func (r *OutcomeRepo) Get(ctx context.Context, reactionID string) (*reaction.ScoreRanking, error) {
	var scores []byte
	err := r.pool.QueryRow(ctx,
		`SELECT rule_scores FROM validation_outcomes WHERE reaction_id = $1`, reactionID).
		Scan(&scores)
	if err == pgx.ErrNoRows {
		return nil, errors.Newf(errors.CodeNotFound, "no stored outcome for reaction %s", reactionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read validation outcome")
	}

	ranking := &reaction.ScoreRanking{}
	if err := json.Unmarshal(scores, ranking); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "stored ranking is corrupt").
			WithDetail("reaction=" + reactionID)
	}
	return ranking, nil
}
