package neo4j

import (
	"context"
	"encoding/json"

	"github.com/enzymatix/mechvalid/internal/domain/reaction"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// ReactionStore resolves reactions and chemical identifiers from the graph
// and writes validation results back onto Reaction nodes.  It implements the
// validator's ChemicalStore.
type ReactionStore struct {
	runner TxRunner
	logger logging.Logger
}

// NewReactionStore builds a store over a connected driver.
func NewReactionStore(d *Driver, logger logging.Logger) *ReactionStore {
	return &ReactionStore{runner: d, logger: logger}
}

func newReactionStoreWithRunner(r TxRunner, logger logging.Logger) *ReactionStore {
	return &ReactionStore{runner: r, logger: logger}
}

const (
	reactionExistsCypher = `MATCH (r:Reaction {id: $id}) RETURN r.id AS id`

	// Participants are ordered by chemical id so repeated reads of the same
	// reaction produce identical composition keys.
	substratesCypher = `
		MATCH (:Reaction {id: $id})-[rel:HAS_SUBSTRATE]->(c:Chemical)
		RETURN c.id AS chemical, rel.coefficient AS coefficient
		ORDER BY c.id`

	productsCypher = `
		MATCH (:Reaction {id: $id})-[rel:HAS_PRODUCT]->(c:Chemical)
		RETURN c.id AS chemical, rel.coefficient AS coefficient
		ORDER BY c.id`

	chemicalCypher = `MATCH (c:Chemical {id: $id}) RETURN c.inchi AS identifier`

	attachResultCypher = `
		MATCH (r:Reaction {id: $id})
		SET r.rule_scores = $scores, r.validated_at = datetime()
		RETURN r.id AS id`
)

// ReadReaction loads a reaction with its cofactor-stripped participants.
func (s *ReactionStore) ReadReaction(ctx context.Context, id string) (*reaction.Observed, error) {
	res, err := s.runner.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		exists, err := tx.Run(ctx, reactionExistsCypher, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if !exists.Next(ctx) {
			if err := exists.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Newf(errors.CodeReactionNotFound, "reaction %s is not in the graph", id)
		}

		obs := reaction.NewObserved(id)
		if err := s.collectParticipants(ctx, tx, substratesCypher, id, obs.AddSubstrate); err != nil {
			return nil, err
		}
		if err := s.collectParticipants(ctx, tx, productsCypher, id, obs.AddProduct); err != nil {
			return nil, err
		}
		return obs, nil
	})
	if err != nil {
		if errors.IsCode(err, errors.CodeReactionNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeGraphStore, "failed to read reaction").
			WithDetail("id=" + id)
	}
	return res.(*reaction.Observed), nil
}

func (s *ReactionStore) collectParticipants(ctx context.Context, tx Transaction, cypher, id string, add func(reaction.ChemicalID, int) *reaction.Observed) error {
	result, err := tx.Run(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return err
	}
	for result.Next(ctx) {
		record := result.Record()
		chemical, _ := record.Get("chemical")
		coefficient, _ := record.Get("coefficient")
		add(reaction.ChemicalID(asString(chemical)), asInt(coefficient))
	}
	return result.Err()
}

// ReadChemicalIdentifier returns the structure identifier stored on the
// chemical node.
func (s *ReactionStore) ReadChemicalIdentifier(ctx context.Context, id reaction.ChemicalID) (string, error) {
	res, err := s.runner.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		result, err := tx.Run(ctx, chemicalCypher, map[string]any{"id": string(id)})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Newf(errors.CodeChemicalNotFound, "chemical %s is not in the graph", id)
		}
		identifier, _ := result.Record().Get("identifier")
		return asString(identifier), nil
	})
	if err != nil {
		if errors.IsCode(err, errors.CodeChemicalNotFound) {
			return "", err
		}
		return "", errors.Wrap(err, errors.CodeGraphStore, "failed to read chemical").
			WithDetail("id=" + string(id))
	}
	return res.(string), nil
}

// AttachValidationResult writes a ranking back onto the reaction node as a
// JSON rule-id to score map.
func (s *ReactionStore) AttachValidationResult(ctx context.Context, id string, ranking *reaction.ScoreRanking) error {
	scores, err := json.Marshal(ranking)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode ranking")
	}
	_, err = s.runner.ExecuteWrite(ctx, func(tx Transaction) (any, error) {
		result, err := tx.Run(ctx, attachResultCypher, map[string]any{
			"id":     id,
			"scores": string(scores),
		})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Newf(errors.CodeReactionNotFound, "reaction %s is not in the graph", id)
		}
		return nil, nil
	})
	if err != nil {
		if errors.IsCode(err, errors.CodeReactionNotFound) {
			return err
		}
		return errors.Wrap(err, errors.CodeGraphStore, "failed to attach validation result").
			WithDetail("id=" + id)
	}
	s.logger.Debug("validation result attached", logging.String("reaction", id))
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
