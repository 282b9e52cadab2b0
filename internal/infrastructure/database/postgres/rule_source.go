package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// RuleSource loads the curated rule corpus from the rule_corpus table.  It
// implements rule.Source.
type RuleSource struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewRuleSource builds a RuleSource over an open connection.
func NewRuleSource(conn *Connection, logger logging.Logger) *RuleSource {
	return &RuleSource{pool: conn.Pool(), logger: logger}
}

// LoadRules reads every corpus rule ordered by id.  Ordering matters: rule
// order determines bucket order in rankings and must be stable across runs.
func (s *RuleSource) LoadRules(ctx context.Context) ([]*rule.Rule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, template, substrate_arity, status FROM rule_corpus ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query rule corpus")
	}
	defer rows.Close()

	var rules []*rule.Rule
	for rows.Next() {
		r := &rule.Rule{}
		var status string
		if err := rows.Scan(&r.ID, &r.Name, &r.Template, &r.SubstrateArity, &status); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan corpus row")
		}
		r.Status = rule.CurationStatus(status)
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "corpus row iteration failed")
	}

	s.logger.Info("rule corpus loaded from postgres", logging.Int("rules", len(rules)))
	return rules, nil
}
