package cli

import (
	"context"
	"fmt"

	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/domain/reaction"
	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/infrastructure/chemengine"
	"github.com/enzymatix/mechvalid/internal/infrastructure/corpusfile"
	neo4jstore "github.com/enzymatix/mechvalid/internal/infrastructure/database/neo4j"
	"github.com/enzymatix/mechvalid/internal/infrastructure/database/postgres"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
)

// buildCorpus loads the rule corpus from the configured source.
func buildCorpus(ctx context.Context, cfg *config.Config, logger logging.Logger) (*rule.Corpus, func(), error) {
	switch cfg.Corpus.Source {
	case "postgres":
		conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		corpus, err := rule.Load(ctx, postgres.NewRuleSource(conn, logger))
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return corpus, conn.Close, nil
	case "file":
		corpus, err := rule.Load(ctx, corpusfile.NewSource(cfg.Corpus.Path, logger))
		if err != nil {
			return nil, nil, err
		}
		return corpus, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported corpus source %q", cfg.Corpus.Source)
	}
}

// buildStore connects to the knowledge graph.
func buildStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (*neo4jstore.ReactionStore, func(), error) {
	driver, err := neo4jstore.NewDriver(ctx, cfg.Neo4j, logger)
	if err != nil {
		return nil, nil, err
	}
	closer := func() { _ = driver.Close(context.Background()) }
	return neo4jstore.NewReactionStore(driver, logger), closer, nil
}

func buildEngine(cfg *config.Config, logger logging.Logger) *chemengine.Client {
	return chemengine.NewClient(cfg.Engine, logger)
}

func keyPolicyFromString(s string) (reaction.KeyPolicy, error) {
	switch s {
	case "", "role_aware":
		return reaction.KeyPolicyRoleAware, nil
	case "substrate_lookup":
		return reaction.KeyPolicySubstrateLookup, nil
	default:
		return reaction.KeyPolicyRoleAware, fmt.Errorf("unknown key policy %q", s)
	}
}
