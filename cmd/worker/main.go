// The worker consumes validation jobs from Kafka, scores each reaction
// against the rule corpus, publishes per-reaction results, and writes
// rankings back onto the knowledge graph.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/enzymatix/mechvalid/internal/application/validation"
	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/domain/reaction"
	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/infrastructure/chemengine"
	"github.com/enzymatix/mechvalid/internal/infrastructure/corpusfile"
	neo4jstore "github.com/enzymatix/mechvalid/internal/infrastructure/database/neo4j"
	"github.com/enzymatix/mechvalid/internal/infrastructure/database/postgres"
	redisinfra "github.com/enzymatix/mechvalid/internal/infrastructure/database/redis"
	"github.com/enzymatix/mechvalid/internal/infrastructure/messaging/kafka"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/prometheus"
	validationtypes "github.com/enzymatix/mechvalid/pkg/types/validation"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := chemengine.NewClient(cfg.Engine, logger)
	if err := engine.Health(ctx); err != nil {
		return err
	}

	corpus, outcomes, closeCorpus, err := loadCorpus(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCorpus()
	logger.Info("rule corpus ready", logging.Int("rules", corpus.Len()))

	driver, err := neo4jstore.NewDriver(ctx, cfg.Neo4j, logger)
	if err != nil {
		return err
	}
	defer func() { _ = driver.Close(context.Background()) }()
	store := neo4jstore.NewReactionStore(driver, logger)

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()
	cache := redisinfra.NewRankingCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL)

	registry := promclient.NewRegistry()
	metrics := prometheus.NewValidationMetrics(registry)

	rewriter, err := corpusfile.LoadRewrites(ctx, cfg.Corpus.RewritesPath, logger)
	if err != nil {
		return err
	}

	// One validator per key policy so a job override never pollutes the
	// default validator's cache keys.
	validators := map[reaction.KeyPolicy]*validation.Validator{}
	for _, policy := range []reaction.KeyPolicy{reaction.KeyPolicyRoleAware, reaction.KeyPolicySubstrateLookup} {
		validators[policy] = validation.NewValidator(corpus, engine, store, cache, logger,
			validation.WithKeyPolicy(policy),
			validation.WithRewriter(rewriter),
			validation.WithProjectionCap(cfg.Validator.MaxProjections),
			validation.WithMetrics(metrics))
	}
	defaultPolicy, err := policyFromConfig(cfg.Validator.KeyPolicy)
	if err != nil {
		return err
	}

	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer func() { _ = producer.Close() }()
	consumer := kafka.NewConsumer(cfg.Kafka, logger)
	defer func() { _ = consumer.Close() }()

	httpServer := serveHTTP(cfg.Worker.HTTPAddr, registry, logger)
	defer shutdownHTTP(httpServer, cfg.Worker.ShutdownTimeout, logger)

	handler := func(ctx context.Context, job validationtypes.Job) error {
		metrics.JobConsumed()

		policy := defaultPolicy
		if job.KeyPolicy != "" {
			p, err := policyFromConfig(job.KeyPolicy)
			if err != nil {
				// Redelivery cannot fix an unknown policy; park the job.
				return producer.PublishDeadLetter(ctx, job, err.Error())
			}
			policy = p
		}
		validator := validators[policy]

		logger.Info("processing job",
			logging.String("job", job.JobID),
			logging.Int("reactions", len(job.ReactionIDs)))

		for _, id := range job.ReactionIDs {
			result := validationtypes.Result{
				JobID:       job.JobID,
				ReactionID:  id,
				CompletedAt: time.Now().UTC(),
			}
			obs, err := store.ReadReaction(ctx, id)
			if err != nil {
				result.Error = err.Error()
			} else if ranking, err := validator.Validate(ctx, obs); err != nil {
				result.Error = err.Error()
			} else {
				result.RuleScores = ranking.RuleScores()
				if err := store.AttachValidationResult(ctx, id, ranking); err != nil {
					logger.Warn("failed to attach ranking to graph",
						logging.String("reaction", id),
						logging.Err(err))
				}
				if outcomes != nil {
					key := reaction.KeyFor(obs, policy)
					if err := outcomes.Save(ctx, id, key, ranking); err != nil {
						logger.Warn("failed to persist outcome",
							logging.String("reaction", id),
							logging.Err(err))
					}
				}
			}
			if err := producer.PublishResult(ctx, result); err != nil {
				return err
			}
			metrics.ResultPublished()
		}
		validator.LogSummary()
		return nil
	}

	logger.Info("worker started",
		logging.String("group", cfg.Kafka.GroupID),
		logging.String("http", cfg.Worker.HTTPAddr))

	if err := consumer.Run(ctx, handler); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("worker stopped")
	return nil
}

// loadCorpus returns the rule corpus and, when the corpus lives in postgres,
// an outcome repository on the same connection so completed validations
// survive worker restarts.
func loadCorpus(ctx context.Context, cfg *config.Config, logger logging.Logger) (*rule.Corpus, *postgres.OutcomeRepo, func(), error) {
	if cfg.Corpus.Source == "postgres" {
		if err := postgres.Migrate(cfg.Database, logger); err != nil {
			return nil, nil, nil, err
		}
		conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		corpus, err := rule.Load(ctx, postgres.NewRuleSource(conn, logger))
		if err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return corpus, postgres.NewOutcomeRepo(conn, logger), conn.Close, nil
	}
	corpus, err := rule.Load(ctx, corpusfile.NewSource(cfg.Corpus.Path, logger))
	if err != nil {
		return nil, nil, nil, err
	}
	return corpus, nil, func() {}, nil
}

func policyFromConfig(s string) (reaction.KeyPolicy, error) {
	switch s {
	case "role_aware":
		return reaction.KeyPolicyRoleAware, nil
	case "substrate_lookup":
		return reaction.KeyPolicySubstrateLookup, nil
	}
	return reaction.KeyPolicyRoleAware, fmt.Errorf("unknown key policy %q", s)
}

func serveHTTP(addr string, registry *promclient.Registry, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", prometheus.Handler(registry))

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http listener failed", logging.Err(err))
		}
	}()
	return server
}

func shutdownHTTP(server *http.Server, timeout time.Duration, logger logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown incomplete", logging.Err(err))
	}
}
