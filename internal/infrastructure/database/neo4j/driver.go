// Package neo4j reads the reaction knowledge graph: Reaction nodes linked to
// Chemical nodes via HAS_SUBSTRATE and HAS_PRODUCT relationships carrying
// stoichiometric coefficients.
package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// Result abstracts neo4j.ResultWithContext so repositories can be tested
// against fakes.
type Result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// Transaction abstracts neo4j.ManagedTransaction.
type Transaction interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Result, error)
}

// TxRunner runs work inside managed read or write transactions.
type TxRunner interface {
	ExecuteRead(ctx context.Context, work func(Transaction) (any, error)) (any, error)
	ExecuteWrite(ctx context.Context, work func(Transaction) (any, error)) (any, error)
}

type managedTx struct {
	tx neo4j.ManagedTransaction
}

func (t managedTx) Run(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return t.tx.Run(ctx, cypher, params)
}

// Driver wraps the bolt driver and implements TxRunner with one session per
// transaction.
type Driver struct {
	driver   neo4j.DriverWithContext
	database string
	logger   logging.Logger
}

// NewDriver connects to the graph and verifies connectivity.
func NewDriver(ctx context.Context, cfg config.Neo4jConfig, logger logging.Logger) (*Driver, error) {
	d, err := neo4j.NewDriverWithContext(cfg.URI,
		neo4j.BasicAuth(cfg.User, cfg.Password, ""),
		func(c *neo4j.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
			if cfg.ConnectionTimeout > 0 {
				c.SocketConnectTimeout = cfg.ConnectionTimeout
			}
		})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGraphStore, "failed to create neo4j driver")
	}
	if err := d.VerifyConnectivity(ctx); err != nil {
		_ = d.Close(ctx)
		return nil, errors.Wrap(err, errors.CodeGraphStore, "failed to reach neo4j").
			WithDetail("uri=" + cfg.URI)
	}
	logger.Info("connected to neo4j", logging.String("uri", cfg.URI))
	return &Driver{driver: d, database: cfg.Database, logger: logger}, nil
}

func (d *Driver) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return d.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: d.database,
		AccessMode:   mode,
	})
}

// ExecuteRead runs work in a managed read transaction.
func (d *Driver) ExecuteRead(ctx context.Context, work func(Transaction) (any, error)) (any, error) {
	session := d.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()
	return session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(managedTx{tx: tx})
	})
}

// ExecuteWrite runs work in a managed write transaction.
func (d *Driver) ExecuteWrite(ctx context.Context, work func(Transaction) (any, error)) (any, error) {
	session := d.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()
	return session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(managedTx{tx: tx})
	})
}

// Close shuts the underlying driver down.
func (d *Driver) Close(ctx context.Context) error {
	if err := d.driver.Close(ctx); err != nil {
		return errors.Wrap(err, errors.CodeGraphStore, "failed to close neo4j driver")
	}
	return nil
}
