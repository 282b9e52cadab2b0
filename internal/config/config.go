// Package config defines the configuration structures for the mechvalid
// services.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// DatabaseConfig holds PostgreSQL connection parameters for the rule corpus
// and result store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Neo4jConfig holds connection parameters for the reaction knowledge graph.
type Neo4jConfig struct {
	URI                   string        `mapstructure:"uri"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	Database              string        `mapstructure:"database"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout"`
}

// RedisConfig holds parameters for the shared composition-key cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds broker parameters for the validation job queue.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
}

// EngineConfig points at the cheminformatics sidecar that performs structure
// parsing, canonicalization and rule projection.
type EngineConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CorpusConfig selects where the rule corpus is read from.
type CorpusConfig struct {
	Source string `mapstructure:"source"` // "file" | "postgres"
	Path   string `mapstructure:"path"`   // corpus JSON file when source=file

	// RewritesPath optionally points at a JSON object mapping structure
	// identifiers the engine cannot process to curated replacements.  Empty
	// means no rewriting.
	RewritesPath string `mapstructure:"rewrites_path"`
}

// ValidatorConfig holds the scoring engine tunables.
type ValidatorConfig struct {
	// KeyPolicy selects how composition cache keys read coefficients:
	// "role_aware" (default) or "substrate_lookup" for byte compatibility
	// with caches written by the legacy pipeline.
	KeyPolicy      string `mapstructure:"key_policy"`
	MaxProjections int    `mapstructure:"max_projections"`
	Workers        int    `mapstructure:"workers"`
}

// WorkerConfig holds the queue worker's execution parameters.
type WorkerConfig struct {
	Concurrency     int           `mapstructure:"concurrency"`
	HTTPAddr        string        `mapstructure:"http_addr"` // health and metrics listener
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// Config is the root configuration for all mechvalid entry points.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Neo4j     Neo4jConfig     `mapstructure:"neo4j"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate checks the fully-populated Config.  It returns the first error
// encountered; any error is fatal and the process should refuse to start.
func (c *Config) Validate() error {
	switch c.Corpus.Source {
	case "file":
		if c.Corpus.Path == "" {
			return fmt.Errorf("config: corpus.path is required when corpus.source is %q", c.Corpus.Source)
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when corpus.source is %q", c.Corpus.Source)
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
	default:
		return fmt.Errorf("config: corpus.source %q is invalid; expected file|postgres", c.Corpus.Source)
	}

	switch c.Validator.KeyPolicy {
	case "role_aware", "substrate_lookup":
	default:
		return fmt.Errorf("config: validator.key_policy %q is invalid; expected role_aware|substrate_lookup", c.Validator.KeyPolicy)
	}
	if c.Validator.MaxProjections < 1 {
		return fmt.Errorf("config: validator.max_projections must be at least 1, got %d", c.Validator.MaxProjections)
	}
	if c.Validator.Workers < 1 {
		return fmt.Errorf("config: validator.workers must be at least 1, got %d", c.Validator.Workers)
	}

	if c.Engine.BaseURL == "" {
		return fmt.Errorf("config: engine.base_url is required")
	}

	if c.Neo4j.URI == "" {
		return fmt.Errorf("config: neo4j.uri is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be non-negative, got %d", c.Redis.DB)
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}

	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be at least 1, got %d", c.Worker.Concurrency)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
