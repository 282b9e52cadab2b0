package config

import "time"

const (
	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "mechvalid"
	DefaultDBMaxConns = 16

	DefaultNeo4jURI      = "bolt://localhost:7687"
	DefaultNeo4jDatabase = "neo4j"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRedisKeyPrefix = "mechvalid:ranking:"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "mechvalid-workers"

	DefaultCorpusSource = "file"

	DefaultEngineBaseURL = "http://localhost:8300"
	DefaultEngineTimeout = 30 * time.Second

	DefaultKeyPolicy      = "role_aware"
	DefaultMaxProjections = 10
	DefaultWorkers        = 4

	DefaultWorkerConcurrency = 4
	DefaultWorkerHTTPAddr    = ":9090"
	DefaultShutdownTimeout   = 15 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills zero-value fields in cfg with the platform defaults.
// Explicitly configured values always win.  Call after unmarshalling and
// before Validate so defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = DefaultNeo4jURI
	}
	if cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = DefaultNeo4jDatabase
	}
	if cfg.Neo4j.ConnectionTimeout == 0 {
		cfg.Neo4j.ConnectionTimeout = 5 * time.Second
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	if cfg.Corpus.Source == "" {
		cfg.Corpus.Source = DefaultCorpusSource
	}

	if cfg.Engine.BaseURL == "" {
		cfg.Engine.BaseURL = DefaultEngineBaseURL
	}
	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = DefaultEngineTimeout
	}

	if cfg.Validator.KeyPolicy == "" {
		cfg.Validator.KeyPolicy = DefaultKeyPolicy
	}
	if cfg.Validator.MaxProjections == 0 {
		cfg.Validator.MaxProjections = DefaultMaxProjections
	}
	if cfg.Validator.Workers == 0 {
		cfg.Validator.Workers = DefaultWorkers
	}

	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.HTTPAddr == "" {
		cfg.Worker.HTTPAddr = DefaultWorkerHTTPAddr
	}
	if cfg.Worker.ShutdownTimeout == 0 {
		cfg.Worker.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
