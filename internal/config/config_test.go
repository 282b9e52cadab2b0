package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
corpus:
  source: "file"
  path: "/data/corpus.json"
neo4j:
  uri: "bolt://graph:7687"
  user: "neo4j"
  password: "secret"
redis:
  addr: "cache:6379"
  default_ttl: 1h
kafka:
  brokers: ["broker-1:9092", "broker-2:9092"]
  group_id: "validators"
validator:
  key_policy: "role_aware"
  max_projections: 10
  workers: 8
log:
  level: "debug"
  format: "console"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "/data/corpus.json", cfg.Corpus.Path)
	assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Validator.Workers)
	assert.Equal(t, time.Hour, cfg.Redis.DefaultTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
corpus:
  source: "file"
  path: "/data/corpus.json"
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultKafkaGroupID, cfg.Kafka.GroupID)
	assert.Equal(t, DefaultKeyPolicy, cfg.Validator.KeyPolicy)
	assert.Equal(t, DefaultMaxProjections, cfg.Validator.MaxProjections)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultWorkerHTTPAddr, cfg.Worker.HTTPAddr)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadKeyPolicy(t *testing.T) {
	_, err := Load(writeConfig(t, `
corpus:
  source: "file"
  path: "/data/corpus.json"
validator:
  key_policy: "sideways"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key_policy")
}

func TestValidateRejectsFileSourceWithoutPath(t *testing.T) {
	_, err := Load(writeConfig(t, `
corpus:
  source: "file"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus.path")
}

func TestValidateRejectsUnknownCorpusSource(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Corpus.Source = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestApplyDefaultsNilIsSafe(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefaultsValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Corpus.Path = "/data/corpus.json"
	ApplyDefaults(cfg)
	assert.NoError(t, cfg.Validate())
}
