package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/enzymatix/mechvalid/internal/domain/reaction"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// RankingCache stores score rankings by composition key with a TTL.  It
// implements the validation cache interface; rankings are serialized as the
// rule-id to score JSON map.
type RankingCache struct {
	client    *goredis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRankingCache wraps an open client.  An empty prefix or zero ttl is
// allowed: the prefix just namespaces keys and a zero ttl means no expiry.
func NewRankingCache(client *goredis.Client, keyPrefix string, ttl time.Duration) *RankingCache {
	return &RankingCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RankingCache) redisKey(key reaction.CompositionKey) string {
	return c.keyPrefix + string(key)
}

// Get returns the cached ranking for the composition, a miss, or an error.
// Errors are advisory to the validator, which recomputes on any cache fault.
func (c *RankingCache) Get(ctx context.Context, key reaction.CompositionKey) (*reaction.ScoreRanking, bool, error) {
	data, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.CodeCacheError, "cache read failed")
	}
	ranking := &reaction.ScoreRanking{}
	if err := json.Unmarshal(data, ranking); err != nil {
		// A corrupt entry behaves like a miss so it gets overwritten.
		return nil, false, errors.Wrap(err, errors.CodeSerialization, "corrupt cached ranking")
	}
	return ranking, true, nil
}

// Put stores the ranking under the composition key.
func (c *RankingCache) Put(ctx context.Context, key reaction.CompositionKey, ranking *reaction.ScoreRanking) error {
	data, err := json.Marshal(ranking)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode ranking")
	}
	if err := c.client.Set(ctx, c.redisKey(key), data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache write failed")
	}
	return nil
}
