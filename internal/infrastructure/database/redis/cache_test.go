package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzymatix/mechvalid/internal/domain/reaction"
)

func testCache(t *testing.T) (*RankingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRankingCache(client, "mechvalid:ranking:", time.Hour), mr
}

func TestRankingCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()
	key := reaction.CompositionKey("s:a=1|p:b=1")
	ranking := reaction.NewRankingBuilder().Add(4, 7).Add(3, 12).Build()

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, key, ranking))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ranking.RuleScores(), got.RuleScores())
}

func TestRankingCacheEmptyRankingIsCacheable(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()
	key := reaction.CompositionKey("s:a=1|p:")

	require.NoError(t, cache.Put(ctx, key, reaction.NewRankingBuilder().Build()))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok, "no-rule-matched is a result, not a miss")
	assert.True(t, got.Empty())
}

func TestRankingCacheUsesPrefixAndTTL(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()
	key := reaction.CompositionKey("s:a=1|p:b=1")

	require.NoError(t, cache.Put(ctx, key, reaction.NewRankingBuilder().Add(2, 1).Build()))
	require.True(t, mr.Exists("mechvalid:ranking:s:a=1|p:b=1"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "entries expire after the ttl")
}

func TestRankingCacheCorruptEntryBehavesLikeMissWithError(t *testing.T) {
	cache, mr := testCache(t)
	require.NoError(t, mr.Set("mechvalid:ranking:bad", "{not json"))

	_, ok, err := cache.Get(context.Background(), reaction.CompositionKey("bad"))
	assert.False(t, ok)
	assert.Error(t, err)
}
