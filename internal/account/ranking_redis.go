package account

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const rankingKey = "vidtycoon:leaderboard"

// RedisRanking mirrors subscriber counts into a sorted set.
type RedisRanking struct {
	client *redis.Client
	key    string
}

func NewRedisRanking(client *redis.Client) *RedisRanking {
	return &RedisRanking{client: client, key: rankingKey}
}

// DialRedis parses a redis:// URL and checks the connection.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisRanking) Record(ctx context.Context, username string, subscribers int64) error {
	return r.client.ZAdd(ctx, r.key, redis.Z{Score: float64(subscribers), Member: username}).Err()
}

func (r *RedisRanking) Top(ctx context.Context, limit int) ([]Entry, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	return entriesFromZ(zs), nil
}

func entriesFromZ(zs []redis.Z) []Entry {
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, Entry{Username: name, Subscribers: int64(z.Score)})
	}
	return out
}
