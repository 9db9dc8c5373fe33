package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores snapshots as plain string keys in Redis.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures a Redis snapshot store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// TTL expires snapshots after the given duration. Zero keeps them forever.
	TTL time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis %s: %w", opts.Addr, err)
	}

	return NewRedisWithClient(client, opts.TTL), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Save writes the snapshot, overwriting the previous value for its day.
func (r *Redis) Save(ctx context.Context, snap Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, Key(snap.Date), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", Key(snap.Date), err)
	}
	return nil
}

// Load returns the snapshot for day, or nil, nil if the key is absent.
func (r *Redis) Load(ctx context.Context, day string) (*Snapshot, error) {
	raw, err := r.client.Get(ctx, Key(day)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", Key(day), err)
	}
	return Decode(day, raw)
}

// Close releases the underlying Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
