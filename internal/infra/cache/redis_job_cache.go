// Package cache puts a Redis read-through cache in front of a JobRepository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"job-board/internal/domain"
	"job-board/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	KeyPrefix  = "job-board:job:"
	DefaultTTL = 5 * time.Minute

	// GenerationPrefix keys a counter bumped on every eviction. A fill only
	// lands if the counter is unchanged since the read started.
	GenerationPrefix = "job-board:job-gen:"
	generationTTL    = time.Hour
)

var errConcurrentWrite = errors.New("posting changed during cache fill")

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

type cachedJobRepository struct {
	domain.JobRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedJobRepository caches single-posting reads of next in Redis.
// Listings always go to next. Mutations evict the posting's entry after they
// succeed. Redis failures are logged and never fail a request.
func NewCachedJobRepository(next domain.JobRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) domain.JobRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &cachedJobRepository{
		JobRepository: next,
		client:        client,
		ttl:           ttl,
		logger:        logger.With("component", "redis-job-cache"),
	}
}

func (c *cachedJobRepository) Get(ctx context.Context, id string) (*domain.JobPosting, error) {
	key, genKey := KeyPrefix+id, GenerationPrefix+id
	result := "miss"
	var gen string
	vals, err := c.client.MGet(ctx, key, genKey).Result()
	if err != nil {
		result = "error"
		c.logger.Warn("Cache read failed", "key", key, "error", err)
	} else {
		if cached, ok := vals[0].(string); ok {
			var job domain.JobPosting
			if err := json.Unmarshal([]byte(cached), &job); err == nil {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				return &job, nil
			}
			c.logger.Warn("Ignoring undecodable cache entry", "key", key)
		}
		gen, _ = vals[1].(string)
	}
	metrics.CacheLookups.WithLabelValues(result).Inc()

	job, err := c.JobRepository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if result != "error" {
		c.fill(ctx, id, gen, job)
	}
	return job, nil
}

// fill stores job unless the posting was evicted after gen was read, so a
// read that raced a mutation never outlives it in the cache.
func (c *cachedJobRepository) fill(ctx context.Context, id, gen string, job *domain.JobPosting) {
	key, genKey := KeyPrefix+id, GenerationPrefix+id
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errConcurrentWrite
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
	case errors.Is(err, errConcurrentWrite), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Skipped cache fill after concurrent write", "key", key)
	default:
		c.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (c *cachedJobRepository) Update(ctx context.Context, id string, patch *domain.JobPatch, now time.Time) (*domain.JobPosting, error) {
	job, err := c.JobRepository.Update(ctx, id, patch, now)
	if err != nil {
		return nil, err
	}
	c.evict(ctx, id)
	return job, nil
}

func (c *cachedJobRepository) Delete(ctx context.Context, id string) error {
	if err := c.JobRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, id)
	return nil
}

func (c *cachedJobRepository) evict(ctx context.Context, id string) {
	genKey := GenerationPrefix + id
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, KeyPrefix+id)
		return nil
	})
	if err != nil {
		c.logger.Warn("Cache eviction failed", "id", id, "error", err)
	}
}

func (c *cachedJobRepository) Close() error {
	return errors.Join(c.JobRepository.Close(), c.client.Close())
}
