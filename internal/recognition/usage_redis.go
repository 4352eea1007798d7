package recognition

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const usageRedisKey = "fitpulse::recognition::usage"

// RedisUsageCounter keeps the usage in a redis hash with fields count and month.
type RedisUsageCounter struct {
	redisClient *redis.Client
	key         string
}

func NewRedisUsageCounter(redisClient *redis.Client) *RedisUsageCounter {
	return &RedisUsageCounter{
		redisClient: redisClient,
		key:         usageRedisKey,
	}
}

func (c *RedisUsageCounter) Get(ctx context.Context) (Usage, error) {
	vals, err := c.redisClient.HGetAll(ctx, c.key).Result()
	if err != nil {
		return Usage{}, fmt.Errorf("hgetall %s: %w", c.key, err)
	}

	usage := Usage{Month: vals["month"]}
	if countStr, ok := vals["count"]; ok {
		usage.Count, err = strconv.Atoi(countStr)
		if err != nil {
			return Usage{}, fmt.Errorf("parse count [%s]: %w", countStr, err)
		}
	}

	return usage, nil
}

func (c *RedisUsageCounter) Increment(ctx context.Context) error {
	if err := c.redisClient.HIncrBy(ctx, c.key, "count", 1).Err(); err != nil {
		return fmt.Errorf("hincrby %s: %w", c.key, err)
	}
	return nil
}

func (c *RedisUsageCounter) ResetIfNewMonth(ctx context.Context, now time.Time) error {
	month := MonthKey(now)
	stored, err := c.redisClient.HGet(ctx, c.key, "month").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("hget %s month: %w", c.key, err)
	}
	if stored == month {
		return nil
	}

	if err := c.redisClient.HSet(ctx, c.key, "count", 0, "month", month).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", c.key, err)
	}

	return nil
}
