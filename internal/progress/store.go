package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "fitpulse::progress::"

// Store keeps the whole progress document of a user under a single redis key.
type Store struct {
	redisClient *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{
		redisClient: redisClient,
	}
}

func key(userID int) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

// Get returns the stored progress, or an empty one for users with no activity yet.
func (s *Store) Get(ctx context.Context, userID int) (*Progress, error) {
	raw, err := s.redisClient.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return newProgress(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress of %d: %w", userID, err)
	}

	p := newProgress()
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("unmarshal progress of %d: %w", userID, err)
	}
	if p.Videos == nil {
		p.Videos = map[int]VideoProgress{}
	}

	return p, nil
}

func (s *Store) Put(ctx context.Context, userID int, p *Progress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.redisClient.Set(ctx, key(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("set progress of %d: %w", userID, err)
	}
	return nil
}
