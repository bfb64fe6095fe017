package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

const DefaultStatePrefix = "csc:oauth:state:"

// StateInfo is what is kept for one pending authorization request.
type StateInfo struct {
	CodeVerifier string    `json:"code_verifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisStateStore keeps OAuth state in Redis so any replica can finish the flow.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	if prefix == "" {
		prefix = DefaultStatePrefix
	}
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

var _ usecases.StateStore = (*RedisStateStore)(nil)

func (s *RedisStateStore) Set(ctx context.Context, state string, codeVerifier string) error {
	if err := validateState(state, codeVerifier); err != nil {
		return err
	}

	data, err := json.Marshal(StateInfo{
		CodeVerifier: codeVerifier,
		CreatedAt:    biztime.NowUTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal state info: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+state, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// Consume reads and deletes the state in one GETDEL, so a state is usable once.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", usecases.ErrStateNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", usecases.ErrStateNotFound
		}
		return "", fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var info StateInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return "", fmt.Errorf("failed to unmarshal state info: %w", err)
	}
	return info.CodeVerifier, nil
}

func validateState(state, codeVerifier string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if codeVerifier == "" {
		return errors.New("code_verifier cannot be empty")
	}
	return nil
}
