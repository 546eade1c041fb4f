package gamestate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/adnd-engine/internal/errors"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/adnd-engine/internal/redis"
)

const (
	// Key pattern: combat_session:{session_id}
	sessionKeyPrefix = "combat_session:"
	defaultTTL       = 4 * time.Hour

	// Error messages
	errSessionNil     = "session cannot be nil"
	errSessionIDEmpty = "session ID cannot be empty"
	errSessionExpired = "session has already expired"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for combat sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new combat session with the specified TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	now := r.clock.Now()
	ttl := input.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	session := &CombatSession{
		SessionID:  input.SessionID,
		Characters: input.Characters,
		Monsters:   input.Monsters,
		Mounts:     input.Mounts,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	key := r.buildKey(input.SessionID)
	err = r.client.Set(ctx, key, sessionJSON, ttl).Err()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store session in Redis")
	}

	return &CreateOutput{
		Session: session,
	}, nil
}

// Get retrieves a combat session by id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := r.buildKey(input.SessionID)

	sessionJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("combat session not found")
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	var session CombatSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	// Check if session has expired
	if r.clock.Now().After(session.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound("combat session has expired")
	}

	return &GetOutput{
		Session: &session,
	}, nil
}

// Delete removes a combat session
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := r.buildKey(input.SessionID)

	result := r.client.Del(ctx, key)
	if result.Err() != nil {
		return nil, errors.Wrapf(result.Err(), "failed to delete session from Redis")
	}

	return &DeleteOutput{
		Deleted: result.Val() > 0,
	}, nil
}

// Update replaces an existing combat session (used after resolution)
func (r *redisRepository) Update(ctx context.Context, session *CombatSession) error {
	if session == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if session.SessionID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}

	// Keep the remaining TTL rather than resetting it
	now := r.clock.Now()
	if now.After(session.ExpiresAt) {
		return errors.InvalidArgument(errSessionExpired)
	}

	remainingTTL := session.ExpiresAt.Sub(now)

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal session")
	}

	key := r.buildKey(session.SessionID)
	err = r.client.Set(ctx, key, sessionJSON, remainingTTL).Err()
	if err != nil {
		return errors.Wrapf(err, "failed to update session in Redis")
	}

	return nil
}

// buildKey creates the Redis key for a combat session
func (r *redisRepository) buildKey(sessionID string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
}
