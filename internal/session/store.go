// Package session implements the server-side session store: an opaque
// v4 UUID token held by the client maps to a JSON identity record in
// redis with a sliding TTL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"project-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

type ClientConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewRedisClient(config ClientConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create establishes a new session for identity and returns its token.
// Only {id, username, email} is stored; credential material never
// reaches the session store.
func (s *Store) Create(ctx context.Context, identity models.Identity) (string, error) {
	token, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("session: generate token: %w", err)
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("session: marshal identity: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token.String(), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: store: %w", err)
	}
	return token.String(), nil
}

// Get resolves a token to the identity it was created with.
// Unknown or expired tokens return ErrNotFound.
func (s *Store) Get(ctx context.Context, token string) (*models.Identity, error) {
	data, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: fetch: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("session: unmarshal identity: %w", err)
	}
	return &identity, nil
}

// Touch extends the session lifetime. Missing sessions are not an error;
// the next Get reports them.
func (s *Store) Touch(ctx context.Context, token string) error {
	return s.client.Expire(ctx, keyPrefix+token, s.ttl).Err()
}

// Destroy removes the session. Deleting an absent session succeeds,
// which makes logout idempotent.
func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
