// Package redis stores targets and statuses in two Redis hashes, the layout
// the first deployment of this service used: "websites" (name -> url) and
// "websites-status" (name -> encoded status).
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/domain"
	"github.com/hamed0406/pingme/internal/repo"
)

const (
	TargetsKey = "websites"
	StatusKey  = "websites-status"
)

var _ repo.Registry = (*Store)(nil)
var _ repo.StatusStore = (*Store)(nil)

type Store struct {
	client         *goredis.Client
	log            *zap.Logger
	externalClient bool
}

// New connects using a redis:// URL and pings before returning.
func New(ctx context.Context, rawURL string, log *zap.Logger) (*Store, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client, log: log}, nil
}

// NewWithClient wraps an existing client. The caller owns its lifecycle.
func NewWithClient(client *goredis.Client, log *zap.Logger) *Store {
	return &Store{client: client, log: log, externalClient: true}
}

func (s *Store) Close() error {
	if s.client == nil || s.externalClient {
		return nil
	}
	return s.client.Close()
}

// ---- Registry ----

func (s *Store) Add(ctx context.Context, t domain.Target) error {
	if err := repo.ValidateTarget(t); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, TargetsKey, t.Name, t.URL).Err(); err != nil {
		return fmt.Errorf("hset target: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, name string) error {
	n, err := s.client.HDel(ctx, TargetsKey, name).Result()
	if err != nil {
		return fmt.Errorf("hdel target: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) (map[string]string, error) {
	m, err := s.client.HGetAll(ctx, TargetsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall targets: %w", err)
	}
	return m, nil
}

// ---- StatusStore ----

func (s *Store) GetAll(ctx context.Context) (map[string]string, error) {
	m, err := s.client.HGetAll(ctx, StatusKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall statuses: %w", err)
	}
	return m, nil
}

func (s *Store) Set(ctx context.Context, name, record string) error {
	if err := s.client.HSet(ctx, StatusKey, name, record).Err(); err != nil {
		return fmt.Errorf("hset status: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.client.HDel(ctx, StatusKey, name).Err(); err != nil {
		return fmt.Errorf("hdel status: %w", err)
	}
	s.log.Debug("redis_status_deleted", zap.String("target", name))
	return nil
}
