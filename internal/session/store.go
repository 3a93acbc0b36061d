// Package session keeps the server-side registry of live sessions in
// Redis. A session id present in the registry means the matching token
// is still honoured; deleting the id revokes the token immediately, no
// matter how much lifetime the token itself has left.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a Redis-backed session registry. Values are the subject ids
// the sessions were issued for, keys expire together with their tokens.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewStore wraps an established Redis client. The prefix namespaces the
// session keys so the registry can share a database with other state.
func NewStore(rdb redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "session"
	}

	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}

// Put registers a session id for the given subject with the given
// lifetime. The lifetime should match the expiry of the token carrying
// the id so Redis garbage-collects what was never revoked explicitly.
func (s *Store) Put(ctx context.Context, sessionID, subjectID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.key(sessionID), subjectID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Get looks up a session id and returns the subject it belongs to. An
// absent session yields ok=false with a nil error; only infrastructure
// failures produce an error.
func (s *Store) Get(ctx context.Context, sessionID string) (string, bool, error) {
	subjectID, err := s.rdb.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return subjectID, true, nil
}

// Delete revokes the given session ids in a single call and reports how
// many were actually present. Empty ids are skipped.
func (s *Store) Delete(ctx context.Context, sessionIDs ...string) (int64, error) {
	keys := make([]string, 0, len(sessionIDs))

	for _, id := range sessionIDs {
		if id == "" {
			continue
		}

		keys = append(keys, s.key(id))
	}

	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return removed, nil
}

// Ping verifies the registry is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}
