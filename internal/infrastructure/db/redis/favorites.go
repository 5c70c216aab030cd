package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// FavoriteStore keeps one set per user.
// Key format: favorites:<normalised email>
type FavoriteStore struct {
	client redis.UniversalClient
}

var _ ports.FavoriteStore = (*FavoriteStore)(nil)

// NewFavoriteStore wraps the given Redis client.
func NewFavoriteStore(client redis.UniversalClient) *FavoriteStore {
	return &FavoriteStore{client: client}
}

// List returns the user's favourite app ids.
func (s *FavoriteStore) List(ctx context.Context, email string) (map[string]struct{}, error) {
	ids, err := s.client.SMembers(ctx, s.key(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Toggle adds appID when absent and removes it otherwise. SADD reports
// whether the member was new, so one round trip decides the common case.
func (s *FavoriteStore) Toggle(ctx context.Context, email, appID string) (bool, error) {
	key := s.key(email)
	added, err := s.client.SAdd(ctx, key, appID).Result()
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	if added == 1 {
		return true, nil
	}
	if err := s.client.SRem(ctx, key, appID).Err(); err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return false, nil
}

func (s *FavoriteStore) key(email string) string {
	return "favorites:" + domain.NormalizeEmail(email)
}
