// Package cache provides the optional read-through cache for bracket views.
// Brackets are always recomputable from the match table, so a cache failure
// is never fatal: callers fall through to the repository.
package cache

import (
	"context"

	"github.com/openleague/league-system/models"
)

type BracketCache interface {
	// Get returns the cached bracket for a league, or nil on a miss.
	Get(ctx context.Context, leagueID int) (*models.Bracket, error)
	Set(ctx context.Context, bracket *models.Bracket) error
	Invalidate(ctx context.Context, leagueID int) error
}

// NoopBracketCache is used when no Redis address is configured.
type NoopBracketCache struct{}

func NewNoopBracketCache() BracketCache {
	return &NoopBracketCache{}
}

func (NoopBracketCache) Get(ctx context.Context, leagueID int) (*models.Bracket, error) {
	return nil, nil
}

func (NoopBracketCache) Set(ctx context.Context, bracket *models.Bracket) error {
	return nil
}

func (NoopBracketCache) Invalidate(ctx context.Context, leagueID int) error {
	return nil
}
