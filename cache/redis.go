package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openleague/league-system/models"
	"github.com/redis/go-redis/v9"
)

const (
	bracketKeyPrefix = "bracket:league:"
	bracketTTL       = 30 * time.Second
)

type redisBracketCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBracketCache(client *redis.Client) BracketCache {
	return &redisBracketCache{
		client: client,
		ttl:    bracketTTL,
	}
}

func bracketKey(leagueID int) string {
	return fmt.Sprintf("%s%d", bracketKeyPrefix, leagueID)
}

func (c *redisBracketCache) Get(ctx context.Context, leagueID int) (*models.Bracket, error) {
	data, err := c.client.Get(ctx, bracketKey(leagueID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached bracket for league %d: %w", leagueID, err)
	}

	bracket := &models.Bracket{}
	if err := json.Unmarshal(data, bracket); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, nil
	}
	return bracket, nil
}

func (c *redisBracketCache) Set(ctx context.Context, bracket *models.Bracket) error {
	data, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to marshal bracket for league %d: %w", bracket.LeagueID, err)
	}
	if err := c.client.Set(ctx, bracketKey(bracket.LeagueID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache bracket for league %d: %w", bracket.LeagueID, err)
	}
	return nil
}

func (c *redisBracketCache) Invalidate(ctx context.Context, leagueID int) error {
	if err := c.client.Del(ctx, bracketKey(leagueID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached bracket for league %d: %w", leagueID, err)
	}
	return nil
}
