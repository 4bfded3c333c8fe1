package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/openleague/league-system/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisBracketCacheTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	cache  BracketCache
}

func (s *RedisBracketCacheTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})
	s.cache = NewRedisBracketCache(s.client)
}

func (s *RedisBracketCacheTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisBracketCacheTestSuite(t *testing.T) {
	suite.Run(t, new(RedisBracketCacheTestSuite))
}

func testBracket(leagueID int) *models.Bracket {
	p1, p2 := 10, 11
	return &models.Bracket{
		LeagueID:     leagueID,
		Rounds:       1,
		CurrentRound: 1,
		Matches: []*models.Match{
			{
				LeagueID:    leagueID,
				Round:       1,
				MatchNumber: 1,
				Player1ID:   &p1,
				Player2ID:   &p2,
				Status:      models.MatchStatusPending,
			},
		},
	}
}

func (s *RedisBracketCacheTestSuite) TestGetMiss() {
	bracket, err := s.cache.Get(context.Background(), 42)
	s.Require().NoError(err)
	s.Nil(bracket)
}

func (s *RedisBracketCacheTestSuite) TestSetAndGet() {
	err := s.cache.Set(context.Background(), testBracket(42))
	s.Require().NoError(err)

	bracket, err := s.cache.Get(context.Background(), 42)
	s.Require().NoError(err)
	s.Require().NotNil(bracket)
	s.Equal(42, bracket.LeagueID)
	s.Equal(1, bracket.Rounds)
	s.Equal(1, bracket.CurrentRound)
	s.Require().Len(bracket.Matches, 1)
	s.Equal(10, *bracket.Matches[0].Player1ID)
}

func (s *RedisBracketCacheTestSuite) TestEntryExpires() {
	err := s.cache.Set(context.Background(), testBracket(42))
	s.Require().NoError(err)

	s.mr.FastForward(bracketTTL * 2)

	bracket, err := s.cache.Get(context.Background(), 42)
	s.Require().NoError(err)
	s.Nil(bracket)
}

func (s *RedisBracketCacheTestSuite) TestInvalidate() {
	err := s.cache.Set(context.Background(), testBracket(42))
	s.Require().NoError(err)

	err = s.cache.Invalidate(context.Background(), 42)
	s.Require().NoError(err)

	bracket, err := s.cache.Get(context.Background(), 42)
	s.Require().NoError(err)
	s.Nil(bracket)
}

func (s *RedisBracketCacheTestSuite) TestCorruptEntryBehavesAsMiss() {
	s.Require().NoError(s.mr.Set(bracketKey(42), "{not json"))

	bracket, err := s.cache.Get(context.Background(), 42)
	s.Require().NoError(err)
	s.Nil(bracket)
}
