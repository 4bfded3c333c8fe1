package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/openleague/league-system/brackets"
	"github.com/openleague/league-system/cache"
	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type BracketService interface {
	// GenerateBracket seeds the league's active members and persists the full
	// single-elimination match tree. It is a one-time operation per league.
	GenerateBracket(ctx context.Context, leagueID, requestingUserID int) (*models.Bracket, error)

	// GetBracket returns the league's bracket view, or nil if generation has
	// not happened yet.
	GetBracket(ctx context.Context, leagueID int) (*models.Bracket, error)
}

type bracketService struct {
	leagueRepo    repositories.LeagueRepository
	memberRepo    repositories.MemberRepository
	matchRepo     repositories.MatchRepository
	bracketWriter repositories.BracketWriter
	bracketCache  cache.BracketCache
	logger        *slog.Logger
}

func NewBracketService(
	leagueRepo repositories.LeagueRepository,
	memberRepo repositories.MemberRepository,
	matchRepo repositories.MatchRepository,
	bracketWriter repositories.BracketWriter,
	bracketCache cache.BracketCache,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		leagueRepo:    leagueRepo,
		memberRepo:    memberRepo,
		matchRepo:     matchRepo,
		bracketWriter: bracketWriter,
		bracketCache:  bracketCache,
		logger:        logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, leagueID, requestingUserID int) (*models.Bracket, error) {
	league, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return nil, err
	}

	allowed, err := canManageLeague(ctx, s.memberRepo, league, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrBracketForbidden
	}

	var generator brackets.BracketGenerator
	switch league.TournamentFormat {
	case models.FormatSingleElimination:
		generator = brackets.NewSingleEliminationGenerator()
	default:
		// double_elimination is a valid league setting but has no generator.
		return nil, ErrFormatNotSupported
	}

	if league.BracketGenerated {
		return nil, ErrBracketAlreadyGenerated
	}
	existing, err := s.matchRepo.CountByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing matches for league %d: %w", leagueID, err)
	}
	if existing > 0 {
		return nil, ErrBracketAlreadyGenerated
	}

	participants, err := s.memberRepo.ListActiveByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active members for league %d: %w", leagueID, err)
	}
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	matches, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		League:       league,
		Participants: participants,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughParticipants) {
			return nil, ErrInsufficientParticipants
		}
		return nil, fmt.Errorf("failed to generate bracket for league %d: %w", leagueID, err)
	}

	if err := s.bracketWriter.SaveBracket(ctx, leagueID, matches); err != nil {
		// Losing the compare-and-set or hitting the natural key both mean a
		// concurrent generation got there first.
		if errors.Is(err, repositories.ErrLeagueBracketFlagSet) || errors.Is(err, repositories.ErrMatchConflict) {
			return nil, ErrBracketAlreadyGenerated
		}
		return nil, fmt.Errorf("failed to persist bracket for league %d: %w", leagueID, err)
	}

	if err := s.bracketCache.Invalidate(ctx, leagueID); err != nil {
		s.logger.Warn("bracket cache invalidation failed",
			slog.Int("league_id", leagueID), slog.Any("error", err))
	}

	s.logger.Info("bracket generated",
		slog.Int("league_id", leagueID),
		slog.Int("participants", len(participants)),
		slog.Int("matches", len(matches)),
		slog.String("generator", generator.GetName()))

	return buildBracketView(leagueID, matches), nil
}

func (s *bracketService) GetBracket(ctx context.Context, leagueID int) (*models.Bracket, error) {
	cached, err := s.bracketCache.Get(ctx, leagueID)
	if err != nil {
		s.logger.Warn("bracket cache read failed",
			slog.Int("league_id", leagueID), slog.Any("error", err))
	} else if cached != nil {
		return cached, nil
	}

	matches, err := s.matchRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for league %d: %w", leagueID, err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	bracket := buildBracketView(leagueID, matches)

	if err := s.bracketCache.Set(ctx, bracket); err != nil {
		s.logger.Warn("bracket cache write failed",
			slog.Int("league_id", leagueID), slog.Any("error", err))
	}
	return bracket, nil
}

// buildBracketView derives round metadata from a match set. CurrentRound is
// the lowest round with an unfinished match, falling back to the last round
// when everything is complete.
func buildBracketView(leagueID int, matches []*models.Match) *models.Bracket {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})

	rounds := 0
	currentRound := 0
	for _, m := range matches {
		if m.Round > rounds {
			rounds = m.Round
		}
		if m.Status != models.MatchStatusCompleted && (currentRound == 0 || m.Round < currentRound) {
			currentRound = m.Round
		}
	}
	if currentRound == 0 {
		currentRound = rounds
	}
	if currentRound == 0 {
		currentRound = 1
	}

	return &models.Bracket{
		LeagueID:     leagueID,
		Matches:      matches,
		Rounds:       rounds,
		CurrentRound: currentRound,
	}
}
