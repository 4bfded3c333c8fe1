package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openleague/league-system/cache"
	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type SubmitResultInput struct {
	WinnerID     int  `json:"winner_id"`
	Player1Score *int `json:"player1_score"`
	Player2Score *int `json:"player2_score"`
}

type AssignPlayersInput struct {
	Player1ID *int `json:"player1_id"`
	Player2ID *int `json:"player2_id"`
}

type MatchService interface {
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error)

	// SubmitResult records a completed match. Completed matches are
	// immutable; the winner must occupy one of the two slots.
	SubmitResult(ctx context.Context, leagueID, round, matchNumber, requestingUserID int, input SubmitResultInput) (*models.Match, error)

	// AssignPlayers fills empty slots of a later-round match. Winners are not
	// advanced automatically; this is the admin-facing manual step.
	AssignPlayers(ctx context.Context, leagueID, round, matchNumber, requestingUserID int, input AssignPlayersInput) (*models.Match, error)
}

type matchService struct {
	leagueRepo   repositories.LeagueRepository
	memberRepo   repositories.MemberRepository
	matchRepo    repositories.MatchRepository
	bracketCache cache.BracketCache
	logger       *slog.Logger
}

func NewMatchService(
	leagueRepo repositories.LeagueRepository,
	memberRepo repositories.MemberRepository,
	matchRepo repositories.MatchRepository,
	bracketCache cache.BracketCache,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		leagueRepo:   leagueRepo,
		memberRepo:   memberRepo,
		matchRepo:    matchRepo,
		bracketCache: bracketCache,
		logger:       logger,
	}
}

func (s *matchService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error) {
	if _, err := loadLeague(ctx, s.leagueRepo, leagueID); err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for league %d: %w", leagueID, err)
	}
	return matches, nil
}

func (s *matchService) getMatch(ctx context.Context, leagueID, round, matchNumber int) (*models.Match, error) {
	match, err := s.matchRepo.Get(ctx, leagueID, round, matchNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d/r%d/m%d: %w", leagueID, round, matchNumber, err)
	}
	return match, nil
}

func (s *matchService) SubmitResult(ctx context.Context, leagueID, round, matchNumber, requestingUserID int, input SubmitResultInput) (*models.Match, error) {
	league, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return nil, err
	}
	match, err := s.getMatch(ctx, leagueID, round, matchNumber)
	if err != nil {
		return nil, err
	}

	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.Player1ID == nil || match.Player2ID == nil {
		return nil, ErrMatchMissingPlayers
	}

	if !match.HasPlayer(requestingUserID) {
		allowed, err := canManageLeague(ctx, s.memberRepo, league, requestingUserID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrForbiddenOperation
		}
	}

	if !match.HasPlayer(input.WinnerID) {
		return nil, ErrInvalidWinner
	}

	match.Status = models.MatchStatusCompleted
	match.WinnerID = &input.WinnerID
	match.Player1Score = input.Player1Score
	match.Player2Score = input.Player2Score

	if err := s.matchRepo.UpdateResult(ctx, match); err != nil {
		return nil, err
	}
	s.invalidateBracket(ctx, leagueID)

	s.logger.Info("match result recorded",
		slog.String("match", match.Key()),
		slog.Int("winner_id", input.WinnerID))
	return match, nil
}

func (s *matchService) AssignPlayers(ctx context.Context, leagueID, round, matchNumber, requestingUserID int, input AssignPlayersInput) (*models.Match, error) {
	league, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return nil, err
	}
	allowed, err := canManageLeague(ctx, s.memberRepo, league, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbiddenOperation
	}

	match, err := s.getMatch(ctx, leagueID, round, matchNumber)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}

	assign := func(slot **int, userID *int) error {
		if userID == nil {
			return nil
		}
		if *slot != nil {
			return ErrMatchSlotOccupied
		}
		member, err := s.memberRepo.Get(ctx, leagueID, *userID)
		if err != nil {
			if errors.Is(err, repositories.ErrMemberNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("failed to resolve member %d: %w", *userID, err)
		}
		if member.Status != models.MemberStatusActive {
			return ErrMemberNotActive
		}
		*slot = userID
		return nil
	}

	if err := assign(&match.Player1ID, input.Player1ID); err != nil {
		return nil, err
	}
	if err := assign(&match.Player2ID, input.Player2ID); err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdatePlayers(ctx, match); err != nil {
		return nil, err
	}
	s.invalidateBracket(ctx, leagueID)

	return match, nil
}

func (s *matchService) invalidateBracket(ctx context.Context, leagueID int) {
	if err := s.bracketCache.Invalidate(ctx, leagueID); err != nil {
		s.logger.Warn("bracket cache invalidation failed",
			slog.Int("league_id", leagueID), slog.Any("error", err))
	}
}
