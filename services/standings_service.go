package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	// GetStandings computes the win/loss leaderboard for all active members
	// of a league from its completed matches.
	GetStandings(ctx context.Context, leagueID int) ([]*models.Standing, error)
}

type standingsService struct {
	leagueRepo repositories.LeagueRepository
	memberRepo repositories.MemberRepository
	matchRepo  repositories.MatchRepository
}

func NewStandingsService(
	leagueRepo repositories.LeagueRepository,
	memberRepo repositories.MemberRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
		matchRepo:  matchRepo,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, leagueID int) ([]*models.Standing, error) {
	if _, err := loadLeague(ctx, s.leagueRepo, leagueID); err != nil {
		return nil, err
	}

	var (
		members []*models.Member
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.memberRepo.ListActiveByLeague(gCtx, leagueID)
		if err != nil {
			return fmt.Errorf("failed to list active members for league %d: %w", leagueID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByLeague(gCtx, leagueID)
		if err != nil {
			return fmt.Errorf("failed to list matches for league %d: %w", leagueID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wins := make(map[int]int)
	losses := make(map[int]int)
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		wins[*m.WinnerID]++
		if m.Player1ID != nil && *m.Player1ID != *m.WinnerID {
			losses[*m.Player1ID]++
		}
		if m.Player2ID != nil && *m.Player2ID != *m.WinnerID {
			losses[*m.Player2ID]++
		}
	}

	standings := make([]*models.Standing, 0, len(members))
	for _, member := range members {
		st := &models.Standing{
			UserID:      member.UserID,
			DisplayName: member.DisplayName,
			Wins:        wins[member.UserID],
			Losses:      losses[member.UserID],
		}
		if played := st.Wins + st.Losses; played > 0 {
			st.WinRate = float64(st.Wins) / float64(played) * 100
		}
		standings = append(standings, st)
	}

	// Wins, then win rate. Ties beyond that keep member order.
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].WinRate > standings[j].WinRate
	})

	return standings, nil
}
