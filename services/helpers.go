package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

// canManageLeague reports whether userID is the league owner or an active
// admin member. Non-members are simply not managers, not an error.
func canManageLeague(ctx context.Context, memberRepo repositories.MemberRepository, league *models.League, userID int) (bool, error) {
	if league.OwnerID == userID {
		return true, nil
	}
	member, err := memberRepo.Get(ctx, league.ID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve member %d in league %d: %w", userID, league.ID, err)
	}
	return member.Role == models.MemberRoleAdmin && member.Status == models.MemberStatusActive, nil
}

func loadLeague(ctx context.Context, leagueRepo repositories.LeagueRepository, leagueID int) (*models.League, error) {
	league, err := leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}
	return league, nil
}
