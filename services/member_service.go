package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type MemberService interface {
	ListMembers(ctx context.Context, leagueID int) ([]*models.Member, error)

	// RemoveMember removes a member from a league. Members may remove
	// themselves; anyone else requires owner or admin rights. The owner
	// cannot be removed at all.
	RemoveMember(ctx context.Context, leagueID, targetUserID, requestingUserID int) error

	// PromoteMember grants the admin role. Owner only.
	PromoteMember(ctx context.Context, leagueID, targetUserID, requestingUserID int) error
}

type memberService struct {
	leagueRepo repositories.LeagueRepository
	memberRepo repositories.MemberRepository
}

func NewMemberService(
	leagueRepo repositories.LeagueRepository,
	memberRepo repositories.MemberRepository,
) MemberService {
	return &memberService{
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
	}
}

func (s *memberService) ListMembers(ctx context.Context, leagueID int) ([]*models.Member, error) {
	if _, err := loadLeague(ctx, s.leagueRepo, leagueID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for league %d: %w", leagueID, err)
	}
	return members, nil
}

func (s *memberService) RemoveMember(ctx context.Context, leagueID, targetUserID, requestingUserID int) error {
	league, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return err
	}

	if targetUserID == league.OwnerID {
		return ErrOwnerCannotLeave
	}

	if targetUserID != requestingUserID {
		allowed, err := canManageLeague(ctx, s.memberRepo, league, requestingUserID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrForbiddenOperation
		}
	}

	if err := s.memberRepo.Delete(ctx, leagueID, targetUserID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return nil
}

func (s *memberService) PromoteMember(ctx context.Context, leagueID, targetUserID, requestingUserID int) error {
	league, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return err
	}
	if league.OwnerID != requestingUserID {
		return ErrForbiddenOperation
	}

	member, err := s.memberRepo.Get(ctx, leagueID, targetUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if member.Status != models.MemberStatusActive {
		return ErrMemberNotActive
	}

	return s.memberRepo.UpdateRole(ctx, leagueID, targetUserID, models.MemberRoleAdmin)
}
