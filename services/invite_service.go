package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

const (
	inviteTokenLength = 16 // bytes, 32 hex characters
	inviteDuration    = 7 * 24 * time.Hour
)

var ErrInviteTokenGeneration = errors.New("failed to generate unique invite token")

type InviteService interface {
	CreateInvite(ctx context.Context, leagueID, requestingUserID int) (*models.Invite, error)
	GetInviteByToken(ctx context.Context, token string) (*models.Invite, error)
	AcceptInvite(ctx context.Context, token string, userID int) (*models.Member, error)
	ListLeagueInvites(ctx context.Context, leagueID, requestingUserID int) ([]*models.Invite, error)
	RevokeInvite(ctx context.Context, leagueID, inviteID, requestingUserID int) error
}

type inviteService struct {
	inviteRepo repositories.InviteRepository
	leagueRepo repositories.LeagueRepository
	memberRepo repositories.MemberRepository
}

func NewInviteService(
	inviteRepo repositories.InviteRepository,
	leagueRepo repositories.LeagueRepository,
	memberRepo repositories.MemberRepository,
) InviteService {
	return &inviteService{
		inviteRepo: inviteRepo,
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
	}
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *inviteService) requireManager(ctx context.Context, leagueID, userID int) (*models.League, error) {
	league, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return nil, err
	}
	allowed, err := canManageLeague(ctx, s.memberRepo, league, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbiddenOperation
	}
	return league, nil
}

func (s *inviteService) CreateInvite(ctx context.Context, leagueID, requestingUserID int) (*models.Invite, error) {
	if _, err := s.requireManager(ctx, leagueID, requestingUserID); err != nil {
		return nil, err
	}

	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		token, err := generateSecureToken(inviteTokenLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInviteTokenGeneration, err)
		}

		invite := &models.Invite{
			LeagueID:  leagueID,
			Token:     token,
			ExpiresAt: time.Now().Add(inviteDuration),
		}
		err = s.inviteRepo.Create(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if errors.Is(err, repositories.ErrInviteTokenConflict) {
			continue
		}
		if errors.Is(err, repositories.ErrInviteLeagueInvalid) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to create invite for league %d: %w", leagueID, err)
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrInviteTokenGeneration, maxAttempts)
}

func (s *inviteService) GetInviteByToken(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite by token: %w", err)
	}
	return invite, nil
}

func (s *inviteService) AcceptInvite(ctx context.Context, token string, userID int) (*models.Member, error) {
	invite, err := s.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite.Expired(time.Now()) {
		return nil, ErrInviteExpired
	}

	member := &models.Member{
		LeagueID: invite.LeagueID,
		UserID:   userID,
		Status:   models.MemberStatusActive,
		Role:     models.MemberRoleMember,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrMemberConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to join league %d: %w", invite.LeagueID, err)
	}
	return member, nil
}

func (s *inviteService) ListLeagueInvites(ctx context.Context, leagueID, requestingUserID int) ([]*models.Invite, error) {
	if _, err := s.requireManager(ctx, leagueID, requestingUserID); err != nil {
		return nil, err
	}
	invites, err := s.inviteRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites for league %d: %w", leagueID, err)
	}
	return invites, nil
}

func (s *inviteService) RevokeInvite(ctx context.Context, leagueID, inviteID, requestingUserID int) error {
	if _, err := s.requireManager(ctx, leagueID, requestingUserID); err != nil {
		return err
	}

	invites, err := s.inviteRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("failed to list invites for league %d: %w", leagueID, err)
	}
	for _, invite := range invites {
		if invite.ID == inviteID {
			if err := s.inviteRepo.Delete(ctx, inviteID); err != nil {
				if errors.Is(err, repositories.ErrInviteNotFound) {
					return ErrInviteNotFound
				}
				return err
			}
			return nil
		}
	}
	return ErrInviteNotFound
}
