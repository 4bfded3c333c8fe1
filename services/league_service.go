package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
	"github.com/openleague/league-system/storage"
)

type CreateLeagueInput struct {
	Name             string                  `json:"name"`
	TournamentFormat models.TournamentFormat `json:"tournament_format"`
}

type LeagueService interface {
	CreateLeague(ctx context.Context, input CreateLeagueInput, ownerID int) (*models.League, error)
	GetLeague(ctx context.Context, leagueID int) (*models.League, error)
	ListUserLeagues(ctx context.Context, userID int) ([]*models.League, error)

	// UpdateFormat changes the tournament format. Owner only, and only
	// before the bracket has been generated.
	UpdateFormat(ctx context.Context, leagueID, requestingUserID int, format models.TournamentFormat) (*models.League, error)

	UploadLogo(ctx context.Context, leagueID, requestingUserID int, contentType string, logo io.Reader) (*models.League, error)
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	memberRepo repositories.MemberRepository
	uploader   storage.FileUploader
}

func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	memberRepo repositories.MemberRepository,
	uploader storage.FileUploader,
) LeagueService {
	return &leagueService{
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
		uploader:   uploader,
	}
}

func (s *leagueService) CreateLeague(ctx context.Context, input CreateLeagueInput, ownerID int) (*models.League, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrLeagueNameRequired
	}

	format := input.TournamentFormat
	if format == "" {
		format = models.FormatSingleElimination
	}
	if !format.Valid() {
		return nil, ErrInvalidFormat
	}

	league := &models.League{
		Name:             name,
		OwnerID:          ownerID,
		TournamentFormat: format,
	}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		return nil, err
	}

	// The owner joins their own league as an active admin.
	member := &models.Member{
		LeagueID: league.ID,
		UserID:   ownerID,
		Status:   models.MemberStatusActive,
		Role:     models.MemberRoleAdmin,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner as member of league %d: %w", league.ID, err)
	}

	return league, nil
}

func (s *leagueService) GetLeague(ctx context.Context, leagueID int) (*models.League, error) {
	return loadLeague(ctx, s.leagueRepo, leagueID)
}

func (s *leagueService) ListUserLeagues(ctx context.Context, userID int) ([]*models.League, error) {
	leagues, err := s.leagueRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues for user %d: %w", userID, err)
	}
	return leagues, nil
}

func (s *leagueService) UpdateFormat(ctx context.Context, leagueID, requestingUserID int, format models.TournamentFormat) (*models.League, error) {
	league, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return nil, err
	}
	if league.OwnerID != requestingUserID {
		return nil, ErrForbiddenOperation
	}
	if league.BracketGenerated {
		return nil, ErrLeagueLocked
	}
	if !format.Valid() {
		return nil, ErrInvalidFormat
	}

	if err := s.leagueRepo.UpdateFormat(ctx, leagueID, format); err != nil {
		return nil, err
	}
	league.TournamentFormat = format
	return league, nil
}

func (s *leagueService) UploadLogo(ctx context.Context, leagueID, requestingUserID int, contentType string, logo io.Reader) (*models.League, error) {
	if s.uploader == nil {
		return nil, ErrLogoUploadsDisabled
	}

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

	key := fmt.Sprintf("leagues/%d/logo", leagueID)
	result, err := s.uploader.Upload(ctx, key, contentType, logo)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for league %d: %w", leagueID, err)
	}

	if err := s.leagueRepo.UpdateLogoURL(ctx, leagueID, result.Location); err != nil {
		return nil, err
	}
	league.LogoURL = &result.Location
	return league, nil
}
