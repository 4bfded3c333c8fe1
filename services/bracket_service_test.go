package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type BracketServiceSuite struct {
	suite.Suite

	ctx        context.Context
	leagueRepo *fakeLeagueRepo
	memberRepo *fakeMemberRepo
	matchRepo  *fakeMatchRepo
	writer     *fakeBracketWriter
	cache      *spyBracketCache
	service    BracketService
}

func TestBracketServiceSuite(t *testing.T) {
	suite.Run(t, new(BracketServiceSuite))
}

func (s *BracketServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.leagueRepo = newFakeLeagueRepo()
	s.memberRepo = newFakeMemberRepo()
	s.matchRepo = newFakeMatchRepo()
	s.writer = &fakeBracketWriter{leagueRepo: s.leagueRepo, matchRepo: s.matchRepo}
	s.cache = &spyBracketCache{}
	s.service = NewBracketService(s.leagueRepo, s.memberRepo, s.matchRepo, s.writer, s.cache, discardLogger())
}

const ownerID = 100

// seedLeague creates a single-elimination league owned by ownerID with
// memberCount active members whose user IDs are 1..memberCount.
func (s *BracketServiceSuite) seedLeague(memberCount int) *models.League {
	league := &models.League{
		Name:             "Thursday Night Chess",
		OwnerID:          ownerID,
		TournamentFormat: models.FormatSingleElimination,
	}
	s.Require().NoError(s.leagueRepo.Create(s.ctx, league))
	for i := 1; i <= memberCount; i++ {
		s.Require().NoError(s.memberRepo.Create(s.ctx, &models.Member{
			LeagueID: league.ID,
			UserID:   i,
			Status:   models.MemberStatusActive,
			Role:     models.MemberRoleMember,
		}))
	}
	return league
}

func (s *BracketServiceSuite) TestGenerateLeagueNotFound() {
	_, err := s.service.GenerateBracket(s.ctx, 99, ownerID)
	s.ErrorIs(err, ErrLeagueNotFound)
}

func (s *BracketServiceSuite) TestGenerateForbiddenForPlainMember() {
	league := s.seedLeague(4)
	_, err := s.service.GenerateBracket(s.ctx, league.ID, 2)
	s.ErrorIs(err, ErrBracketForbidden)
	s.Zero(s.writer.saveCalls)
}

func (s *BracketServiceSuite) TestGenerateAllowedForAdminMember() {
	league := s.seedLeague(4)
	s.Require().NoError(s.memberRepo.UpdateRole(s.ctx, league.ID, 3, models.MemberRoleAdmin))

	bracket, err := s.service.GenerateBracket(s.ctx, league.ID, 3)
	s.Require().NoError(err)
	s.NotNil(bracket)
}

func (s *BracketServiceSuite) TestGenerateUnsupportedFormat() {
	league := s.seedLeague(4)
	s.Require().NoError(s.leagueRepo.UpdateFormat(s.ctx, league.ID, models.FormatDoubleElimination))

	_, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.ErrorIs(err, ErrFormatNotSupported)
}

func (s *BracketServiceSuite) TestGenerateInsufficientParticipants() {
	league := s.seedLeague(1)
	_, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.ErrorIs(err, ErrInsufficientParticipants)
}

func (s *BracketServiceSuite) TestGenerateIgnoresInactiveMembers() {
	league := s.seedLeague(2)
	s.Require().NoError(s.memberRepo.UpdateStatus(s.ctx, league.ID, 2, models.MemberStatusInvited))

	_, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.ErrorIs(err, ErrInsufficientParticipants)
}

func (s *BracketServiceSuite) TestGenerateEightParticipants() {
	league := s.seedLeague(8)

	bracket, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.Require().NoError(err)

	s.Equal(3, bracket.Rounds)
	s.Equal(1, bracket.CurrentRound)
	s.Len(bracket.Matches, 7)

	perRound := make(map[int]int)
	for _, m := range bracket.Matches {
		perRound[m.Round]++
	}
	s.Equal(map[int]int{1: 4, 2: 2, 3: 1}, perRound)

	count, err := s.matchRepo.CountByLeague(s.ctx, league.ID)
	s.Require().NoError(err)
	s.Equal(7, count)

	updated, err := s.leagueRepo.GetByID(s.ctx, league.ID)
	s.Require().NoError(err)
	s.True(updated.BracketGenerated)
	s.Equal(1, s.cache.invalidates)
}

func (s *BracketServiceSuite) TestGenerateFiveParticipantsHasBye() {
	league := s.seedLeague(5)

	bracket, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.Require().NoError(err)

	s.Equal(3, bracket.Rounds)
	s.Len(bracket.Matches, 6)

	var byes int
	for _, m := range bracket.Matches {
		if m.Round == 1 && m.IsBye() {
			byes++
			s.Equal(m.Player1ID, m.WinnerID)
		}
	}
	s.Equal(1, byes)
}

func (s *BracketServiceSuite) TestGenerateTwiceConflicts() {
	league := s.seedLeague(4)

	_, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.Require().NoError(err)

	_, err = s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.ErrorIs(err, ErrBracketAlreadyGenerated)
	s.Equal(1, s.writer.saveCalls)
}

func (s *BracketServiceSuite) TestGenerateLosingRaceConflicts() {
	league := s.seedLeague(4)
	s.writer.forcedErr = repositories.ErrLeagueBracketFlagSet

	_, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.ErrorIs(err, ErrBracketAlreadyGenerated)
}

func (s *BracketServiceSuite) TestGetBracketNotGenerated() {
	league := s.seedLeague(4)

	bracket, err := s.service.GetBracket(s.ctx, league.ID)
	s.Require().NoError(err)
	s.Nil(bracket)
}

func (s *BracketServiceSuite) TestGetBracketPopulatesCache() {
	league := s.seedLeague(4)
	_, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.Require().NoError(err)

	bracket, err := s.service.GetBracket(s.ctx, league.ID)
	s.Require().NoError(err)
	s.Require().NotNil(bracket)
	s.Equal(1, s.cache.sets)

	again, err := s.service.GetBracket(s.ctx, league.ID)
	s.Require().NoError(err)
	s.Same(s.cache.stored, again)
	s.Equal(1, s.cache.sets)
}

func (s *BracketServiceSuite) TestGetBracketSurvivesCacheErrors() {
	league := s.seedLeague(4)
	_, err := s.service.GenerateBracket(s.ctx, league.ID, ownerID)
	s.Require().NoError(err)

	s.cache.getErr = context.DeadlineExceeded
	s.cache.setErr = context.DeadlineExceeded

	bracket, err := s.service.GetBracket(s.ctx, league.ID)
	s.Require().NoError(err)
	s.NotNil(bracket)
	s.Len(bracket.Matches, 3)
}

func (s *BracketServiceSuite) TestGetBracketCurrentRoundAdvances() {
	league := s.seedLeague(4)
	matches := []*models.Match{
		{LeagueID: league.ID, Round: 1, MatchNumber: 1, Player1ID: intPtr(1), Player2ID: intPtr(2),
			Status: models.MatchStatusCompleted, WinnerID: intPtr(1)},
		{LeagueID: league.ID, Round: 1, MatchNumber: 2, Player1ID: intPtr(3), Player2ID: intPtr(4),
			Status: models.MatchStatusCompleted, WinnerID: intPtr(4)},
		{LeagueID: league.ID, Round: 2, MatchNumber: 3, Status: models.MatchStatusPending},
	}
	s.Require().NoError(s.matchRepo.CreateBatch(s.ctx, nil, matches))

	bracket, err := s.service.GetBracket(s.ctx, league.ID)
	s.Require().NoError(err)
	s.Equal(2, bracket.CurrentRound)
}

func (s *BracketServiceSuite) TestGetBracketAllCompleteStaysOnFinal() {
	league := s.seedLeague(2)
	matches := []*models.Match{
		{LeagueID: league.ID, Round: 1, MatchNumber: 1, Player1ID: intPtr(1), Player2ID: intPtr(2),
			Status: models.MatchStatusCompleted, WinnerID: intPtr(2)},
	}
	s.Require().NoError(s.matchRepo.CreateBatch(s.ctx, nil, matches))

	bracket, err := s.service.GetBracket(s.ctx, league.ID)
	s.Require().NoError(err)
	s.Equal(1, bracket.Rounds)
	s.Equal(1, bracket.CurrentRound)
}
