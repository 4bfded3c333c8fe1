package brackets

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/openleague/league-system/models"
)

var ErrNotEnoughParticipants = errors.New("not enough participants to generate a single elimination bracket (minimum 2)")

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket seeds the participants with a uniform shuffle and lays out
// the full match tree for the league:
//
//   - round 1 gets floor(n/2) two-player matches, numbered 1..floor(n/2);
//   - any leftover participant gets a bye match, created already completed
//     with a synthetic 1-0 score, continuing the match numbering;
//   - every later round gets ceil(advancing/2) empty pending matches until a
//     single final remains. Those slots are filled later as results come in;
//     the generator never assigns winners forward.
//
// Matches are returned ordered by (round, match number).
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	seeding := make([]int, n)
	for i, p := range params.Participants {
		seeding[i] = p.UserID
	}
	rand.Shuffle(n, func(i, j int) {
		seeding[i], seeding[j] = seeding[j], seeding[i]
	})

	leagueID := params.League.ID
	firstRoundMatchCount := n / 2
	byeCount := n - 2*firstRoundMatchCount

	matches := make([]*models.Match, 0, 2*n)

	for i := 0; i < firstRoundMatchCount; i++ {
		p1 := seeding[2*i]
		p2 := seeding[2*i+1]
		matches = append(matches, &models.Match{
			LeagueID:    leagueID,
			Round:       1,
			MatchNumber: i + 1,
			Player1ID:   &p1,
			Player2ID:   &p2,
			Status:      models.MatchStatusPending,
		})
	}

	for b := 0; b < byeCount; b++ {
		pid := seeding[2*firstRoundMatchCount+b]
		winScore, loseScore := 1, 0
		matches = append(matches, &models.Match{
			LeagueID:     leagueID,
			Round:        1,
			MatchNumber:  firstRoundMatchCount + 1 + b,
			Player1ID:    &pid,
			Player2ID:    nil,
			Status:       models.MatchStatusCompleted,
			WinnerID:     &pid,
			Player1Score: &winScore,
			Player2Score: &loseScore,
		})
	}

	advancingCount := firstRoundMatchCount + byeCount
	round := 2
	for advancingCount > 1 {
		matchesInRound := (advancingCount + 1) / 2
		for i := 1; i <= matchesInRound; i++ {
			matches = append(matches, &models.Match{
				LeagueID:    leagueID,
				Round:       round,
				MatchNumber: i,
				Status:      models.MatchStatusPending,
			})
		}
		advancingCount = matchesInRound
		round++
	}

	return matches, nil
}
