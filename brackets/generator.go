package brackets

import (
	"context"

	"github.com/openleague/league-system/models"
)

type GenerateBracketParams struct {
	League       *models.League
	Participants []*models.Member
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*models.Match, error)

	GetName() string
}
