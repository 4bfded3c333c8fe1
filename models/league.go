package models

import "time"

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin:
		return true
	}
	return false
}

type League struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	OwnerID          int              `json:"owner_id"`
	TournamentFormat TournamentFormat `json:"tournament_format"`
	LogoURL          *string          `json:"logo_url,omitempty"`
	BracketGenerated bool             `json:"bracket_generated"`
	CreatedAt        time.Time        `json:"created_at"`
}
