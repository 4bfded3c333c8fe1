package models

// Bracket is the derived view of a league's full match set. It is computed on
// demand and never persisted.
type Bracket struct {
	LeagueID     int      `json:"league_id"`
	Matches      []*Match `json:"matches"`
	Rounds       int      `json:"rounds"`
	CurrentRound int      `json:"current_round"`
}
