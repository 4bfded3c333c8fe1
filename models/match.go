package models

import (
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// Match is one slot in a league's bracket, identified by the natural key
// (LeagueID, Round, MatchNumber). Round 1 is the first round; MatchNumber is
// 1-based within a round. A nil Player2ID on a completed round-1 match is a
// bye; nil player slots on a pending match mean the entrant is not known yet.
type Match struct {
	LeagueID     int         `json:"league_id"`
	Round        int         `json:"round"`
	MatchNumber  int         `json:"match_number"`
	Player1ID    *int        `json:"player1_id"`
	Player2ID    *int        `json:"player2_id"`
	Status       MatchStatus `json:"status"`
	WinnerID     *int        `json:"winner_id,omitempty"`
	Player1Score *int        `json:"player1_score,omitempty"`
	Player2Score *int        `json:"player2_score,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Key encodes the natural key in its canonical wire form.
func (m *Match) Key() string {
	return fmt.Sprintf("%d_r%d_m%d", m.LeagueID, m.Round, m.MatchNumber)
}

// IsBye reports whether the match was created as an automatic advance.
func (m *Match) IsBye() bool {
	return m.Player1ID != nil && m.Player2ID == nil && m.Status == MatchStatusCompleted
}

// HasPlayer reports whether userID occupies one of the two slots.
func (m *Match) HasPlayer(userID int) bool {
	return (m.Player1ID != nil && *m.Player1ID == userID) ||
		(m.Player2ID != nil && *m.Player2ID == userID)
}
