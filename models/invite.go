package models

import "time"

type Invite struct {
	ID        int       `json:"id"`
	LeagueID  int       `json:"league_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
