package models

import "time"

type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusInvited MemberStatus = "invited"
	MemberStatusPending MemberStatus = "pending"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Member is a user's registration in a league, keyed by (league_id, user_id).
type Member struct {
	LeagueID    int          `json:"league_id"`
	UserID      int          `json:"user_id"`
	Status      MemberStatus `json:"status"`
	Role        MemberRole   `json:"role"`
	DisplayName string       `json:"display_name"`
	CreatedAt   time.Time    `json:"created_at"`
}
