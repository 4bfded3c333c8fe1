package models

// Standing is a derived per-member leaderboard row, computed from completed
// matches. WinRate is a percentage; members with no completed matches get 0.
type Standing struct {
	UserID      int     `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
}
