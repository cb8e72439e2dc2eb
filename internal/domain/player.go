package domain

import "time"

// Player - игрок и его накопленная статистика
type Player struct {
	ID            int64      `db:"id" json:"id"`
	Username      string     `db:"username" json:"username"`
	CurrentGameID *string    `db:"current_game_id" json:"current_game_id,omitempty"`
	Waiting       bool       `db:"waiting" json:"waiting"`
	WaitingSince  *time.Time `db:"waiting_since" json:"waiting_since,omitempty"`
	Wins          int64      `db:"wins" json:"wins"`
	Losses        int64      `db:"losses" json:"losses"`
	Draws         int64      `db:"draws" json:"draws"`
	TotalGames    int64      `db:"total_games" json:"total_games"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// InGame reports whether the player currently holds an active game reference.
func (p *Player) InGame() bool {
	return p.CurrentGameID != nil
}
