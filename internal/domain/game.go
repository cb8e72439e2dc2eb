package domain

import "time"

// GameStatus - состояние игры
type GameStatus string

const (
	StatusActive    GameStatus = "active"
	StatusCompleted GameStatus = "completed"
	StatusTimeout   GameStatus = "timeout"
)

// Terminal reports whether no further transition is possible.
func (s GameStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusTimeout
}

// Winner values stored on a terminal game.
const (
	WinnerPlayer1 = "player1"
	WinnerPlayer2 = "player2"
	WinnerDraw    = "draw"
	WinnerTimeout = "timeout"
)

// GameResult - результат игры для одного игрока
type GameResult string

const (
	GameResultWin     GameResult = "win"
	GameResultLose    GameResult = "lose"
	GameResultDraw    GameResult = "draw"
	GameResultTimeout GameResult = "timeout"
)

// Game - одна партия. Player2ID is nil for a computer opponent; display
// names are denormalized onto the row so result payloads need no join.
type Game struct {
	ID          string     `db:"id"`
	Player1ID   int64      `db:"player1_id"`
	Player2ID   *int64     `db:"player2_id"`
	Player1Name string     `db:"player1_name"`
	Player2Name string     `db:"player2_name"`
	Player1Move *string    `db:"player1_move"`
	Player2Move *string    `db:"player2_move"`
	Status      GameStatus `db:"status"`
	Winner      *string    `db:"winner"`
	CreatedAt   time.Time  `db:"created_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// IsParticipant reports whether userID plays in this game.
func (g *Game) IsParticipant(userID int64) bool {
	if g.Player1ID == userID {
		return true
	}
	return g.Player2ID != nil && *g.Player2ID == userID
}

// Slot returns 1 or 2 for a participant, 0 otherwise.
func (g *Game) Slot(userID int64) int {
	switch {
	case g.Player1ID == userID:
		return 1
	case g.Player2ID != nil && *g.Player2ID == userID:
		return 2
	default:
		return 0
	}
}

// MoveOf returns the recorded move for the given slot, or nil.
func (g *Game) MoveOf(slot int) *string {
	if slot == 1 {
		return g.Player1Move
	}
	return g.Player2Move
}

// OpponentName returns the display name of the other participant.
func (g *Game) OpponentName(slot int) string {
	if slot == 1 {
		return g.Player2Name
	}
	return g.Player1Name
}

// ResultFor maps the stored winner onto a per-player result.
func (g *Game) ResultFor(slot int) GameResult {
	if g.Winner == nil {
		return ""
	}
	switch *g.Winner {
	case WinnerDraw:
		return GameResultDraw
	case WinnerTimeout:
		return GameResultTimeout
	case WinnerPlayer1:
		if slot == 1 {
			return GameResultWin
		}
		return GameResultLose
	case WinnerPlayer2:
		if slot == 2 {
			return GameResultWin
		}
		return GameResultLose
	}
	return ""
}

// GameHistory - запись истории игры для одного игрока
type GameHistory struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	GameID       string     `db:"game_id" json:"game_id"`
	OpponentName string     `db:"opponent_name" json:"opponent_name"`
	YourMove     *string    `db:"your_move" json:"your_move,omitempty"`
	OpponentMove *string    `db:"opponent_move" json:"opponent_move,omitempty"`
	Result       GameResult `db:"result" json:"result"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
