package game

import (
	"fmt"
	"math/rand"
)

// MoveSource supplies the opponent's move for a game that is not played
// against a second real player. Injected so tests can pin the move.
type MoveSource interface {
	Move() string
}

// RandomSource draws uniformly over the three moves.
type RandomSource struct{}

func (RandomSource) Move() string {
	return Moves[rand.Intn(len(Moves))]
}

// BotName generates a display name for a computer opponent.
func BotName() string {
	return fmt.Sprintf("Computer_%03d", rand.Intn(1000))
}
