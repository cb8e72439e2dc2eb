package game

// Canonical moves.
const (
	MoveRock     = "rock"
	MovePaper    = "paper"
	MoveScissors = "scissors"
)

// Moves lists the three canonical moves in a stable order.
var Moves = []string{MoveRock, MovePaper, MoveScissors}

// Outcome of resolving two moves, from the first mover's point of view.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeFirst
	OutcomeSecond
)

// IsValidMove reports whether move is exactly one of the canonical values.
// Case-sensitive, no trimming.
func IsValidMove(move string) bool {
	switch move {
	case MoveRock, MovePaper, MoveScissors:
		return true
	}
	return false
}

// beats maps each move to the move it defeats.
var beats = map[string]string{
	MoveRock:     MoveScissors,
	MovePaper:    MoveRock,
	MoveScissors: MovePaper,
}

// Resolve decides a round between two already-validated moves.
// rock beats scissors, scissors beats paper, paper beats rock.
func Resolve(moveA, moveB string) Outcome {
	if moveA == moveB {
		return OutcomeDraw
	}
	if beats[moveA] == moveB {
		return OutcomeFirst
	}
	return OutcomeSecond
}
