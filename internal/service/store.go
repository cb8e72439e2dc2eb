package service

import (
	"context"
	"time"

	"rps_arena/internal/domain"
)

// The services hold no cross-request state of their own; everything below is
// a narrow view of the persistent store, and all atomicity is expressed as
// conditional operations inside it. The repository package provides the
// Postgres implementations; tests substitute an in-memory one.

// PlayerStore reads player records and applies stat counters.
type PlayerStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Player, error)
	ClearCurrentGame(ctx context.Context, playerID int64, gameID string) error
	ApplyResult(ctx context.Context, playerID int64, result domain.GameResult) error
}

// MatchStore owns waiting-pool membership and the atomic pairing step.
type MatchStore interface {
	Enqueue(ctx context.Context, playerID int64) error
	Remove(ctx context.Context, playerID int64) error
	PairOldest(ctx context.Context, requester *domain.Player, gameID string) (*domain.Game, error)
}

// GameStore persists games. SetMove, Complete and Expire are conditional:
// they report whether this caller performed the mutation.
type GameStore interface {
	Get(ctx context.Context, id string) (*domain.Game, error)
	Create(ctx context.Context, g *domain.Game) error
	SetMove(ctx context.Context, gameID string, slot int, move string) (bool, error)
	Complete(ctx context.Context, gameID, winner string) (bool, error)
	Expire(ctx context.Context, gameID string, olderThan time.Duration) (bool, error)
}

// HistoryStore records per-player game history. Writes are best-effort.
type HistoryStore interface {
	Create(ctx context.Context, h *domain.GameHistory) error
}

// Notifier pushes an event to a player's bound transport, if any. Delivery is
// best-effort; implementations must never fail the caller.
type Notifier interface {
	Notify(playerID int64, event string, payload any)
}

// Push event types.
const (
	EventMatchFound = "match_found"
	EventGameResult = "game_result"
	EventTimeout    = "game_timeout"
)

// MatchFoundPayload accompanies EventMatchFound.
type MatchFoundPayload struct {
	GameID       string `json:"game_id"`
	OpponentName string `json:"opponent_name"`
}

// GameResultPayload accompanies EventGameResult.
type GameResultPayload struct {
	GameID       string            `json:"game_id"`
	YourMove     string            `json:"your_move"`
	OpponentMove string            `json:"opponent_move"`
	Result       domain.GameResult `json:"result"`
	OpponentName string            `json:"opponent_name"`
}

// TimeoutPayload accompanies EventTimeout.
type TimeoutPayload struct {
	GameID string `json:"game_id"`
}

// NopNotifier drops every event; used when no push transport is wired.
type NopNotifier struct{}

func (NopNotifier) Notify(int64, string, any) {}
