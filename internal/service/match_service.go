package service

import (
	"context"
	"errors"

	"rps_arena/internal/logger"
	"rps_arena/internal/repository"

	"github.com/google/uuid"
)

// MatchResult - ответ на запрос матча
type MatchResult struct {
	Matched      bool   `json:"matched"`
	GameID       string `json:"game_id,omitempty"`
	OpponentName string `json:"opponent_name,omitempty"`
}

// MatchService pairs a requesting player against the waiting pool.
type MatchService struct {
	players  PlayerStore
	matches  MatchStore
	games    GameStore
	notifier Notifier
}

func NewMatchService(players PlayerStore, matches MatchStore, games GameStore, notifier Notifier) *MatchService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MatchService{players: players, matches: matches, games: games, notifier: notifier}
}

// RequestMatch pairs the player with the oldest other waiting player, or
// queues them when the pool is empty. Re-entrant: a player already holding an
// active game gets that game back instead of a new pairing.
func (s *MatchService) RequestMatch(ctx context.Context, playerID int64) (*MatchResult, error) {
	p, err := s.players.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.CurrentGameID != nil {
		g, err := s.games.Get(ctx, *p.CurrentGameID)
		if err == nil && !g.Status.Terminal() {
			return &MatchResult{
				Matched:      true,
				GameID:       g.ID,
				OpponentName: g.OpponentName(g.Slot(playerID)),
			}, nil
		}
		// Terminal or dangling reference: release it and match afresh.
		if err := s.players.ClearCurrentGame(ctx, playerID, *p.CurrentGameID); err != nil {
			return nil, err
		}
	}

	// A concurrent matchmaker may claim this player between the read above and
	// the pairing below; PairOldest detects that and we re-read once.
	for attempt := 0; attempt < 2; attempt++ {
		g, err := s.matches.PairOldest(ctx, p, uuid.NewString())
		switch {
		case err == nil:
			matchesMade.Inc()
			logger.Info("match made", "game_id", g.ID, "player1", g.Player1ID, "player2", *g.Player2ID)
			s.notifier.Notify(g.Player1ID, EventMatchFound, MatchFoundPayload{
				GameID:       g.ID,
				OpponentName: g.Player2Name,
			})
			return &MatchResult{
				Matched:      true,
				GameID:       g.ID,
				OpponentName: g.Player1Name,
			}, nil

		case errors.Is(err, repository.ErrNoOpponent):
			if err := s.matches.Enqueue(ctx, playerID); err != nil {
				if errors.Is(err, repository.ErrPlayerInGame) {
					// Someone just paired with us.
					return s.RequestMatch(ctx, playerID)
				}
				return nil, err
			}
			return &MatchResult{Matched: false}, nil

		case errors.Is(err, repository.ErrPairingConflict):
			p, err = s.players.GetByID(ctx, playerID)
			if err != nil {
				return nil, err
			}
			if p.CurrentGameID != nil {
				g, err := s.games.Get(ctx, *p.CurrentGameID)
				if err != nil {
					return nil, err
				}
				return &MatchResult{
					Matched:      true,
					GameID:       g.ID,
					OpponentName: g.OpponentName(g.Slot(playerID)),
				}, nil
			}
			// Retry the pairing once more.

		default:
			return nil, err
		}
	}

	return nil, ErrAlreadyInGame
}

// LeaveQueue removes the player from the waiting pool. Idempotent; the core
// never expires queue membership on its own, so disconnecting callers must
// invoke this.
func (s *MatchService) LeaveQueue(ctx context.Context, playerID int64) error {
	return s.matches.Remove(ctx, playerID)
}
