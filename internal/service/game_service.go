package service

import (
	"context"
	"errors"
	"time"

	"rps_arena/internal/domain"
	"rps_arena/internal/game"
	"rps_arena/internal/logger"
	"rps_arena/internal/repository"
)

// DefaultGameTimeout - окно на партию; after it any access forces timeout.
const DefaultGameTimeout = 60 * time.Second

// GameView is what a participant sees of a game. While the game is active the
// opponent's move stays hidden.
type GameView struct {
	GameID             string            `json:"game_id"`
	Status             domain.GameStatus `json:"status"`
	GameComplete       bool              `json:"game_complete"`
	WaitingForOpponent bool              `json:"waiting_for_opponent,omitempty"`
	Timeout            bool              `json:"timeout,omitempty"`
	YourMove           string            `json:"your_move,omitempty"`
	OpponentMove       string            `json:"opponent_move,omitempty"`
	Result             domain.GameResult `json:"result,omitempty"`
	OpponentName       string            `json:"opponent_name,omitempty"`
}

// GameService owns the per-game state machine: move slots, lazy timeout,
// terminal transition and its side effects (stats, history, notification).
type GameService struct {
	players  PlayerStore
	games    GameStore
	history  HistoryStore
	notifier Notifier
	timeout  time.Duration
}

func NewGameService(players PlayerStore, games GameStore, history HistoryStore, notifier Notifier, timeout time.Duration) *GameService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if timeout <= 0 {
		timeout = DefaultGameTimeout
	}
	return &GameService{players: players, games: games, history: history, notifier: notifier, timeout: timeout}
}

// SubmitMove records the player's move. Terminal games return their view
// unchanged; an expired game is forced to timeout instead of taking the move;
// the submit that fills the second slot resolves the game.
func (s *GameService) SubmitMove(ctx context.Context, gameID string, playerID int64, move string) (*GameView, error) {
	if !game.IsValidMove(move) {
		return nil, ErrInvalidMove
	}

	g, slot, err := s.load(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	if g.Status.Terminal() {
		return s.view(g, slot), nil
	}

	if g, err = s.expireIfDue(ctx, g); err != nil {
		return nil, err
	}
	if g.Status.Terminal() {
		return s.view(g, slot), nil
	}

	// A move slot is written at most once; a repeat submit (same or different
	// move) leaves the original in place and just reports current state.
	if _, err := s.games.SetMove(ctx, gameID, slot, move); err != nil {
		return nil, err
	}

	g, err = s.games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if g.Status == domain.StatusActive && g.Player1Move != nil && g.Player2Move != nil {
		if g, err = s.resolve(ctx, g); err != nil {
			return nil, err
		}
	}

	return s.view(g, slot), nil
}

// CheckStatus is the polling read. It performs the lazy timeout transition
// when it observes an expired active game; otherwise it only reports.
func (s *GameService) CheckStatus(ctx context.Context, gameID string, playerID int64) (*GameView, error) {
	g, slot, err := s.load(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	if g.Status == domain.StatusActive {
		if g, err = s.expireIfDue(ctx, g); err != nil {
			return nil, err
		}
	}

	return s.view(g, slot), nil
}

func (s *GameService) load(ctx context.Context, gameID string, playerID int64) (*domain.Game, int, error) {
	g, err := s.games.Get(ctx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, ErrGameNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	slot := g.Slot(playerID)
	if slot == 0 {
		return nil, 0, ErrNotAParticipant
	}
	return g, slot, nil
}

// expireIfDue forces the timeout transition on an overdue active game. Only
// the access that wins the conditional update runs the side effects; everyone
// else just re-reads.
func (s *GameService) expireIfDue(ctx context.Context, g *domain.Game) (*domain.Game, error) {
	if g.Status != domain.StatusActive || time.Since(g.CreatedAt) < s.timeout {
		return g, nil
	}

	won, err := s.games.Expire(ctx, g.ID, s.timeout)
	if err != nil {
		return nil, err
	}

	fresh, err := s.games.Get(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if won {
		s.finishTimeout(ctx, fresh)
	}
	return fresh, nil
}

// resolve runs the winner resolution once both slots are filled. The caller
// that wins the active→completed transition applies stats exactly once and
// fans out notifications; a losing racer re-reads the terminal row.
func (s *GameService) resolve(ctx context.Context, g *domain.Game) (*domain.Game, error) {
	var winner string
	switch game.Resolve(*g.Player1Move, *g.Player2Move) {
	case game.OutcomeFirst:
		winner = domain.WinnerPlayer1
	case game.OutcomeSecond:
		winner = domain.WinnerPlayer2
	default:
		winner = domain.WinnerDraw
	}

	won, err := s.games.Complete(ctx, g.ID, winner)
	if err != nil {
		return nil, err
	}

	fresh, err := s.games.Get(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if won {
		s.finishCompleted(ctx, fresh)
	}
	return fresh, nil
}

// finishCompleted runs the completion side effects. Stats are the critical
// part; history and notification degrade to warnings.
func (s *GameService) finishCompleted(ctx context.Context, g *domain.Game) {
	gamesFinished.WithLabelValues(string(domain.StatusCompleted)).Inc()

	for _, slot := range []int{1, 2} {
		id, ok := s.participantID(g, slot)
		if !ok {
			continue
		}

		result := g.ResultFor(slot)
		if err := s.players.ApplyResult(ctx, id, result); err != nil {
			logger.Error("failed to apply game result", "game_id", g.ID, "player_id", id, "error", err)
		}
		if err := s.players.ClearCurrentGame(ctx, id, g.ID); err != nil {
			logger.Error("failed to clear game reference", "game_id", g.ID, "player_id", id, "error", err)
		}
		s.record(ctx, g, slot, id, result)

		s.notifier.Notify(id, EventGameResult, GameResultPayload{
			GameID:       g.ID,
			YourMove:     deref(g.MoveOf(slot)),
			OpponentMove: deref(g.MoveOf(3 - slot)),
			Result:       result,
			OpponentName: g.OpponentName(slot),
		})
	}

	logger.Info("game completed", "game_id", g.ID, "winner", deref(g.Winner))
}

// finishTimeout releases both players without touching stats.
func (s *GameService) finishTimeout(ctx context.Context, g *domain.Game) {
	gamesFinished.WithLabelValues(string(domain.StatusTimeout)).Inc()

	for _, slot := range []int{1, 2} {
		id, ok := s.participantID(g, slot)
		if !ok {
			continue
		}

		if err := s.players.ClearCurrentGame(ctx, id, g.ID); err != nil {
			logger.Error("failed to clear game reference", "game_id", g.ID, "player_id", id, "error", err)
		}
		s.record(ctx, g, slot, id, domain.GameResultTimeout)
		s.notifier.Notify(id, EventTimeout, TimeoutPayload{GameID: g.ID})
	}

	logger.Info("game timed out", "game_id", g.ID)
}

func (s *GameService) record(ctx context.Context, g *domain.Game, slot int, playerID int64, result domain.GameResult) {
	h := &domain.GameHistory{
		UserID:       playerID,
		GameID:       g.ID,
		OpponentName: g.OpponentName(slot),
		YourMove:     g.MoveOf(slot),
		OpponentMove: g.MoveOf(3 - slot),
		Result:       result,
	}
	if err := s.history.Create(ctx, h); err != nil {
		logger.Warn("failed to write game history", "game_id", g.ID, "player_id", playerID, "error", err)
	}
}

func (s *GameService) participantID(g *domain.Game, slot int) (int64, bool) {
	if slot == 1 {
		return g.Player1ID, true
	}
	if g.Player2ID != nil {
		return *g.Player2ID, true
	}
	return 0, false
}

func (s *GameService) view(g *domain.Game, slot int) *GameView {
	v := &GameView{
		GameID:       g.ID,
		Status:       g.Status,
		OpponentName: g.OpponentName(slot),
		YourMove:     deref(g.MoveOf(slot)),
	}

	switch g.Status {
	case domain.StatusCompleted:
		v.GameComplete = true
		v.OpponentMove = deref(g.MoveOf(3 - slot))
		v.Result = g.ResultFor(slot)
	case domain.StatusTimeout:
		v.Timeout = true
		v.Result = domain.GameResultTimeout
	default:
		v.WaitingForOpponent = true
		// Opponent's move stays hidden until the game resolves.
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
