package service

import (
	"context"
	"errors"
	"time"

	"rps_arena/internal/domain"
	"rps_arena/internal/game"
	"rps_arena/internal/logger"
	"rps_arena/internal/repository"

	"github.com/google/uuid"
)

// PracticeResult - результат одной партии против компьютера
type PracticeResult struct {
	GameID       string            `json:"game_id"`
	YourMove     string            `json:"your_move"`
	OpponentMove string            `json:"opponent_move"`
	Result       domain.GameResult `json:"result"`
	OpponentName string            `json:"opponent_name"`
}

// PracticeService plays one-shot games against a computer opponent. It skips
// the waiting pool entirely: the opponent move comes from the injected
// MoveSource and the game is persisted already terminal.
type PracticeService struct {
	players PlayerStore
	games   GameStore
	history HistoryStore
	source  game.MoveSource
}

func NewPracticeService(players PlayerStore, games GameStore, history HistoryStore, source game.MoveSource) *PracticeService {
	if source == nil {
		source = game.RandomSource{}
	}
	return &PracticeService{players: players, games: games, history: history, source: source}
}

// Play resolves the player's move against the computer in one round and
// applies stats for the real player only. Persistence failures degrade to a
// warning: the resolution result is still returned.
func (s *PracticeService) Play(ctx context.Context, playerID int64, move string) (*PracticeResult, error) {
	if !game.IsValidMove(move) {
		return nil, ErrInvalidMove
	}

	p, err := s.players.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	botMove := s.source.Move()

	var winner string
	var result domain.GameResult
	switch game.Resolve(move, botMove) {
	case game.OutcomeFirst:
		winner, result = domain.WinnerPlayer1, domain.GameResultWin
	case game.OutcomeSecond:
		winner, result = domain.WinnerPlayer2, domain.GameResultLose
	default:
		winner, result = domain.WinnerDraw, domain.GameResultDraw
	}

	now := time.Now()
	g := &domain.Game{
		ID:          uuid.NewString(),
		Player1ID:   p.ID,
		Player1Name: p.Username,
		Player2Name: game.BotName(),
		Player1Move: &move,
		Player2Move: &botMove,
		Status:      domain.StatusCompleted,
		Winner:      &winner,
		CompletedAt: &now,
	}

	if err := s.games.Create(ctx, g); err != nil {
		logger.Warn("failed to save practice game", "player_id", p.ID, "error", err)
	}
	if err := s.players.ApplyResult(ctx, p.ID, result); err != nil {
		logger.Error("failed to apply practice result", "player_id", p.ID, "error", err)
	}

	h := &domain.GameHistory{
		UserID:       p.ID,
		GameID:       g.ID,
		OpponentName: g.Player2Name,
		YourMove:     &move,
		OpponentMove: &botMove,
		Result:       result,
	}
	if err := s.history.Create(ctx, h); err != nil {
		logger.Warn("failed to write practice history", "player_id", p.ID, "error", err)
	}

	practiceGames.Inc()

	return &PracticeResult{
		GameID:       g.ID,
		YourMove:     move,
		OpponentMove: botMove,
		Result:       result,
		OpponentName: g.Player2Name,
	}, nil
}
