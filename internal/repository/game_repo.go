package repository

import (
	"context"
	"errors"
	"time"

	"rps_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `id, player1_id, player2_id, player1_name, player2_name,
	player1_move, player2_move, status, winner, created_at, completed_at`

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	err := row.Scan(
		&g.ID,
		&g.Player1ID,
		&g.Player2ID,
		&g.Player1Name,
		&g.Player2Name,
		&g.Player1Move,
		&g.Player2Move,
		&g.Status,
		&g.Winner,
		&g.CreatedAt,
		&g.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.Game, error) {
	return scanGame(r.db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
}

// Create inserts a game row as-is. The matchmaking path creates its games
// inside MatchRepository.PairOldest; this is used by the practice path, where
// the game is born already terminal.
func (r *GameRepository) Create(ctx context.Context, g *domain.Game) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO games
			(id, player1_id, player2_id, player1_name, player2_name,
			 player1_move, player2_move, status, winner, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		g.ID, g.Player1ID, g.Player2ID, g.Player1Name, g.Player2Name,
		g.Player1Move, g.Player2Move, g.Status, g.Winner, g.CompletedAt,
	).Scan(&g.CreatedAt)
}

// SetMove writes a move into the player's own slot. The guard makes the write
// at-most-once: a second submit, a submit into a terminal game, or a lost race
// all report false with no mutation.
func (r *GameRepository) SetMove(ctx context.Context, gameID string, slot int, move string) (bool, error) {
	column := "player1_move"
	if slot == 2 {
		column = "player2_move"
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE games SET `+column+` = $1
		 WHERE id = $2 AND status = 'active' AND `+column+` IS NULL`,
		move, gameID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Complete performs the active→completed transition. Only one caller can win
// the status guard; that caller owns the stats/notification side effects.
func (r *GameRepository) Complete(ctx context.Context, gameID, winner string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE games SET status = 'completed', winner = $1, completed_at = now()
		 WHERE id = $2 AND status = 'active'
		   AND player1_move IS NOT NULL AND player2_move IS NOT NULL`,
		winner, gameID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Expire performs the active→timeout transition for a game older than the
// threshold. Same single-winner guard as Complete.
func (r *GameRepository) Expire(ctx context.Context, gameID string, olderThan time.Duration) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE games SET status = 'timeout', winner = 'timeout', completed_at = now()
		 WHERE id = $1 AND status = 'active'
		   AND created_at <= now() - make_interval(secs => $2)`,
		gameID, olderThan.Seconds(),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
