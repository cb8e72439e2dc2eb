package repository

import (
	"context"
	"errors"

	"rps_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `id, username, current_game_id, waiting, waiting_since,
	wins, losses, draws, total_games, created_at`

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.CurrentGameID,
		&p.Waiting,
		&p.WaitingSince,
		&p.Wins,
		&p.Losses,
		&p.Draws,
		&p.TotalGames,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p *domain.Player) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO players (username)
		 VALUES ($1)
		 RETURNING id, created_at`,
		p.Username,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE username = $1`, username))
}

// ClearCurrentGame releases the player's game reference. Conditional on the
// game id so a stale call after the player has entered another game is a no-op.
func (r *PlayerRepository) ClearCurrentGame(ctx context.Context, playerID int64, gameID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE players SET current_game_id = NULL
		 WHERE id = $1 AND current_game_id = $2`,
		playerID, gameID,
	)
	return err
}

// ApplyResult increments exactly one outcome counter plus total_games.
// The caller guarantees at-most-once invocation per player per game via the
// terminal-transition guard on the game row.
func (r *PlayerRepository) ApplyResult(ctx context.Context, playerID int64, result domain.GameResult) error {
	var column string
	switch result {
	case domain.GameResultWin:
		column = "wins"
	case domain.GameResultLose:
		column = "losses"
	case domain.GameResultDraw:
		column = "draws"
	default:
		return errors.New("unknown game result")
	}

	_, err := r.db.Exec(ctx,
		`UPDATE players SET `+column+` = `+column+` + 1, total_games = total_games + 1
		 WHERE id = $1`,
		playerID,
	)
	return err
}

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Username   string `json:"username"`
	Wins       int64  `json:"wins"`
	TotalGames int64  `json:"total_games"`
	WinRate    int    `json:"win_rate"`
}

// TopByWins returns players with at least one game, ordered by wins.
func (r *PlayerRepository) TopByWins(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT username, wins, total_games
		 FROM players
		 WHERE total_games > 0
		 ORDER BY wins DESC, total_games ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Wins, &e.TotalGames); err != nil {
			return nil, err
		}
		e.Rank = rank
		if e.TotalGames > 0 {
			e.WinRate = int(float64(e.Wins) / float64(e.TotalGames) * 100)
		}
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}
