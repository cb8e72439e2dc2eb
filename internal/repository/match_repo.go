package repository

import (
	"context"
	"errors"
	"time"

	"rps_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrPlayerInGame - игрок уже держит активную игру
	ErrPlayerInGame = errors.New("player already in a game")
	// ErrNoOpponent - в пуле никого нет
	ErrNoOpponent = errors.New("no waiting opponent")
	// ErrPairingConflict - проигран гонку за одного из игроков; caller retries
	ErrPairingConflict = errors.New("pairing conflict, retry")
)

// MatchRepository owns the waiting pool and the atomic pairing step.
// Pool membership lives as waiting/waiting_since fields on the player row;
// every mutation is a conditional update so concurrent matchmakers can never
// pair the same player twice.
type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Enqueue marks the player as waiting. Idempotent for an already-queued
// player; fails with ErrPlayerInGame when the player holds an active game.
func (r *MatchRepository) Enqueue(ctx context.Context, playerID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE players SET waiting = true, waiting_since = now()
		 WHERE id = $1 AND current_game_id IS NULL AND NOT waiting`,
		playerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing updated: already queued (fine) or already in a game.
	var waiting bool
	var gameID *string
	err = r.db.QueryRow(ctx,
		`SELECT waiting, current_game_id FROM players WHERE id = $1`,
		playerID,
	).Scan(&waiting, &gameID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if gameID != nil {
		return ErrPlayerInGame
	}
	return nil
}

// Remove takes the player out of the waiting pool. Idempotent.
func (r *MatchRepository) Remove(ctx context.Context, playerID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE players SET waiting = false, waiting_since = NULL
		 WHERE id = $1 AND waiting`,
		playerID,
	)
	return err
}

// PairOldest claims the earliest-queued other waiting player and creates an
// active game with both participants, all in one transaction:
//
//  1. dequeue the oldest other waiting player (FOR UPDATE SKIP LOCKED, so a
//     losing concurrent request simply sees nobody and falls back to queueing)
//  2. insert the game row
//  3. attach the game to both player rows; the requester's row is guarded by
//     current_game_id IS NULL, so a requester grabbed by a concurrent pairing
//     rolls everything back with ErrPairingConflict
//
// Returns ErrNoOpponent when the pool has nobody else.
func (r *MatchRepository) PairOldest(ctx context.Context, requester *domain.Player, gameID string) (*domain.Game, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oppID int64
	var oppName string
	err = tx.QueryRow(ctx,
		`UPDATE players SET waiting = false, waiting_since = NULL
		 WHERE id = (
			SELECT id FROM players
			WHERE waiting AND id <> $1
			ORDER BY waiting_since ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, username`,
		requester.ID,
	).Scan(&oppID, &oppName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoOpponent
	}
	if err != nil {
		return nil, err
	}

	g := &domain.Game{
		ID:          gameID,
		Player1ID:   oppID,
		Player2ID:   &requester.ID,
		Player1Name: oppName,
		Player2Name: requester.Username,
		Status:      domain.StatusActive,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO games (id, player1_id, player2_id, player1_name, player2_name, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		g.ID, g.Player1ID, g.Player2ID, g.Player1Name, g.Player2Name, g.Status,
	).Scan(&g.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE players SET current_game_id = $1 WHERE id = $2`,
		g.ID, oppID,
	); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE players SET current_game_id = $1, waiting = false, waiting_since = NULL
		 WHERE id = $2 AND current_game_id IS NULL`,
		g.ID, requester.ID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPairingConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// CountWaiting reports current pool size; used by readiness diagnostics.
func (r *MatchRepository) CountWaiting(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE waiting`).Scan(&n)
	return n, err
}

// ExpireStale drops pool entries older than ttl and returns how many were
// removed. Queue membership has no built-in expiry otherwise; a periodic
// sweep keeps vanished players from occupying slots forever.
func (r *MatchRepository) ExpireStale(ctx context.Context, ttl time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE players SET waiting = false, waiting_since = NULL
		 WHERE waiting AND waiting_since <= now() - make_interval(secs => $1)`,
		ttl.Seconds(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
