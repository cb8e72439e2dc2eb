package repository

import (
	"context"

	"rps_arena/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HistoryRepository struct {
	db *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create сохраняет запись игры в историю
func (r *HistoryRepository) Create(ctx context.Context, h *domain.GameHistory) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO game_history
			(user_id, game_id, opponent_name, your_move, opponent_move, result)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		h.UserID,
		h.GameID,
		h.OpponentName,
		h.YourMove,
		h.OpponentMove,
		h.Result,
	).Scan(&h.ID, &h.CreatedAt)
}

// GetByUser возвращает историю игр пользователя
func (r *HistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, game_id, opponent_name, your_move, opponent_move, result, created_at
		 FROM game_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.GameHistory
	for rows.Next() {
		var h domain.GameHistory
		if err := rows.Scan(
			&h.ID,
			&h.UserID,
			&h.GameID,
			&h.OpponentName,
			&h.YourMove,
			&h.OpponentMove,
			&h.Result,
			&h.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, &h)
	}
	return res, rows.Err()
}
