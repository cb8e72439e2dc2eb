package service

import (
	"context"
	"strings"
	"testing"

	"rps_arena/internal/domain"
	"rps_arena/internal/game"
)

// fixedSource always plays the same move.
type fixedSource struct{ move string }

func (s fixedSource) Move() string { return s.move }

func TestPracticePlay_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		move    string
		botMove string
		result  domain.GameResult
	}{
		{"win", game.MoveRock, game.MoveScissors, domain.GameResultWin},
		{"lose", game.MoveRock, game.MovePaper, domain.GameResultLose},
		{"draw", game.MovePaper, game.MovePaper, domain.GameResultDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newMemStore()
			ms.addPlayer(1, "alice")

			svc := NewPracticeService(ms, ms, historyStore{ms}, fixedSource{tt.botMove})

			res, err := svc.Play(context.Background(), 1, tt.move)
			if err != nil {
				t.Fatalf("play: %v", err)
			}
			if res.Result != tt.result {
				t.Errorf("result = %q, want %q", res.Result, tt.result)
			}
			if res.YourMove != tt.move || res.OpponentMove != tt.botMove {
				t.Errorf("moves = %q vs %q", res.YourMove, res.OpponentMove)
			}
			if !strings.HasPrefix(res.OpponentName, "Computer_") {
				t.Errorf("opponent name = %q", res.OpponentName)
			}

			// The game is persisted already terminal.
			g := ms.game(res.GameID)
			if g == nil || g.Status != domain.StatusCompleted {
				t.Fatalf("expected a completed game, got %+v", g)
			}
			if g.Player2ID != nil {
				t.Error("computer opponent must not reference a player row")
			}

			p := ms.player(1)
			if p.TotalGames != 1 {
				t.Errorf("total_games = %d, want 1", p.TotalGames)
			}
			if ms.historyCount() != 1 {
				t.Errorf("history entries = %d, want 1", ms.historyCount())
			}
		})
	}
}

func TestPracticePlay_InvalidMove(t *testing.T) {
	ms := newMemStore()
	ms.addPlayer(1, "alice")
	svc := NewPracticeService(ms, ms, historyStore{ms}, fixedSource{game.MoveRock})

	if _, err := svc.Play(context.Background(), 1, "Rock"); err != ErrInvalidMove {
		t.Fatalf("err = %v, want ErrInvalidMove", err)
	}
}

func TestPracticePlay_UnknownPlayer(t *testing.T) {
	ms := newMemStore()
	svc := NewPracticeService(ms, ms, historyStore{ms}, fixedSource{game.MoveRock})

	if _, err := svc.Play(context.Background(), 7, game.MoveRock); err != ErrPlayerNotFound {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}
