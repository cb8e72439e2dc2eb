package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"rps_arena/internal/domain"
)

func TestRequestMatch_EmptyPoolQueues(t *testing.T) {
	ms := newMemStore()
	ms.addPlayer(1, "alice")

	svc := NewMatchService(ms, ms, ms, nil)

	res, err := svc.RequestMatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("request match: %v", err)
	}
	if res.Matched {
		t.Fatalf("expected to be queued, got matched: %+v", res)
	}
	if !ms.player(1).Waiting {
		t.Fatal("player should be in the waiting pool")
	}
}

func TestRequestMatch_PairsWithWaiting(t *testing.T) {
	ms := newMemStore()
	ms.addPlayer(1, "alice")
	ms.addPlayer(2, "bob")

	notifier := &recordingNotifier{}
	svc := NewMatchService(ms, ms, ms, notifier)
	ctx := context.Background()

	if res, err := svc.RequestMatch(ctx, 1); err != nil || res.Matched {
		t.Fatalf("first request should queue: res=%+v err=%v", res, err)
	}

	res, err := svc.RequestMatch(ctx, 2)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if !res.Matched {
		t.Fatalf("second request should match: %+v", res)
	}
	if res.OpponentName != "alice" {
		t.Errorf("opponent name = %q, want alice", res.OpponentName)
	}

	g := ms.game(res.GameID)
	if g == nil || g.Status != domain.StatusActive {
		t.Fatalf("expected an active game, got %+v", g)
	}
	if g.Player1ID != 1 || g.Player2ID == nil || *g.Player2ID != 2 {
		t.Errorf("wrong participants: %+v", g)
	}

	for _, id := range []int64{1, 2} {
		p := ms.player(id)
		if p.CurrentGameID == nil || *p.CurrentGameID != res.GameID {
			t.Errorf("player %d not attached to game", id)
		}
		if p.Waiting {
			t.Errorf("player %d still waiting after pairing", id)
		}
	}

	// The waiting side learns about the match via push.
	events := notifier.all()
	if len(events) != 1 || events[0].PlayerID != 1 || events[0].Event != EventMatchFound {
		t.Errorf("expected one match_found push for player 1, got %+v", events)
	}
}

func TestRequestMatch_PicksOldestWaiting(t *testing.T) {
	ms := newMemStore()
	a := ms.addPlayer(1, "first")
	b := ms.addPlayer(2, "second")
	ms.addPlayer(3, "requester")

	t0 := time.Now().Add(-2 * time.Minute)
	t1 := time.Now().Add(-1 * time.Minute)
	a.Waiting, a.WaitingSince = true, &t0
	b.Waiting, b.WaitingSince = true, &t1

	svc := NewMatchService(ms, ms, ms, nil)

	res, err := svc.RequestMatch(context.Background(), 3)
	if err != nil {
		t.Fatalf("request match: %v", err)
	}
	if !res.Matched || res.OpponentName != "first" {
		t.Fatalf("expected pairing with the longest-waiting player, got %+v", res)
	}
	if !ms.player(2).Waiting {
		t.Error("second-oldest player should remain queued")
	}
}

func TestRequestMatch_ReentrantReturnsCurrentGame(t *testing.T) {
	ms := newMemStore()
	ms.addPlayer(1, "alice")
	ms.addPlayer(2, "bob")

	svc := NewMatchService(ms, ms, ms, nil)
	ctx := context.Background()

	_, _ = svc.RequestMatch(ctx, 1)
	first, err := svc.RequestMatch(ctx, 2)
	if err != nil || !first.Matched {
		t.Fatalf("pairing failed: res=%+v err=%v", first, err)
	}

	// Asking again mid-game must return the same game, not re-queue.
	again, err := svc.RequestMatch(ctx, 2)
	if err != nil {
		t.Fatalf("re-entrant request: %v", err)
	}
	if !again.Matched || again.GameID != first.GameID {
		t.Errorf("expected same game back, got %+v", again)
	}
	if len(ms.games) != 1 {
		t.Errorf("expected exactly one game, got %d", len(ms.games))
	}
}

func TestRequestMatch_ClearsDanglingGameReference(t *testing.T) {
	ms := newMemStore()
	p := ms.addPlayer(1, "alice")

	winner := domain.WinnerPlayer1
	done := &domain.Game{
		ID:          "finished",
		Player1ID:   1,
		Player1Name: "alice",
		Status:      domain.StatusCompleted,
		Winner:      &winner,
	}
	ms.addGame(done)
	p.CurrentGameID = &done.ID

	svc := NewMatchService(ms, ms, ms, nil)

	res, err := svc.RequestMatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("request match: %v", err)
	}
	if res.Matched {
		t.Fatalf("stale reference must not count as a match: %+v", res)
	}
	if ms.player(1).CurrentGameID != nil {
		t.Error("dangling game reference should have been cleared")
	}
	if !ms.player(1).Waiting {
		t.Error("player should be re-queued after clearing the reference")
	}
}

func TestRequestMatch_PlayerNotFound(t *testing.T) {
	ms := newMemStore()
	svc := NewMatchService(ms, ms, ms, nil)

	if _, err := svc.RequestMatch(context.Background(), 99); err != ErrPlayerNotFound {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

// Fire many concurrent requests and verify nobody ends up in two games and
// every created game references exactly two attached players.
func TestRequestMatch_ConcurrentRequestsConsistent(t *testing.T) {
	const n = 20

	ms := newMemStore()
	for i := int64(1); i <= n; i++ {
		ms.addPlayer(i, "p")
	}

	svc := NewMatchService(ms, ms, ms, nil)

	var wg sync.WaitGroup
	for i := int64(1); i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := svc.RequestMatch(context.Background(), id); err != nil {
				t.Errorf("player %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]string)
	for gid, g := range ms.games {
		if g.Player2ID == nil {
			t.Fatalf("game %s has no second player", gid)
		}
		for _, pid := range []int64{g.Player1ID, *g.Player2ID} {
			if other, dup := seen[pid]; dup {
				t.Fatalf("player %d is in both %s and %s", pid, other, gid)
			}
			seen[pid] = gid
			p := ms.player(pid)
			if p.CurrentGameID == nil || *p.CurrentGameID != gid {
				t.Errorf("player %d not attached to its game %s", pid, gid)
			}
		}
	}

	// Everyone is either in a game or still waiting, never both.
	for i := int64(1); i <= n; i++ {
		p := ms.player(i)
		if p.Waiting && p.CurrentGameID != nil {
			t.Errorf("player %d is waiting while in a game", i)
		}
	}
}

func TestLeaveQueue_Idempotent(t *testing.T) {
	ms := newMemStore()
	ms.addPlayer(1, "alice")

	svc := NewMatchService(ms, ms, ms, nil)
	ctx := context.Background()

	if _, err := svc.RequestMatch(ctx, 1); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := svc.LeaveQueue(ctx, 1); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if ms.player(1).Waiting {
		t.Fatal("player should have left the pool")
	}
	// Second leave is a no-op.
	if err := svc.LeaveQueue(ctx, 1); err != nil {
		t.Fatalf("repeat leave: %v", err)
	}
}
