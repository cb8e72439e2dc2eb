package service

import (
	"context"
	"sync"
	"time"

	"rps_arena/internal/domain"
	"rps_arena/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. It mirrors
// their conditional-update semantics under one mutex: every mutation checks
// its guard and reports whether it happened, same as the SQL counterparts.
type memStore struct {
	mu      sync.Mutex
	players map[int64]*domain.Player
	games   map[string]*domain.Game
	history []*domain.GameHistory
}

func newMemStore() *memStore {
	return &memStore{
		players: make(map[int64]*domain.Player),
		games:   make(map[string]*domain.Game),
	}
}

func (m *memStore) addPlayer(id int64, username string) *domain.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &domain.Player{ID: id, Username: username, CreatedAt: time.Now()}
	m.players[id] = p
	return p
}

func (m *memStore) addGame(g *domain.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	m.games[g.ID] = g
}

func (m *memStore) player(id int64) *domain.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[id]
}

func (m *memStore) game(id string) *domain.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.games[id]
}

func (m *memStore) historyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// --- PlayerStore ---

func (m *memStore) GetByID(_ context.Context, id int64) (*domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ClearCurrentGame(_ context.Context, playerID int64, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if ok && p.CurrentGameID != nil && *p.CurrentGameID == gameID {
		p.CurrentGameID = nil
	}
	return nil
}

func (m *memStore) ApplyResult(_ context.Context, playerID int64, result domain.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return repository.ErrNotFound
	}
	switch result {
	case domain.GameResultWin:
		p.Wins++
	case domain.GameResultLose:
		p.Losses++
	case domain.GameResultDraw:
		p.Draws++
	default:
		return nil
	}
	p.TotalGames++
	return nil
}

// --- MatchStore ---

func (m *memStore) Enqueue(_ context.Context, playerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.CurrentGameID != nil {
		return repository.ErrPlayerInGame
	}
	if p.Waiting {
		return nil
	}
	now := time.Now()
	p.Waiting = true
	p.WaitingSince = &now
	return nil
}

func (m *memStore) Remove(_ context.Context, playerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[playerID]; ok {
		p.Waiting = false
		p.WaitingSince = nil
	}
	return nil
}

func (m *memStore) PairOldest(_ context.Context, requester *domain.Player, gameID string) (*domain.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var opp *domain.Player
	for _, p := range m.players {
		if !p.Waiting || p.ID == requester.ID {
			continue
		}
		if opp == nil || p.WaitingSince.Before(*opp.WaitingSince) {
			opp = p
		}
	}
	if opp == nil {
		return nil, repository.ErrNoOpponent
	}

	// The real transaction rolls back when the requester was claimed in the
	// meantime; here the guard just runs before any mutation.
	req, ok := m.players[requester.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.CurrentGameID != nil {
		return nil, repository.ErrPairingConflict
	}

	opp.Waiting = false
	opp.WaitingSince = nil

	g := &domain.Game{
		ID:          gameID,
		Player1ID:   opp.ID,
		Player2ID:   &req.ID,
		Player1Name: opp.Username,
		Player2Name: req.Username,
		Status:      domain.StatusActive,
		CreatedAt:   time.Now(),
	}
	m.games[gameID] = g

	opp.CurrentGameID = &g.ID
	req.CurrentGameID = &g.ID
	req.Waiting = false
	req.WaitingSince = nil

	cp := *g
	return &cp, nil
}

// --- GameStore ---

func (m *memStore) Get(_ context.Context, id string) (*domain.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, g *domain.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	cp := *g
	m.games[g.ID] = &cp
	return nil
}

func (m *memStore) SetMove(_ context.Context, gameID string, slot int, move string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok || g.Status != domain.StatusActive {
		return false, nil
	}
	if slot == 1 {
		if g.Player1Move != nil {
			return false, nil
		}
		g.Player1Move = &move
	} else {
		if g.Player2Move != nil {
			return false, nil
		}
		g.Player2Move = &move
	}
	return true, nil
}

func (m *memStore) Complete(_ context.Context, gameID, winner string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok || g.Status != domain.StatusActive || g.Player1Move == nil || g.Player2Move == nil {
		return false, nil
	}
	now := time.Now()
	g.Status = domain.StatusCompleted
	g.Winner = &winner
	g.CompletedAt = &now
	return true, nil
}

func (m *memStore) Expire(_ context.Context, gameID string, olderThan time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok || g.Status != domain.StatusActive || time.Since(g.CreatedAt) < olderThan {
		return false, nil
	}
	now := time.Now()
	winner := domain.WinnerTimeout
	g.Status = domain.StatusTimeout
	g.Winner = &winner
	g.CompletedAt = &now
	return true, nil
}

// historyStore adapts memStore to the HistoryStore interface without
// colliding with GameStore's Create.
type historyStore struct{ m *memStore }

func (s historyStore) Create(_ context.Context, h *domain.GameHistory) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *h
	cp.ID = int64(len(s.m.history) + 1)
	cp.CreatedAt = time.Now()
	s.m.history = append(s.m.history, &cp)
	return nil
}

// recordingNotifier captures pushed events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifyEvent
}

type notifyEvent struct {
	PlayerID int64
	Event    string
	Payload  any
}

func (n *recordingNotifier) Notify(playerID int64, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifyEvent{PlayerID: playerID, Event: event, Payload: payload})
}

func (n *recordingNotifier) all() []notifyEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifyEvent(nil), n.events...)
}

func (n *recordingNotifier) count(event string) int {
	c := 0
	for _, e := range n.all() {
		if e.Event == event {
			c++
		}
	}
	return c
}
