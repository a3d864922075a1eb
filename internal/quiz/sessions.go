package quiz

import "sync"

// Sessions активные игры по chat id. Игры живут в памяти и теряются при рестарте.
type Sessions struct {
	mu    sync.Mutex
	games map[int64]*Game
}

func NewSessions() *Sessions {
	return &Sessions{games: make(map[int64]*Game)}
}

func (s *Sessions) Get(chatID int64) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[chatID]
	return g, ok
}

func (s *Sessions) Put(chatID int64, g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[chatID] = g
}

func (s *Sessions) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, chatID)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}
