package word

import "sync"

// Store holds every live room keyed by room id.
type Store struct {
	mu    sync.Mutex
	games map[string]*Game
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]*Game),
	}
}

func (s *Store) AddGame(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
}

func (s *Store) GetGame(id string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *Store) DeleteGame(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Counts returns the number of live rooms and the total players across them.
func (s *Store) Counts() (games, players int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		games++
		players += len(g.Players)
	}
	return games, players
}
