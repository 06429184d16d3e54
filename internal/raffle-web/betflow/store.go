package betflow

import "sync"

// Store mantém os carrinhos por visitante (cookie de sessão). Estado
// efêmero: vive só em memória e morre com o processo.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get retorna o carrinho do visitante, criando se necessário.
func (s *Store) Get(visitorID string) *Cart {
	s.mu.RLock()
	c, ok := s.carts[visitorID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[visitorID]; ok {
		return c
	}
	c = &Cart{}
	s.carts[visitorID] = c
	return c
}
