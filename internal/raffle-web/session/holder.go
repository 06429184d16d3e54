package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TokenStorage é o armazenamento durável do token de admin, pra sessão
// sobreviver a restart do frontend (análogo ao localStorage do navegador).
type TokenStorage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Holder guarda o token da sessão admin. Estados: anônimo (token vazio) e
// autenticado. Presença de token armazenado implica autenticado, sem
// verificação no servidor; expiração é detectada reativamente via 401.
type Holder struct {
	mu      sync.RWMutex
	token   string
	storage TokenStorage
	log     *zap.Logger
}

// NewHolder reconstrói o estado lendo o armazenamento na inicialização.
func NewHolder(ctx context.Context, storage TokenStorage, log *zap.Logger) *Holder {
	h := &Holder{storage: storage, log: log}
	t, err := storage.Load(ctx)
	if err != nil {
		log.Warn("session storage load failed", zap.Error(err))
		return h
	}
	h.token = t
	return h
}

// Login sobrescreve qualquer token anterior; não há multi-sessão.
func (h *Holder) Login(ctx context.Context, token string) {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
	if err := h.storage.Save(ctx, token); err != nil {
		h.log.Warn("session storage save failed", zap.Error(err))
	}
}

// Logout limpa token e armazenamento.
func (h *Holder) Logout(ctx context.Context) {
	h.mu.Lock()
	h.token = ""
	h.mu.Unlock()
	if err := h.storage.Clear(ctx); err != nil {
		h.log.Warn("session storage clear failed", zap.Error(err))
	}
}

func (h *Holder) Authenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token != ""
}

// Token implementa api.TokenSource.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Clear implementa api.TokenSource; chamado pelo client ao receber 401.
func (h *Holder) Clear() {
	h.Logout(context.Background())
}
