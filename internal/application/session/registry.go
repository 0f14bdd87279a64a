package session

import (
	"context"
	"sync"
	"time"
)

// Registry sesiones activas indexadas por id de cookie.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry construye el registro; las sesiones sin actividad durante ttl se eliminan en Sweep.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Get devuelve la sesión del id, creándola con valores por defecto si no existe.
func (r *Registry) Get(id string) *Session {
	now := r.now()
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		s = New(id, now)
		r.sessions[id] = s
	}
	r.mu.Unlock()
	s.touch(now)
	return s
}

// Len número de sesiones vivas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep elimina sesiones inactivas más allá del TTL. Nunca elimina una sesión con
// una predicción en curso. Devuelve cuántas se eliminaron.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		idle, loading := s.idleSince(now)
		if loading || idle < r.ttl {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	return removed
}

// Run ejecuta Sweep periódicamente hasta que ctx se cancele.
func (r *Registry) Run(ctx context.Context, period time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
