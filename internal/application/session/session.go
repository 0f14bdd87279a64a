// Package session contiene el estado de UI de cada navegador: formulario,
// indicador de carga, último resultado y aviso de fallo.
package session

import (
	"sync"
	"time"

	"github.com/outrix/churn-predictor/internal/application/form"
	"github.com/outrix/churn-predictor/internal/domain"
	"github.com/outrix/churn-predictor/internal/domain/entity"
)

// Snapshot vista consistente del estado de una sesión en un instante.
type Snapshot struct {
	Profile entity.CustomerProfile
	Result  *entity.PredictionResult
	Loading bool
	Notice  string
}

// Session contenedor de estado inyectable. Sustituye a las variables globales de la UI.
type Session struct {
	id    string
	store *form.Store

	mu       sync.Mutex
	result   *entity.PredictionResult
	loading  bool
	notice   string
	lastSeen time.Time
}

// New crea una sesión con el perfil por defecto.
func New(id string, now time.Time) *Session {
	return &Session{id: id, store: form.NewStore(), lastSeen: now}
}

// ID identificador de la sesión (cookie).
func (s *Session) ID() string { return s.id }

// Store formulario de la sesión.
func (s *Session) Store() *form.Store { return s.store }

// Begin marca la sesión como ocupada. El envío no es reentrante: si ya hay
// una predicción en curso devuelve domain.ErrBusy y no cambia nada.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return domain.ErrBusy
	}
	s.loading = true
	return nil
}

// Finish libera la sesión. Con result != nil reemplaza el resultado y limpia el aviso;
// con result == nil descarta el resultado anterior y deja notice como aviso de fallo.
func (s *Session) Finish(result *entity.PredictionResult, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.result = result
	if result != nil {
		s.notice = ""
		return
	}
	s.notice = notice
}

// Reset vuelve al perfil por defecto y borra resultado y aviso.
// No interrumpe una predicción en curso.
func (s *Session) Reset() {
	s.store.Reset()
	s.mu.Lock()
	s.result = nil
	s.notice = ""
	s.mu.Unlock()
}

// DismissNotice borra el aviso de fallo tras mostrarlo.
func (s *Session) DismissNotice() {
	s.mu.Lock()
	s.notice = ""
	s.mu.Unlock()
}

// Snapshot devuelve el estado actual para renderizar.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Profile: s.store.Profile(),
		Result:  s.result,
		Loading: s.loading,
		Notice:  s.notice,
	}
}

// Result último resultado o nil.
func (s *Session) Result() *entity.PredictionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen), s.loading
}
