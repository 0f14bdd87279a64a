// Package form mantiene el estado del formulario de cliente de una sesión.
package form

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/outrix/churn-predictor/internal/domain"
	"github.com/outrix/churn-predictor/internal/domain/entity"
)

// Store guarda un CustomerProfile y aplica actualizaciones campo a campo.
// Es seguro para uso concurrente.
type Store struct {
	mu      sync.RWMutex
	profile entity.CustomerProfile
}

// NewStore crea un store con el perfil por defecto.
func NewStore() *Store {
	return &Store{profile: entity.DefaultCustomerProfile()}
}

// Profile devuelve una copia del perfil actual.
func (s *Store) Profile() entity.CustomerProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Reset restaura los valores por defecto.
func (s *Store) Reset() {
	s.mu.Lock()
	s.profile = entity.DefaultCustomerProfile()
	s.mu.Unlock()
}

// UpdateField reemplaza un único campo con el valor crudo de un control de entrada.
// Los campos numéricos que no se pueden parsear quedan en cero; el resto se guarda tal cual.
// Solo devuelve error si el nombre del campo no existe, en cuyo caso el perfil no cambia.
func (s *Store) UpdateField(name, raw string) error {
	field, ok := entity.ParseField(name)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &s.profile
	switch field {
	case entity.FieldGender:
		p.Gender = entity.Gender(raw)
	case entity.FieldAge:
		p.Age = parseInt(raw)
	case entity.FieldTenureMonths:
		p.TenureMonths = parseInt(raw)
	case entity.FieldMonthlyCharges:
		p.MonthlyCharges = parseDecimal(raw)
	case entity.FieldTotalCharges:
		p.TotalCharges = parseDecimal(raw)
	case entity.FieldInternetService:
		p.InternetService = entity.InternetService(raw)
	case entity.FieldContractType:
		p.ContractType = entity.ContractType(raw)
	case entity.FieldPaymentMethod:
		p.PaymentMethod = raw
	case entity.FieldPaperlessBilling:
		p.PaperlessBilling = entity.YesNo(raw)
	case entity.FieldTechSupport:
		p.TechSupport = entity.YesNo(raw)
	case entity.FieldOnlineBackup:
		p.OnlineBackup = entity.YesNo(raw)
	}
	return nil
}

// parseInt acepta enteros y también decimales ("12.7" -> 12). Cualquier otra cosa es 0.
func parseInt(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return int(d.IntPart())
	}
	return 0
}

func parseDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}
