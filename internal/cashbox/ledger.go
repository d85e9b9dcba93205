// Package cashbox maintains the day-scoped petty cash ledger. Movements
// are append-only until closure; totals are recomputed from the movement
// list on every read so stored aggregates can never drift.
package cashbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pminsight/client/internal/models"
)

// ErrClosedBox is returned by any mutation attempted after closure.
var ErrClosedBox = errors.New("cashbox: box is closed")

// ValidationError reports a rejected movement before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cashbox: invalid %s: %s", e.Field, e.Reason)
}

// Ledger wraps one cash box instance with its mutation guard.
type Ledger struct {
	box   models.CashBox
	actor models.PrincipalRef
}

// New opens a ledger over box for the given actor.
func New(box models.CashBox, actor models.PrincipalRef) *Ledger {
	return &Ledger{box: box, actor: actor}
}

// Box returns a snapshot of the underlying cash box.
func (l *Ledger) Box() models.CashBox {
	snap := l.box
	snap.Movements = append([]models.Movement(nil), l.box.Movements...)
	return snap
}

// Closed reports whether the box accepts no further movements.
func (l *Ledger) Closed() bool {
	return l.box.Closed
}

// RecordMovement appends a movement to an open box. The movement is
// validated before any mutation: amount must be positive and the concept
// non-empty.
func (l *Ledger) RecordMovement(tipo models.MovementType, concepto string, monto decimal.Decimal, documento string) (models.Movement, error) {
	if l.box.Closed {
		return models.Movement{}, ErrClosedBox
	}
	if tipo != models.MovementIngreso && tipo != models.MovementEgreso {
		return models.Movement{}, &ValidationError{Field: "tipo", Reason: "must be Ingreso or Egreso"}
	}
	if concepto == "" {
		return models.Movement{}, &ValidationError{Field: "concepto", Reason: "must not be empty"}
	}
	if !monto.IsPositive() {
		return models.Movement{}, &ValidationError{Field: "monto", Reason: "must be greater than zero"}
	}

	m := models.Movement{
		ID:        len(l.box.Movements) + 1,
		Type:      tipo,
		Concept:   concepto,
		Amount:    monto,
		Document:  documento,
		Actor:     l.actor,
		CreatedAt: time.Now(),
	}
	l.box.Movements = append(l.box.Movements, m)
	return m, nil
}

// Ingresos recomputes the sum of Ingreso movements.
func (l *Ledger) Ingresos() decimal.Decimal {
	return l.sum(models.MovementIngreso)
}

// Egresos recomputes the sum of Egreso movements.
func (l *Ledger) Egresos() decimal.Decimal {
	return l.sum(models.MovementEgreso)
}

// Saldo is opening balance + ingresos - egresos at the time of the call.
func (l *Ledger) Saldo() decimal.Decimal {
	return l.box.OpeningBalance.Add(l.Ingresos()).Sub(l.Egresos())
}

func (l *Ledger) sum(tipo models.MovementType) decimal.Decimal {
	total := decimal.Zero
	for _, m := range l.box.Movements {
		if m.Type == tipo {
			total = total.Add(m.Amount)
		}
	}
	return total
}

// Close freezes the box and returns it with the final balance computed
// from the movement list. Closing twice is an error.
func (l *Ledger) Close() (models.CashBox, error) {
	if l.box.Closed {
		return models.CashBox{}, ErrClosedBox
	}
	l.box.Closed = true
	return l.Box(), nil
}
