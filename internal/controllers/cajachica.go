package controllers

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pminsight/client/internal/cashbox"
	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/models"
	"github.com/pminsight/client/internal/session"
)

// CashBoxRepository is the slice of the API client the caja screen
// consumes.
type CashBoxRepository interface {
	GetCashBox(ctx context.Context, fecha string) (*models.CashBox, error)
	AddCashBoxMovement(ctx context.Context, boxID int, tipo models.MovementType, concepto string, monto decimal.Decimal, docName string, doc io.Reader) (*models.Movement, error)
	CloseCashBox(ctx context.Context, boxID int) (*models.CashBox, error)
}

// CajaChica mirrors the day's cash box. The local ledger validates and
// tracks movements; the server copy remains authoritative and replaces
// the mirror after every successful mutation.
type CajaChica struct {
	repo CashBoxRepository
	bus  *eventbus.Bus
	sess *session.Session

	mu     sync.Mutex
	ledger *cashbox.Ledger
}

// NewCajaChica mounts the screen.
func NewCajaChica(repo CashBoxRepository, bus *eventbus.Bus, sess *session.Session) *CajaChica {
	return &CajaChica{repo: repo, bus: bus, sess: sess}
}

// Load fetches the cash box for fecha (today when empty) and rebuilds the
// local ledger from server truth.
func (c *CajaChica) Load(ctx context.Context, fecha string) error {
	box, err := c.repo.GetCashBox(ctx, fecha)
	if err != nil {
		return err
	}
	c.install(*box)
	return nil
}

func (c *CajaChica) install(box models.CashBox) {
	actor := models.PrincipalRef{}
	if p := c.sess.Principal(); p != nil {
		actor = models.PrincipalRef{ID: p.ID, DisplayName: p.DisplayName}
	}
	c.mu.Lock()
	c.ledger = cashbox.New(box, actor)
	c.mu.Unlock()
}

// Box returns a snapshot of the mirrored cash box.
func (c *CajaChica) Box() (models.CashBox, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ledger == nil {
		return models.CashBox{}, false
	}
	return c.ledger.Box(), true
}

// Totals recomputes ingresos, egresos and saldo from the movement list.
func (c *CajaChica) Totals() (ingresos, egresos, saldo decimal.Decimal, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ledger == nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, false
	}
	return c.ledger.Ingresos(), c.ledger.Egresos(), c.ledger.Saldo(), true
}

// AddMovement validates the movement against the local ledger rules first
// (positive amount, non-empty concept, open box) and only then posts it.
// The server's movement record replaces the optimistic one.
func (c *CajaChica) AddMovement(ctx context.Context, tipo models.MovementType, concepto string, monto decimal.Decimal, docName string, doc io.Reader) error {
	c.mu.Lock()
	ledger := c.ledger
	c.mu.Unlock()
	if ledger == nil {
		return ErrForbidden
	}

	// Local validation runs before any network call.
	probe := cashbox.New(ledger.Box(), models.PrincipalRef{})
	if _, err := probe.RecordMovement(tipo, concepto, monto, docName); err != nil {
		return err
	}

	box := ledger.Box()
	movement, err := c.repo.AddCashBoxMovement(ctx, box.ID, tipo, concepto, monto, docName, doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.ledger != nil {
		if _, recErr := c.ledger.RecordMovement(movement.Type, movement.Concept, movement.Amount, movement.Document); recErr != nil {
			log.Printf("[CAJA] Mirror out of sync after movement: %v", recErr)
		}
	}
	c.mu.Unlock()

	c.bus.Publish(eventbus.Event{Topic: eventbus.TopicCashBoxMovement})
	return nil
}

// CloseBox closes the day's box. Once closed no further movements are
// accepted, locally or server-side.
func (c *CajaChica) CloseBox(ctx context.Context) error {
	c.mu.Lock()
	ledger := c.ledger
	c.mu.Unlock()
	if ledger == nil || ledger.Closed() {
		return cashbox.ErrClosedBox
	}

	box := ledger.Box()
	closed, err := c.repo.CloseCashBox(ctx, box.ID)
	if err != nil {
		return err
	}
	c.install(*closed)
	c.bus.Publish(eventbus.Event{Topic: eventbus.TopicCashBoxClosed})
	return nil
}

// Close releases screen resources. The caja screen holds no bus
// subscriptions; it is the only writer of its slice.
func (c *CajaChica) Close() {}
