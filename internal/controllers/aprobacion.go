package controllers

import (
	"context"
	"log"

	"github.com/pminsight/client/internal/api"
	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/models"
	"github.com/pminsight/client/internal/session"
	"github.com/pminsight/client/internal/workflow"
)

// Aprobacion is the final-approval screen for submitted liquidations,
// available to Jefe de Proyecto and Administrador.
type Aprobacion struct {
	repo LiquidationRepository
	bus  *eventbus.Bus
	sess *session.Session
	list list[models.Liquidation]
	subs subscriptions
}

// NewAprobacion mounts the screen; presentations made on the liquidation
// screen land here without manual refresh.
func NewAprobacion(repo LiquidationRepository, bus *eventbus.Bus, sess *session.Session) *Aprobacion {
	c := &Aprobacion{repo: repo, bus: bus, sess: sess}
	c.subs.add(bus.Subscribe(eventbus.TopicLiquidationSubmitted, func(eventbus.Event) {
		if err := c.Load(context.Background()); err != nil {
			log.Printf("[APROBACION] Reload after event failed: %v", err)
		}
	}))
	return c
}

// Load fetches liquidations awaiting approval.
func (c *Aprobacion) Load(ctx context.Context) error {
	ticket := c.list.begin()
	items, err := c.repo.ListLiquidations(ctx, models.StateLiquidationSubmitted)
	if err != nil {
		c.list.fail(ticket)
		return err
	}
	if !c.list.install(ticket, items) {
		log.Printf("[APROBACION] Discarded stale fetch %d", ticket)
	}
	return nil
}

// Liquidations returns the current list snapshot.
func (c *Aprobacion) Liquidations() []models.Liquidation {
	return c.list.snapshot()
}

// Loading reports whether a fetch is outstanding.
func (c *Aprobacion) Loading() bool {
	return c.list.Loading()
}

// Approve is the terminal success transition.
func (c *Aprobacion) Approve(ctx context.Context, id int) error {
	return c.act(ctx, id, workflow.ActionAprobar, "aprobar", eventbus.TopicLiquidationApproved)
}

// Reject is the terminal failure transition; the item stays server-side,
// it is never deleted client-side.
func (c *Aprobacion) Reject(ctx context.Context, id int) error {
	return c.act(ctx, id, workflow.ActionRechazar, "rechazar", eventbus.TopicLiquidationRejected)
}

func (c *Aprobacion) act(ctx context.Context, id int, action workflow.Action, accion string, topic eventbus.Topic) error {
	p := c.sess.Principal()
	if p == nil {
		return api.ErrSessionExpired
	}
	var liq *models.Liquidation
	for _, item := range c.list.snapshot() {
		if item.ID == id {
			l := item
			liq = &l
			break
		}
	}
	if liq == nil || !workflow.CanTransition(liq.State, p.Role, action) {
		return ErrForbidden
	}

	c.list.drop(liqByID(id))
	updated, err := c.repo.LiquidationAction(ctx, id, accion)
	if err != nil {
		c.list.mu.Lock()
		c.list.items = append(c.list.items, *liq)
		c.list.mu.Unlock()
		return err
	}
	c.bus.Publish(eventbus.Event{
		Topic:    topic,
		Sequence: updated.Sequence,
		State:    updated.State,
	})
	return nil
}

// Close releases the screen's bus subscriptions.
func (c *Aprobacion) Close() {
	c.subs.release()
}
