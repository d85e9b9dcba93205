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

// LiquidationRepository is the slice of the API client the liquidation
// screens consume.
type LiquidationRepository interface {
	ListLiquidations(ctx context.Context, estado models.State) ([]models.Liquidation, error)
	GetLiquidation(ctx context.Context, id int) (*models.Liquidation, error)
	LiquidationAction(ctx context.Context, id int, accion string) (*models.Liquidation, error)
}

// Liquidaciones is the requester's liquidation screen: attended requests
// whose documentation bundle must be presented for approval.
type Liquidaciones struct {
	repo LiquidationRepository
	bus  *eventbus.Bus
	sess *session.Session
	list list[models.Liquidation]
	subs subscriptions
}

// NewLiquidaciones mounts the screen and tracks attention decisions made
// elsewhere.
func NewLiquidaciones(repo LiquidationRepository, bus *eventbus.Bus, sess *session.Session) *Liquidaciones {
	c := &Liquidaciones{repo: repo, bus: bus, sess: sess}
	for _, topic := range []eventbus.Topic{
		eventbus.TopicRequestAttended,
		eventbus.TopicLiquidationApproved,
		eventbus.TopicLiquidationRejected,
	} {
		c.subs.add(bus.Subscribe(topic, func(eventbus.Event) {
			if err := c.Load(context.Background()); err != nil {
				log.Printf("[LIQUIDACIONES] Reload after event failed: %v", err)
			}
		}))
	}
	return c
}

// Load fetches liquidations pending documentation.
func (c *Liquidaciones) Load(ctx context.Context) error {
	ticket := c.list.begin()
	items, err := c.repo.ListLiquidations(ctx, models.StateAttendedPendingLiquidation)
	if err != nil {
		c.list.fail(ticket)
		return err
	}
	if !c.list.install(ticket, items) {
		log.Printf("[LIQUIDACIONES] Discarded stale fetch %d", ticket)
	}
	return nil
}

// Liquidations returns the current list snapshot.
func (c *Liquidaciones) Liquidations() []models.Liquidation {
	return c.list.snapshot()
}

// Loading reports whether a fetch is outstanding.
func (c *Liquidaciones) Loading() bool {
	return c.list.Loading()
}

// Present submits the documented liquidation for approval. The ownership
// and role check runs through the central guard against the parent
// request's lifecycle state.
func (c *Liquidaciones) Present(ctx context.Context, id int, parent *models.Request) error {
	p := c.sess.Principal()
	if p == nil {
		return api.ErrSessionExpired
	}
	if parent == nil || !workflow.CanAct(parent, p, workflow.ActionPresentarDoc) {
		return ErrForbidden
	}

	prev, patched := c.list.patch(liqByID(id), func(l models.Liquidation) models.Liquidation {
		l.State = models.StateLiquidationSubmitted
		return l
	})
	updated, err := c.repo.LiquidationAction(ctx, id, "presentar")
	if err != nil {
		if patched {
			c.list.replace(liqByID(id), prev)
		}
		return err
	}
	c.list.replace(liqByID(id), *updated)
	c.bus.Publish(eventbus.Event{
		Topic:    eventbus.TopicLiquidationSubmitted,
		Sequence: updated.Sequence,
		State:    updated.State,
	})
	return nil
}

// Close releases the screen's bus subscriptions.
func (c *Liquidaciones) Close() {
	c.subs.release()
}

func liqByID(id int) func(models.Liquidation) bool {
	return func(l models.Liquidation) bool { return l.ID == id }
}
