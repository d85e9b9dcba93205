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

// Atencion is the reviewer's screen: requests awaiting a Jefe de Proyecto
// decision, filtered to the authenticated destinatario.
type Atencion struct {
	repo RequestRepository
	bus  *eventbus.Bus
	sess *session.Session
	list list[models.Request]
	subs subscriptions
}

// NewAtencion mounts the screen. Sent requests appearing elsewhere must
// show up here without a manual refresh, so it listens for requestSent.
func NewAtencion(repo RequestRepository, bus *eventbus.Bus, sess *session.Session) *Atencion {
	c := &Atencion{repo: repo, bus: bus, sess: sess}
	c.subs.add(bus.Subscribe(eventbus.TopicRequestSent, func(eventbus.Event) {
		if err := c.Load(context.Background()); err != nil {
			log.Printf("[ATENCION] Reload after event failed: %v", err)
		}
	}))
	return c
}

// Load fetches the reviewer's pending-attention slice.
func (c *Atencion) Load(ctx context.Context) error {
	ticket := c.list.begin()
	p := c.sess.Principal()
	if p == nil {
		c.list.fail(ticket)
		return api.ErrSessionExpired
	}
	items, err := c.repo.ListPendingRequests(ctx, p.ID, models.StatePendingAttention)
	if err != nil {
		c.list.fail(ticket)
		return err
	}
	if !c.list.install(ticket, items) {
		log.Printf("[ATENCION] Discarded stale fetch %d", ticket)
	}
	return nil
}

// Requests returns the current list snapshot.
func (c *Atencion) Requests() []models.Request {
	return c.list.snapshot()
}

// Loading reports whether a fetch is outstanding.
func (c *Atencion) Loading() bool {
	return c.list.Loading()
}

// Attend accepts a request, moving it to attended/pending-liquidation.
func (c *Atencion) Attend(ctx context.Context, id int, comentario string) error {
	return c.decide(ctx, id, workflow.ActionAtender, "atender", comentario, eventbus.TopicRequestAttended)
}

// Reject is the reviewer's terminal rejection.
func (c *Atencion) Reject(ctx context.Context, id int, comentario string) error {
	return c.decide(ctx, id, workflow.ActionRechazar, "rechazar", comentario, eventbus.TopicRequestRejected)
}

func (c *Atencion) decide(ctx context.Context, id int, action workflow.Action, decision, comentario string, topic eventbus.Topic) error {
	p := c.sess.Principal()
	var req *models.Request
	for _, item := range c.list.snapshot() {
		if item.ID == id {
			r := item
			req = &r
			break
		}
	}
	if req == nil || !workflow.CanAct(req, p, action) {
		return ErrForbidden
	}

	// Decided requests leave this list; drop optimistically and restore
	// on failure.
	c.list.drop(byID(id))
	updated, err := c.repo.Decide(ctx, id, decision, comentario)
	if err != nil {
		c.list.mu.Lock()
		c.list.items = append(c.list.items, *req)
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
func (c *Atencion) Close() {
	c.subs.release()
}
