package controllers

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/models"
)

// GuideRepository is the slice of the API client the guide screen
// consumes.
type GuideRepository interface {
	ListGuides(ctx context.Context, estado models.GuideState) ([]models.Guide, error)
	CreateGuide(ctx context.Context, guide models.Guide) (*models.Guide, error)
	UpdateGuideState(ctx context.Context, id int, estado models.GuideState) (*models.Guide, error)
}

// Guias manages outbound shipment receipts.
type Guias struct {
	repo     GuideRepository
	bus      *eventbus.Bus
	validate *validator.Validate
	list     list[models.Guide]
	subs     subscriptions
}

// NewGuias mounts the screen.
func NewGuias(repo GuideRepository, bus *eventbus.Bus) *Guias {
	c := &Guias{repo: repo, bus: bus, validate: validator.New()}
	c.subs.add(bus.Subscribe(eventbus.TopicGuideDispatched, func(eventbus.Event) {
		if err := c.Load(context.Background(), ""); err != nil {
			log.Printf("[GUIAS] Reload after event failed: %v", err)
		}
	}))
	return c
}

// Load fetches guides, optionally filtered by state.
func (c *Guias) Load(ctx context.Context, estado models.GuideState) error {
	ticket := c.list.begin()
	items, err := c.repo.ListGuides(ctx, estado)
	if err != nil {
		c.list.fail(ticket)
		return err
	}
	if !c.list.install(ticket, items) {
		log.Printf("[GUIAS] Discarded stale fetch %d", ticket)
	}
	return nil
}

// Guides returns the current list snapshot.
func (c *Guias) Guides() []models.Guide {
	return c.list.snapshot()
}

// Loading reports whether a fetch is outstanding.
func (c *Guias) Loading() bool {
	return c.list.Loading()
}

// Create validates and registers a new guide in Pendiente state.
func (c *Guias) Create(ctx context.Context, guide models.Guide) (*models.Guide, error) {
	guide.State = models.GuidePendiente
	if err := c.validate.Struct(&guide); err != nil {
		return nil, err
	}
	created, err := c.repo.CreateGuide(ctx, guide)
	if err != nil {
		return nil, err
	}
	c.list.mu.Lock()
	c.list.items = append(c.list.items, *created)
	c.list.mu.Unlock()
	return created, nil
}

// Dispatch marks a pending guide as sent.
func (c *Guias) Dispatch(ctx context.Context, id int) error {
	return c.transition(ctx, id, models.GuidePendiente, models.GuideEnviada, true)
}

// Receive marks a sent guide as received at destination.
func (c *Guias) Receive(ctx context.Context, id int) error {
	return c.transition(ctx, id, models.GuideEnviada, models.GuideRecibida, false)
}

func (c *Guias) transition(ctx context.Context, id int, from, to models.GuideState, announce bool) error {
	var guide *models.Guide
	for _, item := range c.list.snapshot() {
		if item.ID == id {
			g := item
			guide = &g
			break
		}
	}
	if guide == nil || guide.State != from {
		return ErrForbidden
	}

	prev, patched := c.list.patch(guideByID(id), func(g models.Guide) models.Guide {
		g.State = to
		return g
	})
	updated, err := c.repo.UpdateGuideState(ctx, id, to)
	if err != nil {
		if patched {
			c.list.replace(guideByID(id), prev)
		}
		return err
	}
	c.list.replace(guideByID(id), *updated)
	if announce {
		c.bus.Publish(eventbus.Event{Topic: eventbus.TopicGuideDispatched, Sequence: updated.Tracking})
	}
	return nil
}

// Close releases the screen's bus subscriptions.
func (c *Guias) Close() {
	c.subs.release()
}

func guideByID(id int) func(models.Guide) bool {
	return func(g models.Guide) bool { return g.ID == id }
}
