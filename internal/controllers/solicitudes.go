package controllers

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/pminsight/client/internal/api"
	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/models"
	"github.com/pminsight/client/internal/session"
	"github.com/pminsight/client/internal/workflow"
)

// RequestRepository is the slice of the API client the request screens
// consume.
type RequestRepository interface {
	ListPendingRequests(ctx context.Context, destinatarioID int, estado models.State) ([]models.Request, error)
	ListMyRequests(ctx context.Context, solicitanteID int) ([]models.Request, error)
	CreateRequest(ctx context.Context, form models.CreateRequestForm) (*models.Request, error)
	UpdateRequestState(ctx context.Context, id int, estado models.State) (*models.Request, error)
	Decide(ctx context.Context, id int, decision, comentario string) (*models.Request, error)
}

// Solicitudes is the requester's screen: their own requests across the
// whole lifecycle, with creation and submission.
type Solicitudes struct {
	repo     RequestRepository
	bus      *eventbus.Bus
	sess     *session.Session
	validate *validator.Validate
	list     list[models.Request]
	subs     subscriptions
	reload   func()
}

// NewSolicitudes mounts the screen and subscribes to the sibling topics
// that change this list from elsewhere.
func NewSolicitudes(repo RequestRepository, bus *eventbus.Bus, sess *session.Session) *Solicitudes {
	c := &Solicitudes{
		repo:     repo,
		bus:      bus,
		sess:     sess,
		validate: validator.New(),
	}
	c.reload = func() {
		if err := c.Load(context.Background()); err != nil {
			log.Printf("[SOLICITUDES] Reload after event failed: %v", err)
		}
	}
	for _, topic := range []eventbus.Topic{
		eventbus.TopicRequestAttended,
		eventbus.TopicRequestRejected,
		eventbus.TopicLiquidationApproved,
		eventbus.TopicLiquidationRejected,
	} {
		c.subs.add(bus.Subscribe(topic, func(eventbus.Event) { c.reload() }))
	}
	return c
}

// Load fetches the requester's list. A response superseded by a newer
// Load is discarded.
func (c *Solicitudes) Load(ctx context.Context) error {
	ticket := c.list.begin()
	p := c.sess.Principal()
	if p == nil {
		c.list.fail(ticket)
		return api.ErrSessionExpired
	}
	items, err := c.repo.ListMyRequests(ctx, p.ID)
	if err != nil {
		c.list.fail(ticket)
		return err
	}
	if !c.list.install(ticket, items) {
		log.Printf("[SOLICITUDES] Discarded stale fetch %d", ticket)
	}
	return nil
}

// Requests returns the current list snapshot.
func (c *Solicitudes) Requests() []models.Request {
	return c.list.snapshot()
}

// Loading reports whether a fetch is outstanding.
func (c *Solicitudes) Loading() bool {
	return c.list.Loading()
}

// Create validates the form locally and submits a new request. Banking
// fields default to the requester's profile.
func (c *Solicitudes) Create(ctx context.Context, form models.CreateRequestForm) (*models.Request, error) {
	p := c.sess.Principal()
	if p == nil {
		return nil, api.ErrSessionExpired
	}
	if p.Role != models.RoleColaborador {
		return nil, ErrForbidden
	}
	if form.Bank == "" {
		form.Bank = p.Bank
	}
	if form.Account == "" {
		form.Account = p.Account
	}
	if err := c.validate.Struct(&form); err != nil {
		return nil, err
	}
	created, err := c.repo.CreateRequest(ctx, form)
	if err != nil {
		return nil, err
	}
	c.list.mu.Lock()
	c.list.items = append(c.list.items, *created)
	c.list.mu.Unlock()
	return created, nil
}

// Send moves a pending-submission request to pending-attention. The guard
// runs before any network call; a rejected triple never reaches the
// repository and publishes nothing.
func (c *Solicitudes) Send(ctx context.Context, id int) error {
	p := c.sess.Principal()
	target, ok := c.ensureAllowed(p, id, workflow.ActionEnviar)
	if !ok {
		return ErrForbidden
	}

	prev, patched := c.list.patch(byID(id), withState(target))
	updated, err := c.repo.UpdateRequestState(ctx, id, target)
	if err != nil {
		if patched {
			c.list.replace(byID(id), prev)
		}
		return err
	}
	// Server truth wins over the optimistic patch.
	c.list.replace(byID(id), *updated)
	c.bus.Publish(eventbus.Event{
		Topic:    eventbus.TopicRequestSent,
		Sequence: updated.Sequence,
		State:    updated.State,
	})
	return nil
}

// ensureAllowed runs the full guard for an action over a listed request
// and resolves its target state.
func (c *Solicitudes) ensureAllowed(p *models.Principal, id int, action workflow.Action) (models.State, bool) {
	var req *models.Request
	for _, item := range c.list.snapshot() {
		if item.ID == id {
			r := item
			req = &r
			break
		}
	}
	if req == nil || !workflow.CanAct(req, p, action) {
		return "", false
	}
	target, ok := workflow.Target(req.State, action)
	return target, ok
}

// Close releases the screen's bus subscriptions.
func (c *Solicitudes) Close() {
	c.subs.release()
}

func byID(id int) func(models.Request) bool {
	return func(r models.Request) bool { return r.ID == id }
}

func withState(state models.State) func(models.Request) models.Request {
	return func(r models.Request) models.Request {
		r.State = state
		return r
	}
}
