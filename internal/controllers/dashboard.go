package controllers

import (
	"context"
	"log"
	"sync"

	"github.com/pminsight/client/internal/api"
	"github.com/pminsight/client/internal/eventbus"
)

// DashboardRepository is the slice of the API client the dashboard
// consumes.
type DashboardRepository interface {
	GetDashboardSummary(ctx context.Context) (*api.DashboardSummary, error)
}

// Dashboard keeps the KPI counters current by re-fetching after every
// lifecycle event published elsewhere.
type Dashboard struct {
	repo DashboardRepository
	bus  *eventbus.Bus

	mu      sync.Mutex
	seq     uint64
	summary *api.DashboardSummary
	loading bool
	subs    subscriptions
}

// NewDashboard mounts the dashboard and subscribes to every request
// lifecycle topic.
func NewDashboard(repo DashboardRepository, bus *eventbus.Bus) *Dashboard {
	d := &Dashboard{repo: repo, bus: bus}
	for _, topic := range []eventbus.Topic{
		eventbus.TopicRequestSent,
		eventbus.TopicRequestAttended,
		eventbus.TopicRequestRejected,
		eventbus.TopicLiquidationSubmitted,
		eventbus.TopicLiquidationApproved,
		eventbus.TopicLiquidationRejected,
	} {
		d.subs.add(bus.Subscribe(topic, func(eventbus.Event) {
			if err := d.Load(context.Background()); err != nil {
				log.Printf("[DASHBOARD] Reload after event failed: %v", err)
			}
		}))
	}
	return d
}

// Load fetches the KPI summary with the same stale-discard policy as the
// list screens.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	d.seq++
	ticket := d.seq
	d.loading = true
	d.mu.Unlock()

	summary, err := d.repo.GetDashboardSummary(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if ticket != d.seq {
		log.Printf("[DASHBOARD] Discarded stale fetch %d", ticket)
		return nil
	}
	d.loading = false
	if err != nil {
		return err
	}
	d.summary = summary
	return nil
}

// Summary returns the latest KPI snapshot, or nil before the first load.
func (d *Dashboard) Summary() *api.DashboardSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.summary == nil {
		return nil
	}
	s := *d.summary
	return &s
}

// Loading reports whether a fetch is outstanding.
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Close releases the dashboard's bus subscriptions.
func (d *Dashboard) Close() {
	d.subs.release()
}
