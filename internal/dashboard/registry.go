package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nest/internal/logger"
)

// Factory builds the controller of a browser client.
type Factory func(clientID string) *Controller

type entry struct {
	once sync.Once
	ctrl *Controller
}

// Registry holds one controller per browser client id. With a positive
// limit, adding a controller past it evicts the one idle the longest.
type Registry struct {
	factory Factory
	log     logger.Logger
	rec     Recorder
	now     func() time.Time
	limit   int

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(factory Factory, log logger.Logger, rec Recorder, limit int) *Registry {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Registry{
		factory: factory,
		log:     log,
		rec:     rec,
		now:     time.Now,
		limit:   limit,
		entries: make(map[string]*entry),
	}
}

// Get returns the controller of clientID, creating and starting it on
// first use. Concurrent first calls share a single Start.
func (r *Registry) Get(ctx context.Context, clientID string) *Controller {
	r.mu.Lock()
	var evicted *Controller
	e, ok := r.entries[clientID]
	if !ok {
		if r.limit > 0 && len(r.entries) >= r.limit {
			evicted = r.evictOldestLocked()
		}
		e = &entry{ctrl: r.factory(clientID)}
		r.entries[clientID] = e
		r.rec.Dashboards(len(r.entries))
	}
	r.mu.Unlock()

	if evicted != nil {
		evicted.Close()
	}

	e.once.Do(func() {
		r.log.Debug("starting dashboard", logger.String("client_id", clientID))
		e.ctrl.Start(ctx)
	})
	e.ctrl.Touch()
	return e.ctrl
}

// evictOldestLocked drops the controller unused for the longest time and
// returns it. Callers hold mu and close it after unlocking.
func (r *Registry) evictOldestLocked() *Controller {
	var (
		oldestID string
		oldest   *Controller
	)
	for id, e := range r.entries {
		if oldest == nil || e.ctrl.IdleSince().Before(oldest.IdleSince()) {
			oldestID, oldest = id, e.ctrl
		}
	}
	if oldest != nil {
		delete(r.entries, oldestID)
		r.log.Debug("dashboard limit reached, evicting oldest", logger.String("client_id", oldestID))
	}
	return oldest
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict closes and drops controllers unused for longer than idle.
// It returns how many were evicted.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Controller
	for id, e := range r.entries {
		if e.ctrl.IdleSince().Before(cutoff) {
			stale = append(stale, e.ctrl)
			delete(r.entries, id)
		}
	}
	r.rec.Dashboards(len(r.entries))
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	return len(stale)
}

// Each calls fn for every live controller, outside the registry lock.
func (r *Registry) Each(fn func(*Controller)) {
	r.mu.Lock()
	ctrls := make([]*Controller, 0, len(r.entries))
	for _, e := range r.entries {
		ctrls = append(ctrls, e.ctrl)
	}
	r.mu.Unlock()

	for _, c := range ctrls {
		fn(c)
	}
}

// Close closes every controller.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.rec.Dashboards(0)
	r.mu.Unlock()

	for _, e := range entries {
		e.ctrl.Close()
	}
}
