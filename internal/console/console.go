// Package console assembles the per-operator console state: filter
// composition, the appointment page, the booking modal and the session
// grouping view. All of it is ephemeral and discarded when the operator
// goes idle; the remote clinic API remains the single source of truth.
package console

import (
	"context"
	"sync"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/config"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/booking"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/filters"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/listing"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/patients"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/sessions"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/slots"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/directory"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/events"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

// Console is one operator's console state. Callers hold the lock across a
// read-modify-read sequence so the single-threaded event-loop semantics of
// the UI carry over.
type Console struct {
	mu sync.Mutex

	Filters   *filters.Composer
	List      *listing.Coordinator
	Booking   *booking.Manager
	Sessions  *sessions.View
	Search    *patients.Service
	Slots     *slots.Resolver
	Typeahead *patients.Typeahead

	candidates CandidateSet
	lastSeen   time.Time
}

// CandidateSet is the latest delivered typeahead result, snapshot per
// console. Query identifies which keystroke produced it.
type CandidateSet struct {
	Query    string                   `json:"query"`
	Patients []model.PatientCandidate `json:"patients"`
	Error    string                   `json:"error,omitempty"`
}

func (c *Console) Lock()   { c.mu.Lock() }
func (c *Console) Unlock() { c.mu.Unlock() }

// Candidates returns the latest typeahead delivery. Callers hold the lock.
func (c *Console) Candidates() CandidateSet { return c.candidates }

// Registry hands out consoles keyed by operator id and evicts idle ones.
type Registry struct {
	api       upstream.Client
	dir       directory.Service
	publisher events.Publisher
	cfg       config.ConsoleConfig

	mu       sync.Mutex
	consoles map[string]*Console
}

func NewRegistry(api upstream.Client, dir directory.Service, publisher events.Publisher, cfg config.ConsoleConfig) *Registry {
	if publisher == nil {
		publisher = events.NewNop()
	}
	return &Registry{
		api:       api,
		dir:       dir,
		publisher: publisher,
		cfg:       cfg,
		consoles:  make(map[string]*Console),
	}
}

// Get returns the operator's console, creating it on first use.
func (r *Registry) Get(operatorID string) *Console {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.consoles[operatorID]
	if !ok {
		c = r.newConsole()
		r.consoles[operatorID] = c
	}
	c.lastSeen = time.Now()
	return c
}

func (r *Registry) newConsole() *Console {
	c := &Console{
		Filters: filters.New(),
		Search:  patients.NewService(r.api),
	}
	c.List = listing.New(r.api, r.cfg.PerPage, r.dir.SpecializationOf)
	c.Sessions = sessions.NewView(r.api, r.publisher)
	c.Slots = slots.New(r.api)

	debounce := time.Duration(r.cfg.SearchDebounceMs) * time.Millisecond
	c.Typeahead = patients.NewTypeahead(c.Search, debounce, func(query string, candidates []model.PatientCandidate, err error) {
		c.Lock()
		defer c.Unlock()
		c.candidates = CandidateSet{Query: query, Patients: candidates}
		if err != nil {
			c.candidates.Error = "patient search is temporarily unavailable"
		}
	})

	autoDismiss := time.Duration(r.cfg.SuccessAutoDismissMs) * time.Millisecond
	c.Booking = booking.NewManager(r.api, c.Slots, r.publisher, autoDismiss, func(gen uint64) {
		// Auto-dismiss: close the modal and bring the list back in sync.
		// A stale timer, from a success the operator already moved past,
		// is dropped by the generation check.
		c.Lock()
		defer c.Unlock()
		if !c.Booking.DismissExpired(gen) {
			return
		}
		c.List.Refresh(context.Background(), c.Filters)
	})
	return c
}

// Sweep evicts consoles idle longer than the configured TTL.
func (r *Registry) Sweep() {
	ttl := time.Duration(r.cfg.OperatorIdleTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.consoles {
		if c.lastSeen.Before(cutoff) {
			delete(r.consoles, id)
		}
	}
}

// StartSweeper runs Sweep periodically until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}
