// Package listing orchestrates paginated appointment retrieval as a
// two-phase pipeline: server query composition and fetch, then local
// narrowing for the dimensions the backend does not support
// (specialization, free-text search).
package listing

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/filters"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

// Page is the coordinator's view of the current appointment page.
// TotalPages is the server's unfiltered page count: local narrowing may make
// a page sparser than per_page without changing it.
type Page struct {
	Items      []model.Appointment `json:"items"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Error      string              `json:"error,omitempty"`
	Stale      bool                `json:"-"`
}

// Coordinator drives list refreshes. Responses belonging to a superseded
// refresh are discarded, so the last issued refresh always wins over the
// last completed one.
type Coordinator struct {
	api     upstream.Client
	perPage int

	// specializationOf maps a doctor id to its specialization for local
	// narrowing; the directory service provides it.
	specializationOf func(doctorID string) string

	mu      sync.Mutex
	seq     uint64
	current Page
}

func New(api upstream.Client, perPage int, specializationOf func(string) string) *Coordinator {
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	if specializationOf == nil {
		specializationOf = func(string) string { return "" }
	}
	return &Coordinator{
		api:              api,
		perPage:          perPage,
		specializationOf: specializationOf,
		current:          Page{Items: []model.Appointment{}, Page: 1},
	}
}

// Current returns the last accepted page.
func (c *Coordinator) Current() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Refresh fetches the page described by the composer's state and applies
// local narrowing. A retrieval error clears the page to empty with an error
// indicator; stale data is never presented as current.
func (c *Coordinator) Refresh(ctx context.Context, composer *filters.Composer) Page {
	state := composer.State()
	params := composer.QueryParams(c.perPage)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	resp, err := c.api.ListAppointments(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// Superseded by a newer refresh; keep whatever that one decides.
		return Page{Items: []model.Appointment{}, Page: state.Page, Stale: true}
	}

	if err != nil {
		slog.Error("appointment list refresh failed", "page", state.Page, "err", err)
		c.current = Page{
			Items:      []model.Appointment{},
			Page:       state.Page,
			TotalPages: 0,
			Error:      "failed to load appointments",
		}
		return c.current
	}

	items := resp.Appointments
	if items == nil {
		items = []model.Appointment{}
	}
	items = c.narrowBySpecialization(items, state.Specialization)
	items = narrowBySearch(items, state.Search)

	c.current = Page{
		Items:      items,
		Page:       state.Page,
		TotalPages: resp.TotalPages,
	}
	return c.current
}

func (c *Coordinator) narrowBySpecialization(items []model.Appointment, spec string) []model.Appointment {
	if spec == "" {
		return items
	}
	needle := strings.ToLower(spec)
	return lo.Filter(items, func(a model.Appointment, _ int) bool {
		return strings.Contains(strings.ToLower(c.specializationOf(a.DoctorID)), needle)
	})
}

// narrowBySearch matches the query against patient name, appointment id and
// token number, case-insensitively.
func narrowBySearch(items []model.Appointment, query string) []model.Appointment {
	if query == "" {
		return items
	}
	needle := strings.ToLower(query)
	return lo.Filter(items, func(a model.Appointment, _ int) bool {
		return strings.Contains(strings.ToLower(a.PatientName), needle) ||
			strings.Contains(strings.ToLower(a.ID), needle) ||
			strings.Contains(strings.ToLower(a.TokenNumber), needle)
	})
}
