// Package slots resolves the bookable slots for a doctor on a date. Slot
// lists are authoritative only at the moment of fetch; the backend
// re-validates at submission time.
package slots

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

// Result is one resolved slot list. Degraded is set when the upstream call
// failed and the empty list is a substitute the caller should flag.
type Result struct {
	Slots    []model.Slot `json:"slots"`
	Degraded bool         `json:"degraded,omitempty"`
	Stale    bool         `json:"-"`
}

// Resolver fetches slot lists and discards responses that were superseded by
// a newer doctor/date selection. Rapid input changes therefore cannot leave
// an older response displayed as current.
type Resolver struct {
	api upstream.Client

	mu  sync.Mutex
	seq uint64
}

func New(api upstream.Client) *Resolver {
	return &Resolver{api: api}
}

// Fetch retrieves the ordered slot list for (doctorID, date, branchID).
// Missing doctor or date yields an empty list without an upstream call.
// Upstream failure also yields an empty list, with Degraded set; slot
// selection simply becomes empty rather than failing the whole view.
func (r *Resolver) Fetch(ctx context.Context, doctorID, date, branchID string) Result {
	if doctorID == "" || date == "" {
		return Result{Slots: []model.Slot{}}
	}

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	slots, err := r.api.GetAvailableSlots(ctx, doctorID, date, branchID)

	r.mu.Lock()
	stale := seq != r.seq
	r.mu.Unlock()
	if stale {
		// A newer fetch was issued while this one was in flight.
		return Result{Slots: []model.Slot{}, Stale: true}
	}

	if err != nil {
		slog.Warn("slot fetch failed, substituting empty list",
			"doctor_id", doctorID, "date", date, "err", err)
		return Result{Slots: []model.Slot{}, Degraded: true}
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	// Slots arrive in ascending slot_number order; the resolver does not
	// re-sort.
	return Result{Slots: slots}
}
