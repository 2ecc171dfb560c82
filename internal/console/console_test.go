package console

import (
	"context"
	"testing"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/config"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/directory"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/events"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream/upstreamtest"
)

func newTestRegistry() *Registry {
	api := &upstreamtest.Fake{}
	dir := directory.New(api, nil, time.Minute)
	return NewRegistry(api, dir, nil, config.ConsoleConfig{
		PerPage:                20,
		OperatorIdleTTLMinutes: 30,
	})
}

func TestRegistryIsolatesOperators(t *testing.T) {
	r := newTestRegistry()

	a := r.Get("op-a")
	b := r.Get("op-b")
	if a == b {
		t.Fatal("distinct operators shared a console")
	}
	if r.Get("op-a") != a {
		t.Error("repeated Get returned a different console")
	}

	// Filter state set by one operator stays invisible to the other.
	a.Filters.SetBranch("b1")
	if got := b.Filters.State().BranchID; got != "" {
		t.Errorf("operator b sees branch %q", got)
	}
}

func TestRegistryConsoleWiring(t *testing.T) {
	r := newTestRegistry()
	c := r.Get("op-a")

	if c.Filters == nil || c.List == nil || c.Booking == nil || c.Sessions == nil || c.Search == nil || c.Slots == nil || c.Typeahead == nil {
		t.Fatalf("console left partially wired: %+v", c)
	}
}

func TestTypeaheadDeliversIntoConsoleSnapshot(t *testing.T) {
	api := &upstreamtest.Fake{
		SearchPatientsFn: func(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
			return []model.PatientCandidate{{ID: "p1", Name: "Perera"}}, nil
		},
	}
	dir := directory.New(api, nil, time.Minute)
	r := NewRegistry(api, dir, events.NewNop(), config.ConsoleConfig{
		PerPage:                20,
		OperatorIdleTTLMinutes: 30,
		SearchDebounceMs:       1,
	})

	c := r.Get("op-a")
	c.Typeahead.Input("per", "b1")
	time.Sleep(100 * time.Millisecond)

	c.Lock()
	got := c.Candidates()
	c.Unlock()
	if got.Query != "per" || len(got.Patients) != 1 || got.Patients[0].ID != "p1" {
		t.Fatalf("unexpected candidate snapshot: %+v", got)
	}
	if got.Error != "" {
		t.Fatalf("unexpected error: %q", got.Error)
	}
}

func TestSweepEvictsIdleConsoles(t *testing.T) {
	r := newTestRegistry()
	idle := r.Get("op-idle")
	r.Get("op-active")

	r.mu.Lock()
	idle.lastSeen = time.Now().Add(-time.Hour)
	r.mu.Unlock()

	r.Sweep()

	r.mu.Lock()
	_, idleKept := r.consoles["op-idle"]
	_, activeKept := r.consoles["op-active"]
	r.mu.Unlock()

	if idleKept {
		t.Error("idle console survived sweep")
	}
	if !activeKept {
		t.Error("active console was evicted")
	}

	// The operator's next request simply builds a fresh console.
	fresh := r.Get("op-idle")
	if fresh == idle {
		t.Error("evicted console was resurrected")
	}
}
