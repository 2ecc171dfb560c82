package patients

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream/upstreamtest"
)

type capture struct {
	mu      sync.Mutex
	queries []string
}

func (c *capture) deliver(query string, _ []model.PatientCandidate, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
}

func (c *capture) got() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.queries))
	copy(out, c.queries)
	return out
}

func TestTypeaheadOnlyLastInputFires(t *testing.T) {
	api := &upstreamtest.Fake{
		SearchPatientsFn: func(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
			return []model.PatientCandidate{{ID: "p-" + query}}, nil
		},
	}
	rec := &capture{}
	ta := NewTypeahead(NewService(api), 20*time.Millisecond, rec.deliver)

	ta.Input("pe", "b1")
	ta.Input("per", "b1")
	ta.Input("pere", "b1")

	time.Sleep(150 * time.Millisecond)

	queries := rec.got()
	if len(queries) != 1 || queries[0] != "pere" {
		t.Errorf("delivered queries = %v, want [pere]", queries)
	}
	if n := api.CallCount("SearchPatients"); n != 1 {
		t.Errorf("upstream called %d times, want 1", n)
	}
}

func TestTypeaheadSpacedInputsEachFire(t *testing.T) {
	api := &upstreamtest.Fake{}
	rec := &capture{}
	ta := NewTypeahead(NewService(api), 10*time.Millisecond, rec.deliver)

	ta.Input("pe", "b1")
	time.Sleep(60 * time.Millisecond)
	ta.Input("per", "b1")
	time.Sleep(60 * time.Millisecond)

	queries := rec.got()
	if len(queries) != 2 || queries[0] != "pe" || queries[1] != "per" {
		t.Errorf("delivered queries = %v, want [pe per]", queries)
	}
}

func TestTypeaheadCancelDropsPending(t *testing.T) {
	api := &upstreamtest.Fake{}
	rec := &capture{}
	ta := NewTypeahead(NewService(api), 10*time.Millisecond, rec.deliver)

	ta.Input("per", "b1")
	ta.Cancel()
	time.Sleep(60 * time.Millisecond)

	if queries := rec.got(); len(queries) != 0 {
		t.Errorf("delivered queries = %v, want none", queries)
	}
}

func TestTypeaheadDropsInFlightSupersededResult(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once

	api := &upstreamtest.Fake{
		SearchPatientsFn: func(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
			if query == "slow" {
				once.Do(func() { close(entered) })
				<-block
			}
			return []model.PatientCandidate{{ID: "p-" + query}}, nil
		},
	}
	rec := &capture{}
	ta := NewTypeahead(NewService(api), time.Millisecond, rec.deliver)

	ta.Input("slow", "b1")
	<-entered

	// Supersede while the slow search is mid-flight, then release it.
	ta.Input("fresh", "b1")
	time.Sleep(60 * time.Millisecond)
	close(block)
	time.Sleep(60 * time.Millisecond)

	queries := rec.got()
	if len(queries) != 1 || queries[0] != "fresh" {
		t.Errorf("delivered queries = %v, want [fresh]", queries)
	}
}
