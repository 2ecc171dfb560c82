package patients

import (
	"context"
	"sync"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
)

// DefaultDebounce is the trailing delay between the last keystroke and the
// search it triggers.
const DefaultDebounce = 300 * time.Millisecond

// Typeahead turns keystrokes into debounced patient searches. Each Input
// call cancels any not-yet-fired previous schedule, and results of a search
// that was superseded while in flight are dropped, so stale candidates are
// never delivered after fresher ones. This is a correctness contract under
// rapid typing, not an optimization.
type Typeahead struct {
	svc     *Service
	delay   time.Duration
	deliver func(query string, candidates []model.PatientCandidate, err error)

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func NewTypeahead(svc *Service, delay time.Duration, deliver func(string, []model.PatientCandidate, error)) *Typeahead {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Typeahead{svc: svc, delay: delay, deliver: deliver}
}

// Input registers a keystroke. The search fires after the debounce delay
// unless another keystroke arrives first.
func (t *Typeahead) Input(query, branchID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	seq := t.seq
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.fire(seq, query, branchID)
	})
}

// Cancel drops any pending schedule without firing it.
func (t *Typeahead) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Typeahead) fire(seq uint64, query, branchID string) {
	t.mu.Lock()
	current := t.seq == seq
	t.mu.Unlock()
	if !current {
		return
	}

	candidates, err := t.svc.Search(context.Background(), query, branchID)

	t.mu.Lock()
	current = t.seq == seq
	t.mu.Unlock()
	if !current {
		// A newer query's results win.
		return
	}
	t.deliver(query, candidates, err)
}
