package slots

import (
	"context"
	"errors"
	"testing"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream/upstreamtest"
)

func TestFetchSkipsUpstreamOnMissingInputs(t *testing.T) {
	tests := []struct {
		name     string
		doctorID string
		date     string
	}{
		{name: "no doctor", doctorID: "", date: "2026-03-15"},
		{name: "no date", doctorID: "d1", date: ""},
		{name: "neither", doctorID: "", date: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &upstreamtest.Fake{}
			r := New(api)

			res := r.Fetch(context.Background(), tt.doctorID, tt.date, "b1")
			if len(res.Slots) != 0 || res.Degraded {
				t.Errorf("result = %+v, want empty non-degraded", res)
			}
			if n := api.CallCount("GetAvailableSlots"); n != 0 {
				t.Errorf("upstream called %d times, want 0", n)
			}
		})
	}
}

func TestFetchPreservesOrder(t *testing.T) {
	api := &upstreamtest.Fake{
		GetAvailableSlotsFn: func(ctx context.Context, doctorID, date, branchID string) ([]model.Slot, error) {
			return []model.Slot{
				{SlotNumber: 1, Time: "09:00", IsAvailable: true},
				{SlotNumber: 2, Time: "09:15", IsAvailable: false},
				{SlotNumber: 3, Time: "09:30", IsAvailable: true},
			}, nil
		},
	}
	r := New(api)

	res := r.Fetch(context.Background(), "d1", "2026-03-15", "b1")
	if res.Degraded {
		t.Fatal("unexpected degraded result")
	}
	for i, s := range res.Slots {
		if s.SlotNumber != i+1 {
			t.Errorf("slot[%d].SlotNumber = %d, want %d", i, s.SlotNumber, i+1)
		}
	}
}

func TestFetchErrorYieldsDegradedEmpty(t *testing.T) {
	api := &upstreamtest.Fake{
		GetAvailableSlotsFn: func(ctx context.Context, doctorID, date, branchID string) ([]model.Slot, error) {
			return nil, errors.New("upstream down")
		},
	}
	r := New(api)

	res := r.Fetch(context.Background(), "d1", "2026-03-15", "b1")
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if res.Slots == nil || len(res.Slots) != 0 {
		t.Errorf("slots = %v, want empty non-nil list", res.Slots)
	}
}

func TestFetchDiscardsSupersededResponse(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	calls := 0

	api := &upstreamtest.Fake{
		GetAvailableSlotsFn: func(ctx context.Context, doctorID, date, branchID string) ([]model.Slot, error) {
			calls++
			if calls == 1 {
				close(entered)
				<-block
				return []model.Slot{{SlotNumber: 99}}, nil
			}
			return []model.Slot{{SlotNumber: 1}}, nil
		},
	}
	r := New(api)

	first := make(chan Result)
	go func() {
		first <- r.Fetch(context.Background(), "d1", "2026-03-15", "b1")
	}()
	<-entered

	// A newer fetch starts while the first is still in flight.
	fresh := r.Fetch(context.Background(), "d1", "2026-03-16", "b1")
	close(block)
	stale := <-first

	if !stale.Stale {
		t.Error("first response should be marked stale")
	}
	if len(stale.Slots) != 0 {
		t.Errorf("stale response carried slots: %v", stale.Slots)
	}
	if len(fresh.Slots) != 1 || fresh.Slots[0].SlotNumber != 1 {
		t.Errorf("fresh result = %+v, want slot 1", fresh)
	}
}
