package filters

import (
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestBaselineState(t *testing.T) {
	c := New()
	s := c.State()
	if s.View != ViewToday {
		t.Errorf("initial view = %q, want %q", s.View, ViewToday)
	}
	if s.Page != 1 {
		t.Errorf("initial page = %d, want 1", s.Page)
	}
}

func TestDateAndRangeMutuallyExclusive(t *testing.T) {
	c := New()

	c.SetDateRange("2026-03-01", "2026-03-10")
	c.SetDate("2026-03-05")
	s := c.State()
	if s.StartDate != "" || s.EndDate != "" {
		t.Errorf("setting date should clear range, got start=%q end=%q", s.StartDate, s.EndDate)
	}
	if s.Date != "2026-03-05" {
		t.Errorf("date = %q, want 2026-03-05", s.Date)
	}

	c.SetDateRange("2026-04-01", "")
	s = c.State()
	if s.Date != "" {
		t.Errorf("setting range should clear date, got %q", s.Date)
	}
	if s.StartDate != "2026-04-01" {
		t.Errorf("start date = %q, want 2026-04-01", s.StartDate)
	}
}

func TestBranchChangeResetsDoctor(t *testing.T) {
	c := New()
	c.SetBranch("b1")
	c.SetDoctor("d1")

	c.SetBranch("b2")
	if got := c.State().DoctorID; got != "" {
		t.Errorf("doctor after branch change = %q, want empty", got)
	}

	// Re-selecting the same branch keeps the doctor.
	c.SetDoctor("d2")
	c.SetBranch("b2")
	if got := c.State().DoctorID; got != "d2" {
		t.Errorf("doctor after same-branch set = %q, want d2", got)
	}
}

func TestFilterChangesResetPage(t *testing.T) {
	mutations := []struct {
		name string
		do   func(c *Composer)
	}{
		{"view", func(c *Composer) { c.SetView(ViewPast) }},
		{"branch", func(c *Composer) { c.SetBranch("b1") }},
		{"doctor", func(c *Composer) { c.SetDoctor("d1") }},
		{"specialization", func(c *Composer) { c.SetSpecialization("cardio") }},
		{"status", func(c *Composer) { c.SetStatus("confirmed") }},
		{"date", func(c *Composer) { c.SetDate("2026-03-05") }},
		{"range", func(c *Composer) { c.SetDateRange("2026-03-01", "2026-03-10") }},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			c := New()
			c.SetPage(4)
			m.do(c)
			if got := c.State().Page; got != 1 {
				t.Errorf("page after %s change = %d, want 1", m.name, got)
			}
		})
	}
}

func TestSearchDoesNotResetPage(t *testing.T) {
	c := New()
	c.SetPage(3)
	c.SetSearch("perera")
	if got := c.State().Page; got != 3 {
		t.Errorf("page after search = %d, want 3", got)
	}
}

func TestSetPageRejectsInvalid(t *testing.T) {
	c := New()
	c.SetPage(3)
	c.SetPage(0)
	if got := c.State().Page; got != 3 {
		t.Errorf("page after SetPage(0) = %d, want 3", got)
	}
	c.SetPage(-1)
	if got := c.State().Page; got != 3 {
		t.Errorf("page after SetPage(-1) = %d, want 3", got)
	}
}

func TestClearReturnsToBaseline(t *testing.T) {
	c := New()
	c.SetBranch("b1")
	c.SetDoctor("d1")
	c.SetStatus("confirmed")
	c.SetDateRange("2026-03-01", "2026-03-10")
	c.SetSearch("silva")
	c.SetPage(5)

	c.Clear()
	if c.State() != baseline() {
		t.Errorf("state after clear = %+v, want baseline", c.State())
	}

	// Clearing an already-baseline state is a no-op.
	c.Clear()
	if c.State() != baseline() {
		t.Errorf("second clear diverged: %+v", c.State())
	}
}

func TestQueryParamsTodayPinsDate(t *testing.T) {
	c := NewWithClock(fixedClock())
	// Explicit selections must not leak into the today view.
	c.SetDate("2026-06-01")
	c.SetView(ViewToday)

	params := c.QueryParams(20)
	if params.Date != "2026-03-15" {
		t.Errorf("today view date = %q, want 2026-03-15", params.Date)
	}
	if params.StartDate != "" || params.EndDate != "" {
		t.Errorf("today view should carry no range, got start=%q end=%q", params.StartDate, params.EndDate)
	}
}

func TestQueryParamsUpcomingAndPast(t *testing.T) {
	c := NewWithClock(fixedClock())

	c.SetView(ViewUpcoming)
	if got := c.QueryParams(20).StartDate; got != "2026-03-16" {
		t.Errorf("upcoming start date = %q, want 2026-03-16", got)
	}

	c.SetView(ViewPast)
	if got := c.QueryParams(20).EndDate; got != "2026-03-14" {
		t.Errorf("past end date = %q, want 2026-03-14", got)
	}
}

func TestQueryParamsExplicitDateOverridesRange(t *testing.T) {
	c := NewWithClock(fixedClock())
	c.SetView(ViewUpcoming)
	c.SetDate("2026-05-01")

	params := c.QueryParams(20)
	if params.Date != "2026-05-01" {
		t.Errorf("date = %q, want 2026-05-01", params.Date)
	}
	if params.StartDate != "" || params.EndDate != "" {
		t.Errorf("explicit date should suppress range, got start=%q end=%q", params.StartDate, params.EndDate)
	}
}

func TestQueryParamsOmitLocalDimensions(t *testing.T) {
	c := NewWithClock(fixedClock())
	c.SetSpecialization("cardiology")
	c.SetSearch("perera")
	c.SetBranch("b1")
	c.SetStatus("confirmed")
	c.SetPage(2)

	params := c.QueryParams(25)
	if params.BranchID != "b1" || params.Status != "confirmed" {
		t.Errorf("server dimensions lost: %+v", params)
	}
	if params.Page != 2 || params.PerPage != 25 {
		t.Errorf("pagination lost: page=%d per_page=%d", params.Page, params.PerPage)
	}
}

// Scenario: branch + doctor + status selected, then the operator picks a
// single date after having had a range. Exactly one date dimension survives
// and paging restarts.
func TestComposedSelection(t *testing.T) {
	c := NewWithClock(fixedClock())
	c.SetView(ViewUpcoming)
	c.SetBranch("b1")
	c.SetDoctor("d9")
	c.SetStatus("confirmed")
	c.SetDateRange("2026-03-20", "2026-03-25")
	c.SetPage(2)
	c.SetDate("2026-03-22")

	s := c.State()
	if s.Date != "2026-03-22" || s.StartDate != "" || s.EndDate != "" {
		t.Errorf("date dimensions inconsistent: %+v", s)
	}
	if s.Page != 1 {
		t.Errorf("page = %d, want 1", s.Page)
	}
	if s.BranchID != "b1" || s.DoctorID != "d9" || s.Status != "confirmed" {
		t.Errorf("unrelated dimensions disturbed: %+v", s)
	}
}
