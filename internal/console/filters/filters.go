// Package filters implements the appointment view's filter composer: a small
// state machine over the view tab, branch/doctor/specialization/status
// dimensions, date selection and free-text search. All cross-field rules
// (date vs. range exclusivity, branch resetting doctor, page resets) are
// transition rules in one reducer rather than ad hoc coupling in handlers.
package filters

import (
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

type View string

const (
	ViewToday    View = "today"
	ViewUpcoming View = "upcoming"
	ViewPast     View = "past"
)

// State is the composed filter selection. Exactly one of {Date, Start/End
// range, neither} is active at any time.
type State struct {
	View           View   `json:"view"`
	BranchID       string `json:"branch_id"`
	DoctorID       string `json:"doctor_id"`
	Specialization string `json:"specialization"`
	Status         string `json:"status"`
	Date           string `json:"date"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Search         string `json:"search"`
	Page           int    `json:"page"`
}

type eventKind int

const (
	evSetView eventKind = iota
	evSetBranch
	evSetDoctor
	evSetSpecialization
	evSetStatus
	evSetDate
	evSetRange
	evSetSearch
	evSetPage
	evClear
)

type event struct {
	kind     eventKind
	value    string
	rangeEnd string
	page     int
}

// Composer owns the filter state. It is not safe for concurrent use; the
// per-operator console serializes access.
type Composer struct {
	state State
	now   func() time.Time
}

func New() *Composer {
	return NewWithClock(time.Now)
}

// NewWithClock injects the clock so date-pinned views are testable.
func NewWithClock(now func() time.Time) *Composer {
	c := &Composer{now: now}
	c.state = baseline()
	return c
}

func baseline() State {
	return State{View: ViewToday, Page: 1}
}

func (c *Composer) State() State { return c.state }

func (c *Composer) SetView(v View)             { c.apply(event{kind: evSetView, value: string(v)}) }
func (c *Composer) SetBranch(id string)        { c.apply(event{kind: evSetBranch, value: id}) }
func (c *Composer) SetDoctor(id string)        { c.apply(event{kind: evSetDoctor, value: id}) }
func (c *Composer) SetSpecialization(s string) { c.apply(event{kind: evSetSpecialization, value: s}) }
func (c *Composer) SetStatus(s string)         { c.apply(event{kind: evSetStatus, value: s}) }
func (c *Composer) SetDate(date string)        { c.apply(event{kind: evSetDate, value: date}) }
func (c *Composer) SetDateRange(start, end string) {
	c.apply(event{kind: evSetRange, value: start, rangeEnd: end})
}
func (c *Composer) SetSearch(q string) { c.apply(event{kind: evSetSearch, value: q}) }
func (c *Composer) SetPage(p int)      { c.apply(event{kind: evSetPage, page: p}) }

// Clear returns the composer to the baseline state from anywhere.
func (c *Composer) Clear() { c.apply(event{kind: evClear}) }

// apply is the single transition function; every invariant lives here.
func (c *Composer) apply(ev event) {
	s := &c.state

	switch ev.kind {
	case evSetView:
		switch View(ev.value) {
		case ViewToday, ViewUpcoming, ViewPast:
			s.View = View(ev.value)
			s.Page = 1
		}

	case evSetBranch:
		if s.BranchID != ev.value {
			// A doctor selection may be invalid for the new branch.
			s.DoctorID = ""
		}
		s.BranchID = ev.value
		s.Page = 1

	case evSetDoctor:
		s.DoctorID = ev.value
		s.Page = 1

	case evSetSpecialization:
		s.Specialization = ev.value
		s.Page = 1

	case evSetStatus:
		s.Status = ev.value
		s.Page = 1

	case evSetDate:
		s.Date = ev.value
		// Single date and range are mutually exclusive.
		s.StartDate, s.EndDate = "", ""
		s.Page = 1

	case evSetRange:
		if ev.value != "" {
			s.StartDate = ev.value
		}
		if ev.rangeEnd != "" {
			s.EndDate = ev.rangeEnd
		}
		s.Date = ""
		s.Page = 1

	case evSetSearch:
		// Free-text search is applied client-side and does not re-page.
		s.Search = ev.value

	case evSetPage:
		if ev.page >= 1 {
			s.Page = ev.page
		}

	case evClear:
		c.state = baseline()
	}
}

// QueryParams derives the server-side query from the current state.
// Specialization and free-text search are deliberately absent: the backend
// does not support them, so the list coordinator narrows locally.
func (c *Composer) QueryParams(perPage int) upstream.ListAppointmentsParams {
	s := c.state
	params := upstream.ListAppointmentsParams{
		Page:     s.Page,
		PerPage:  perPage,
		BranchID: s.BranchID,
		DoctorID: s.DoctorID,
		Status:   s.Status,
	}

	today := c.now().Format("2006-01-02")
	switch s.View {
	case ViewToday:
		// The today tab pins the date; explicit date/range selections have
		// no effect while it is active.
		params.Date = today
		return params
	case ViewUpcoming:
		params.StartDate = c.now().AddDate(0, 0, 1).Format("2006-01-02")
	case ViewPast:
		params.EndDate = c.now().AddDate(0, 0, -1).Format("2006-01-02")
	}

	if s.Date != "" {
		params.Date = s.Date
		params.StartDate, params.EndDate = "", ""
		return params
	}
	if s.StartDate != "" {
		params.StartDate = s.StartDate
	}
	if s.EndDate != "" {
		params.EndDate = s.EndDate
	}
	return params
}
