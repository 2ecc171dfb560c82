package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/api/http/middleware"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/filters"
)

// HeaderOperatorID identifies the operator whose console state a request
// acts on.
const HeaderOperatorID = middleware.HeaderOperatorID

type ConsoleHandler struct {
	registry *console.Registry
}

func NewConsoleHandler(registry *console.Registry) *ConsoleHandler {
	return &ConsoleHandler{registry: registry}
}

func (h *ConsoleHandler) console(c fiber.Ctx) (*console.Console, bool) {
	op := c.Get(HeaderOperatorID)
	if op == "" {
		return nil, false
	}
	return h.registry.Get(op), true
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

// GET /console/filters
func (h *ConsoleHandler) GetFilters(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	return ok(c, cons.Filters.State())
}

// PATCH /console/filters
func (h *ConsoleHandler) UpdateFilters(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}

	var body struct {
		View           *string `json:"view"`
		BranchID       *string `json:"branch_id"`
		DoctorID       *string `json:"doctor_id"`
		Specialization *string `json:"specialization"`
		Status         *string `json:"status"`
		Date           *string `json:"date"`
		StartDate      *string `json:"start_date"`
		EndDate        *string `json:"end_date"`
		Search         *string `json:"search"`
		Page           *int    `json:"page"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cons.Lock()
	defer cons.Unlock()
	f := cons.Filters
	if body.View != nil {
		f.SetView(filters.View(*body.View))
	}
	if body.BranchID != nil {
		f.SetBranch(*body.BranchID)
	}
	if body.DoctorID != nil {
		f.SetDoctor(*body.DoctorID)
	}
	if body.Specialization != nil {
		f.SetSpecialization(*body.Specialization)
	}
	if body.Status != nil {
		f.SetStatus(*body.Status)
	}
	if body.Date != nil {
		f.SetDate(*body.Date)
	}
	if body.StartDate != nil || body.EndDate != nil {
		var start, end string
		if body.StartDate != nil {
			start = *body.StartDate
		}
		if body.EndDate != nil {
			end = *body.EndDate
		}
		f.SetDateRange(start, end)
	}
	if body.Search != nil {
		f.SetSearch(*body.Search)
	}
	if body.Page != nil {
		f.SetPage(*body.Page)
	}
	return ok(c, f.State())
}

// POST /console/filters/clear
func (h *ConsoleHandler) ClearFilters(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	cons.Filters.Clear()
	return ok(c, cons.Filters.State())
}

// ---------------------------------------------------------------------------
// Appointment page
// ---------------------------------------------------------------------------

// GET /console/appointments
func (h *ConsoleHandler) ListAppointments(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	page := cons.List.Refresh(c.Context(), cons.Filters)
	return ok(c, page)
}

// ---------------------------------------------------------------------------
// Slots
// ---------------------------------------------------------------------------

// GET /console/slots?doctor_id=&date=&branch_id=
func (h *ConsoleHandler) GetSlots(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	result := cons.Slots.Fetch(
		c.Context(),
		c.Query("doctor_id"),
		c.Query("date"),
		c.Query("branch_id"),
	)
	return ok(c, result)
}

// ---------------------------------------------------------------------------
// Patient search
// ---------------------------------------------------------------------------

// GET /console/patients/search?q=&branch_id=
func (h *ConsoleHandler) SearchPatients(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	candidates, err := cons.Search.Search(c.Context(), c.Query("q"), c.Query("branch_id"))
	if err != nil {
		// Transient: the picker shows an empty list and a retry hint.
		return ok(c, fiber.Map{
			"patients": []any{},
			"error":    "patient search is temporarily unavailable",
		})
	}
	return ok(c, fiber.Map{"patients": candidates})
}

// POST /console/patients/typeahead
//
// Registers a keystroke with the debounced search. The search fires after
// the configured delay unless a fresher keystroke arrives, so rapid typing
// issues a single upstream call. Candidates land asynchronously and are
// read back through GET /console/patients/candidates.
func (h *ConsoleHandler) TypeaheadInput(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}

	var body struct {
		Query    string `json:"query"`
		BranchID string `json:"branch_id"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	cons.Typeahead.Input(body.Query, body.BranchID)
	return noContent(c)
}

// GET /console/patients/candidates
func (h *ConsoleHandler) GetCandidates(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	return ok(c, cons.Candidates())
}
