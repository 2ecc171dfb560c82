package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/samber/lo"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/booking"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/patients"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

type BookingHandler struct {
	registry *console.Registry
}

func NewBookingHandler(registry *console.Registry) *BookingHandler {
	return &BookingHandler{registry: registry}
}

func (h *BookingHandler) console(c fiber.Ctx) (*console.Console, bool) {
	op := c.Get(HeaderOperatorID)
	if op == "" {
		return nil, false
	}
	return h.registry.Get(op), true
}

// modalState is the booking modal as the console renders it.
func modalState(m *booking.Manager) fiber.Map {
	p := m.Patient()
	state := fiber.Map{
		"phase": m.Phase(),
		"form":  m.Form(),
		"slots": m.Slots(),
		"patient": fiber.Map{
			"mode":     p.Mode(),
			"query":    p.Query(),
			"selected": p.Selected(),
			"draft":    p.Draft(),
		},
	}
	if msg := m.ErrorMessage(); msg != "" {
		state["error"] = msg
	}
	if s := m.Success(); s != nil {
		state["success"] = s
	}
	if e := m.Editing(); e != nil {
		state["editing"] = e
	}
	return state
}

// ---------------------------------------------------------------------------
// Modal lifecycle
// ---------------------------------------------------------------------------

// GET /console/booking
func (h *BookingHandler) GetModal(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	return ok(c, modalState(cons.Booking))
}

// POST /console/booking/open
func (h *BookingHandler) Open(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}

	var body struct {
		AppointmentID string `json:"appointment_id"`
	}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&body); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	cons.Lock()
	defer cons.Unlock()
	if body.AppointmentID == "" {
		cons.Booking.OpenCreate()
		return ok(c, modalState(cons.Booking))
	}

	appt, found := lo.Find(cons.List.Current().Items, func(a model.Appointment) bool {
		return a.ID == body.AppointmentID
	})
	if !found {
		return notFound(c, "appointment not found on the current page")
	}
	if err := cons.Booking.OpenEdit(appt); err != nil {
		return conflict(c, err.Error())
	}
	return ok(c, modalState(cons.Booking))
}

// POST /console/booking/close
func (h *BookingHandler) Close(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	cons.Booking.Close()
	return noContent(c)
}

// ---------------------------------------------------------------------------
// Form fields
// ---------------------------------------------------------------------------

// PATCH /console/booking
//
// Changing the doctor, date or branch re-resolves the slot list in the same
// request so the response always carries a slot list consistent with the
// form.
func (h *BookingHandler) UpdateForm(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}

	var body struct {
		BranchID    *string `json:"branch_id"`
		DoctorID    *string `json:"doctor_id"`
		Date        *string `json:"date"`
		SlotNumber  *int    `json:"slot_number"`
		BookingType *string `json:"booking_type"`
		Notes       *string `json:"notes"`
		Reason      *string `json:"reason"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cons.Lock()
	defer cons.Unlock()
	m := cons.Booking
	slotInputsChanged := false
	if body.BranchID != nil {
		m.SetBranch(*body.BranchID)
		slotInputsChanged = true
	}
	if body.DoctorID != nil {
		m.SetDoctor(*body.DoctorID)
		slotInputsChanged = true
	}
	if body.Date != nil {
		m.SetDate(*body.Date)
		slotInputsChanged = true
	}
	if body.SlotNumber != nil {
		m.SetSlot(*body.SlotNumber)
	}
	if body.BookingType != nil {
		m.SetBookingType(model.BookingType(*body.BookingType))
	}
	if body.Notes != nil {
		m.SetNotes(*body.Notes)
	}
	if body.Reason != nil {
		m.SetReason(*body.Reason)
	}
	if slotInputsChanged {
		m.RefreshSlots(c.Context())
	}
	return ok(c, modalState(m))
}

// POST /console/booking/slots/refresh
func (h *BookingHandler) RefreshSlots(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	cons.Booking.RefreshSlots(c.Context())
	return ok(c, modalState(cons.Booking))
}

// ---------------------------------------------------------------------------
// Patient source
// ---------------------------------------------------------------------------

// PATCH /console/booking/patient
func (h *BookingHandler) UpdatePatient(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}

	var body struct {
		Mode     *string                 `json:"mode"`
		Query    *string                 `json:"query"`
		Selected *model.PatientCandidate `json:"selected"`
		Draft    *model.PatientDraft     `json:"draft"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cons.Lock()
	defer cons.Unlock()
	p := cons.Booking.Patient()
	if body.Mode != nil {
		p.SetMode(patients.Mode(*body.Mode))
	}
	if body.Query != nil {
		p.SetQuery(*body.Query)
	}
	if body.Selected != nil {
		p.Select(*body.Selected)
	}
	if body.Draft != nil {
		p.SetDraft(*body.Draft)
	}
	return ok(c, modalState(cons.Booking))
}

// ---------------------------------------------------------------------------
// Submission
// ---------------------------------------------------------------------------

// POST /console/bookings
func (h *BookingHandler) Submit(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()

	info, err := cons.Booking.Create(c.Context())
	if err != nil {
		return submissionError(c, cons, err)
	}
	resp := modalState(cons.Booking)
	resp["success"] = info
	return created(c, resp)
}

// POST /console/bookings/:id/reschedule
func (h *BookingHandler) Reschedule(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()

	editing := cons.Booking.Editing()
	if editing == nil || editing.ID != c.Params("id") {
		return conflict(c, "appointment is not open for editing")
	}
	if err := cons.Booking.Reschedule(c.Context()); err != nil {
		return submissionError(c, cons, err)
	}
	return ok(c, modalState(cons.Booking))
}

// POST /console/bookings/:id/cancel
func (h *BookingHandler) Cancel(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}

	var body struct {
		Reason          string `json:"reason"`
		DoctorRequested bool   `json:"doctor_requested"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cons.Lock()
	defer cons.Unlock()

	id := c.Params("id")
	appt, found := lo.Find(cons.List.Current().Items, func(a model.Appointment) bool {
		return a.ID == id
	})
	if !found {
		return notFound(c, "appointment not found on the current page")
	}
	if err := cons.Booking.Cancel(c.Context(), appt, body.Reason, body.DoctorRequested); err != nil {
		return submissionError(c, cons, err)
	}
	page := cons.List.Refresh(c.Context(), cons.Filters)
	return ok(c, fiber.Map{"modal": modalState(cons.Booking), "appointments": page})
}

// submissionError maps a booking failure onto an HTTP status while still
// returning the modal state the console needs to render the failure.
func submissionError(c fiber.Ctx, cons *console.Console, err error) error {
	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		return unprocessable(c, ve.Field, ve.Message)
	case errors.Is(err, booking.ErrNotEditable),
		errors.Is(err, booking.ErrBusy),
		errors.Is(err, booking.ErrNoTarget):
		return conflict(c, err.Error())
	case errors.Is(err, upstream.ErrSlotTaken):
		return conflict(c, cons.Booking.ErrorMessage())
	default:
		return badGateway(c, cons.Booking.ErrorMessage())
	}
}
