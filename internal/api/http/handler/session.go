package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/sessions"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

type SessionHandler struct {
	registry *console.Registry
}

func NewSessionHandler(registry *console.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

func (h *SessionHandler) console(c fiber.Ctx) (*console.Console, bool) {
	op := c.Get(HeaderOperatorID)
	if op == "" {
		return nil, false
	}
	return h.registry.Get(op), true
}

func sessionsState(v *sessions.View) fiber.Map {
	state := fiber.Map{"sessions": v.Cards()}
	if msg := v.ErrorMessage(); msg != "" {
		state["error"] = msg
	}
	if d := v.Detail(); d != nil {
		state["detail"] = d
	}
	return state
}

// GET /console/sessions?session_date=&branch_id=&doctor_id=
func (h *SessionHandler) List(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	cons.Sessions.Refresh(c.Context(), upstream.ListSessionsParams{
		SessionDate: c.Query("session_date"),
		BranchID:    c.Query("branch_id"),
		DoctorID:    c.Query("doctor_id"),
	})
	return ok(c, sessionsState(cons.Sessions))
}

// GET /console/sessions/detail
func (h *SessionHandler) GetDetail(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	d := cons.Sessions.Detail()
	if d == nil {
		return notFound(c, "no session detail is open")
	}
	return ok(c, d)
}

// PUT /console/sessions/detail
func (h *SessionHandler) OpenDetail(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}

	var body struct {
		SessionID string `json:"session_id"`
		Hint      string `json:"hint"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.SessionID == "" {
		return badRequest(c, "session_id is required")
	}

	cons.Lock()
	defer cons.Unlock()
	cons.Sessions.OpenDetail(body.SessionID, sessions.ActionHint(body.Hint))
	return ok(c, sessionsState(cons.Sessions))
}

// DELETE /console/sessions/detail
func (h *SessionHandler) CloseDetail(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	cons.Lock()
	defer cons.Unlock()
	cons.Sessions.CloseDetail()
	return noContent(c)
}

// DELETE /console/sessions/:id
//
// Deleting a session cascades to its appointments upstream, so both the
// session cards and the appointment page are re-pulled before responding.
func (h *SessionHandler) Delete(c fiber.Ctx) error {
	cons, valid := h.console(c)
	if !valid {
		return badRequest(c, "missing operator id")
	}
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "session id is required")
	}

	cons.Lock()
	defer cons.Unlock()

	if err := cons.Sessions.Delete(c.Context(), id); err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return notFound(c, "session not found")
		}
		return badGateway(c, "failed to delete the session")
	}

	cons.Sessions.Refresh(c.Context(), upstream.ListSessionsParams{})
	page := cons.List.Refresh(c.Context(), cons.Filters)
	return ok(c, fiber.Map{
		"sessions":     sessionsState(cons.Sessions),
		"appointments": page,
	})
}
