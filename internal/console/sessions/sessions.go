// Package sessions aggregates appointments into doctor-session cards and
// carries the session-level actions, including the cascade delete that also
// removes every appointment linked to the session (enforced upstream).
package sessions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/events"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

// ActionHint is passed alongside a session id when navigating into the
// session-detail surface; Manage and Assign Staff land on the same surface
// with a different initial sub-action.
type ActionHint string

const (
	HintManage      ActionHint = "manage"
	HintAssignStaff ActionHint = "assign_staff"
)

// Card is one session rendered for the grouping view.
type Card struct {
	model.Session
	FillRatio float64 `json:"fill_ratio"`
	FillLabel string  `json:"fill_label"`
}

// Detail is the currently open session-detail surface, if any.
type Detail struct {
	SessionID string     `json:"session_id"`
	Hint      ActionHint `json:"hint"`
}

// View holds one operator's session grouping state. Not safe for concurrent
// use; the owning console serializes access.
type View struct {
	api       upstream.Client
	publisher events.Publisher

	cards  []Card
	errMsg string
	detail *Detail
}

func NewView(api upstream.Client, publisher events.Publisher) *View {
	if publisher == nil {
		publisher = events.NewNop()
	}
	return &View{api: api, publisher: publisher, cards: []Card{}}
}

func (v *View) Cards() []Card        { return v.cards }
func (v *View) ErrorMessage() string { return v.errMsg }
func (v *View) Detail() *Detail      { return v.detail }

// Refresh re-derives the cards from the upstream session list. On failure
// the cards clear to empty with an error indicator, matching the list
// coordinator's no-stale rule.
func (v *View) Refresh(ctx context.Context, params upstream.ListSessionsParams) ([]Card, error) {
	sessions, err := v.api.ListSessions(ctx, params)
	if err != nil {
		slog.Error("session list refresh failed", "err", err)
		v.cards = []Card{}
		v.errMsg = "failed to load sessions"
		return v.cards, fmt.Errorf("refresh sessions: %w", err)
	}
	v.errMsg = ""
	v.cards = lo.Map(sessions, func(s model.Session, _ int) Card {
		return newCard(s)
	})
	return v.cards, nil
}

func newCard(s model.Session) Card {
	label := fmt.Sprintf("%d / %d", s.AppointmentCount, s.TotalSlots)
	if s.TotalSlots == 0 {
		// Zero-capacity sessions render as "0 total" instead of dividing.
		label = "0 total"
	}
	return Card{Session: s, FillRatio: s.FillRatio(), FillLabel: label}
}

// OpenDetail navigates into the session-detail surface.
func (v *View) OpenDetail(sessionID string, hint ActionHint) {
	if hint != HintManage && hint != HintAssignStaff {
		hint = HintManage
	}
	v.detail = &Detail{SessionID: sessionID, Hint: hint}
}

// CloseDetail leaves the detail surface.
func (v *View) CloseDetail() {
	v.detail = nil
}

// Delete removes a session and, through the upstream cascade, all of its
// linked appointments. Whether or not the deletion succeeds, a detail view
// open on that session is closed so the console never keeps referencing a
// possibly-deleted entity; the failure itself is still reported.
func (v *View) Delete(ctx context.Context, sessionID string) error {
	err := v.api.DeleteSession(ctx, sessionID)

	if v.detail != nil && v.detail.SessionID == sessionID {
		v.detail = nil
	}

	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	v.publisher.SessionDeleted(sessionID)
	return nil
}
