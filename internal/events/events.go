// Package events publishes appointment lifecycle events to NATS for
// decoupled follow-up work (confirmation SMS, cache invalidation).
package events

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
)

const (
	SubjectAppointmentCreated     = "hms.appointment.created"
	SubjectAppointmentRescheduled = "hms.appointment.rescheduled"
	SubjectAppointmentCancelled   = "hms.appointment.cancelled"
	SubjectSessionDeleted         = "hms.session.deleted"
)

// CreatedPayload rides on SubjectAppointmentCreated.
type CreatedPayload struct {
	Appointment model.Appointment `json:"appointment"`
	// NotifyPhone is set when the booking draft asked for a confirmation
	// SMS; empty means no notification.
	NotifyPhone string `json:"notify_phone,omitempty"`
}

type Publisher interface {
	AppointmentCreated(p CreatedPayload)
	AppointmentRescheduled(appointmentID string)
	AppointmentCancelled(appointmentID string)
	SessionDeleted(sessionID string)
}

// ---------------------------------------------------------------------------
// NATS publisher
// ---------------------------------------------------------------------------

type natsPublisher struct {
	nc *nats.Conn
}

func NewNats(nc *nats.Conn) Publisher {
	return &natsPublisher{nc: nc}
}

func (p *natsPublisher) AppointmentCreated(payload CreatedPayload) {
	b, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("events: marshal created payload failed", "err", err)
		return
	}
	p.publish(SubjectAppointmentCreated+"."+payload.Appointment.ID, b)
}

func (p *natsPublisher) AppointmentRescheduled(appointmentID string) {
	p.publish(SubjectAppointmentRescheduled+"."+appointmentID, []byte(appointmentID))
}

func (p *natsPublisher) AppointmentCancelled(appointmentID string) {
	p.publish(SubjectAppointmentCancelled+"."+appointmentID, []byte(appointmentID))
}

func (p *natsPublisher) SessionDeleted(sessionID string) {
	p.publish(SubjectSessionDeleted+"."+sessionID, []byte(sessionID))
}

func (p *natsPublisher) publish(subject string, data []byte) {
	if err := p.nc.Publish(subject, data); err != nil {
		slog.Warn("events: publish failed", "subject", subject, "err", err)
	}
}

// ---------------------------------------------------------------------------
// No-op publisher (NATS disabled)
// ---------------------------------------------------------------------------

type nopPublisher struct{}

func NewNop() Publisher { return nopPublisher{} }

func (nopPublisher) AppointmentCreated(CreatedPayload) {}
func (nopPublisher) AppointmentRescheduled(string)     {}
func (nopPublisher) AppointmentCancelled(string)       {}
func (nopPublisher) SessionDeleted(string)             {}
