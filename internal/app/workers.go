package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/directory"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/events"
	svcsms "github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/pkg/sms"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc  fx.Lifecycle
	NC  *nats.Conn
	SMS *svcsms.Client
	Dir directory.Service
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("workers disabled: no NATS connection")
		return
	}
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startSMSWorker(p.NC, p.SMS)
			startDirectoryWorker(p.NC, p.Dir)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// sms_worker
// ---------------------------------------------------------------------------

// startSMSWorker sends the booking confirmation when a created event carries
// a notify phone. The send happens off the request path so a slow SMS
// gateway never delays the booking response.
func startSMSWorker(nc *nats.Conn, smsCli *svcsms.Client) {
	_, err := nc.Subscribe(events.SubjectAppointmentCreated+".*", func(msg *nats.Msg) {
		var payload events.CreatedPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			slog.Warn("sms_worker: bad created payload", "subject", msg.Subject, "err", err)
			return
		}
		if payload.NotifyPhone == "" {
			return
		}

		ctx := context.Background()
		err := smsCli.SendBookingConfirmation(ctx, payload.NotifyPhone, payload.Appointment.TokenNumber)
		if err != nil {
			slog.Warn("sms_worker: confirmation send failed",
				"appointment_id", payload.Appointment.ID, "err", err)
			return
		}
		slog.Debug("sms_worker: confirmation sent", "appointment_id", payload.Appointment.ID)
	})
	if err != nil {
		slog.Error("sms_worker: subscribe appointment.created failed", "err", err)
	}

	slog.Info("sms_worker: started")
}

// ---------------------------------------------------------------------------
// directory_worker
// ---------------------------------------------------------------------------

// startDirectoryWorker drops the cached branch and doctor directory when a
// session is deleted, since session deletion usually follows a roster
// change.
func startDirectoryWorker(nc *nats.Conn, dir directory.Service) {
	_, err := nc.Subscribe(events.SubjectSessionDeleted+".*", func(msg *nats.Msg) {
		sessionID := strings.TrimPrefix(msg.Subject, events.SubjectSessionDeleted+".")
		dir.Invalidate(context.Background())
		slog.Debug("directory_worker: cache invalidated", "session_id", sessionID)
	})
	if err != nil {
		slog.Error("directory_worker: subscribe session.deleted failed", "err", err)
	}

	slog.Info("directory_worker: started")
}
