// Package upstreamtest provides a configurable in-memory upstream.Client for
// tests. Behavior is injected per method through function fields; methods
// without an injected function return empty results.
package upstreamtest

import (
	"context"
	"sync"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

type Fake struct {
	mu    sync.Mutex
	calls []string

	ListBranchesFn          func(ctx context.Context) ([]model.Branch, error)
	ListDoctorsFn           func(ctx context.Context, branchID string) ([]model.Doctor, error)
	ListAppointmentsFn      func(ctx context.Context, params upstream.ListAppointmentsParams) (*upstream.AppointmentPage, error)
	GetAvailableSlotsFn     func(ctx context.Context, doctorID, date, branchID string) ([]model.Slot, error)
	SearchPatientsFn        func(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error)
	CreateAppointmentFn     func(ctx context.Context, req upstream.CreateAppointmentRequest) (*upstream.BookingResult, error)
	RescheduleAppointmentFn func(ctx context.Context, appointmentID string, req upstream.RescheduleRequest) error
	CancelAppointmentFn     func(ctx context.Context, appointmentID string, req upstream.CancelRequest) error
	ListSessionsFn          func(ctx context.Context, params upstream.ListSessionsParams) ([]model.Session, error)
	DeleteSessionFn         func(ctx context.Context, sessionID string) error
}

var _ upstream.Client = (*Fake)(nil)

func (f *Fake) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
}

// Calls returns the method names invoked so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times the named method was invoked.
func (f *Fake) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *Fake) ListBranches(ctx context.Context) ([]model.Branch, error) {
	f.record("ListBranches")
	if f.ListBranchesFn != nil {
		return f.ListBranchesFn(ctx)
	}
	return []model.Branch{}, nil
}

func (f *Fake) ListDoctors(ctx context.Context, branchID string) ([]model.Doctor, error) {
	f.record("ListDoctors")
	if f.ListDoctorsFn != nil {
		return f.ListDoctorsFn(ctx, branchID)
	}
	return []model.Doctor{}, nil
}

func (f *Fake) ListAppointments(ctx context.Context, params upstream.ListAppointmentsParams) (*upstream.AppointmentPage, error) {
	f.record("ListAppointments")
	if f.ListAppointmentsFn != nil {
		return f.ListAppointmentsFn(ctx, params)
	}
	return &upstream.AppointmentPage{Appointments: []model.Appointment{}, TotalPages: 0}, nil
}

func (f *Fake) GetAvailableSlots(ctx context.Context, doctorID, date, branchID string) ([]model.Slot, error) {
	f.record("GetAvailableSlots")
	if f.GetAvailableSlotsFn != nil {
		return f.GetAvailableSlotsFn(ctx, doctorID, date, branchID)
	}
	return []model.Slot{}, nil
}

func (f *Fake) SearchPatients(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
	f.record("SearchPatients")
	if f.SearchPatientsFn != nil {
		return f.SearchPatientsFn(ctx, query, branchID)
	}
	return []model.PatientCandidate{}, nil
}

func (f *Fake) CreateAppointment(ctx context.Context, req upstream.CreateAppointmentRequest) (*upstream.BookingResult, error) {
	f.record("CreateAppointment")
	if f.CreateAppointmentFn != nil {
		return f.CreateAppointmentFn(ctx, req)
	}
	return &upstream.BookingResult{}, nil
}

func (f *Fake) RescheduleAppointment(ctx context.Context, appointmentID string, req upstream.RescheduleRequest) error {
	f.record("RescheduleAppointment")
	if f.RescheduleAppointmentFn != nil {
		return f.RescheduleAppointmentFn(ctx, appointmentID, req)
	}
	return nil
}

func (f *Fake) CancelAppointment(ctx context.Context, appointmentID string, req upstream.CancelRequest) error {
	f.record("CancelAppointment")
	if f.CancelAppointmentFn != nil {
		return f.CancelAppointmentFn(ctx, appointmentID, req)
	}
	return nil
}

func (f *Fake) ListSessions(ctx context.Context, params upstream.ListSessionsParams) ([]model.Session, error) {
	f.record("ListSessions")
	if f.ListSessionsFn != nil {
		return f.ListSessionsFn(ctx, params)
	}
	return []model.Session{}, nil
}

func (f *Fake) DeleteSession(ctx context.Context, sessionID string) error {
	f.record("DeleteSession")
	if f.DeleteSessionFn != nil {
		return f.DeleteSessionFn(ctx, sessionID)
	}
	return nil
}
