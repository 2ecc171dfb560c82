// Package upstream provides a typed client for the remote clinic API that
// owns branches, doctors, appointments, sessions and patients. The console
// never mutates those collections directly; every state transition goes
// through this client.
package upstream

import (
	"context"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
)

// ---------------------------------------------------------------------------
// Request / response records
// ---------------------------------------------------------------------------

type ListAppointmentsParams struct {
	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
	Date      string `json:"date,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	BranchID  string `json:"branch_id,omitempty"`
	Status    string `json:"status,omitempty"`
	DoctorID  string `json:"doctor_id,omitempty"`
}

type AppointmentPage struct {
	Appointments []model.Appointment `json:"appointments"`
	TotalPages   int                 `json:"total_pages"`
}

type CreateAppointmentRequest struct {
	BranchID    string            `json:"branch_id"`
	DoctorID    string            `json:"doctor_id"`
	PatientID   string            `json:"patient_id,omitempty"`
	Date        string            `json:"appointment_date"`
	SlotNumber  int               `json:"slot_number"`
	BookingType model.BookingType `json:"booking_type"`
	Notes       string            `json:"notes,omitempty"`

	// NewPatient is set on the register-new path; the backend creates the
	// patient record atomically with the appointment.
	NewPatient *model.PatientDraft `json:"new_patient,omitempty"`
}

type BookingResult struct {
	Appointment model.Appointment         `json:"appointment"`
	Credentials *model.PatientCredentials `json:"patient_credentials,omitempty"`
}

type RescheduleRequest struct {
	NewDoctorID   string `json:"new_doctor_id"`
	NewDate       string `json:"new_date"`
	NewSlotNumber int    `json:"new_slot_number"`
	NewBranchID   string `json:"new_branch_id"`
	Reason        string `json:"reason"`
}

type CancelRequest struct {
	Reason            string `json:"reason"`
	IsDoctorRequested bool   `json:"is_doctor_requested"`
}

type ListSessionsParams struct {
	SessionDate string `json:"session_date,omitempty"`
	BranchID    string `json:"branch_id,omitempty"`
	DoctorID    string `json:"doctor_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Client interface {
	ListBranches(ctx context.Context) ([]model.Branch, error)
	// ListDoctors returns all doctors with their branch association when
	// branchID is empty, otherwise only that branch's doctors.
	ListDoctors(ctx context.Context, branchID string) ([]model.Doctor, error)

	ListAppointments(ctx context.Context, params ListAppointmentsParams) (*AppointmentPage, error)
	GetAvailableSlots(ctx context.Context, doctorID, date, branchID string) ([]model.Slot, error)
	SearchPatients(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error)

	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*BookingResult, error)
	RescheduleAppointment(ctx context.Context, appointmentID string, req RescheduleRequest) error
	CancelAppointment(ctx context.Context, appointmentID string, req CancelRequest) error

	ListSessions(ctx context.Context, params ListSessionsParams) ([]model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
