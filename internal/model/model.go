// Package model holds the ephemeral records the console derives from the
// remote clinic API. Every entity here is owned and mutated upstream; the
// console keeps copies scoped to the current view and discards them on
// navigation.
package model

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Appointment
// ---------------------------------------------------------------------------

type AppointmentStatus string

const (
	StatusPending        AppointmentStatus = "pending"
	StatusPendingPayment AppointmentStatus = "pending_payment"
	StatusConfirmed      AppointmentStatus = "confirmed"
	StatusCheckedIn      AppointmentStatus = "checked_in"
	StatusInSession      AppointmentStatus = "in_session"
	StatusCompleted      AppointmentStatus = "completed"
	StatusCancelled      AppointmentStatus = "cancelled"
	StatusRescheduled    AppointmentStatus = "rescheduled"
	StatusNoShow         AppointmentStatus = "no_show"
)

// IsTerminal reports whether the status forbids edit/cancel actions.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentWaived   PaymentStatus = "waived"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type BookingType string

const (
	BookingWalkIn BookingType = "walk_in"
	BookingPhone  BookingType = "phone"
	BookingOnline BookingType = "online"
)

type Appointment struct {
	ID              string            `json:"id"`
	BranchID        string            `json:"branch_id"`
	BranchName      string            `json:"branch_name"`
	DoctorID        string            `json:"doctor_id"`
	DoctorName      string            `json:"doctor_name"`
	PatientID       string            `json:"patient_id"`
	PatientName     string            `json:"patient_name"`
	AppointmentDate string            `json:"appointment_date"` // calendar date, 2006-01-02
	AppointmentTime string            `json:"appointment_time"` // estimated clock time
	SlotNumber      int               `json:"slot_number"`
	Status          AppointmentStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	BookingType     BookingType       `json:"booking_type"`
	Notes           string            `json:"notes,omitempty"`
	TokenNumber     string            `json:"token_number,omitempty"`
}

// ---------------------------------------------------------------------------
// Slot / Session
// ---------------------------------------------------------------------------

type Slot struct {
	SlotNumber  int    `json:"slot_number"`
	Time        string `json:"time"`
	IsAvailable bool   `json:"is_available"`
}

type Session struct {
	ID                 string `json:"id"`
	DoctorName         string `json:"doctor_name"`
	BranchName         string `json:"branch_name"`
	SessionDate        string `json:"session_date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Status             string `json:"status"`
	AppointmentCount   int    `json:"appointment_count"`
	TotalSlots         int    `json:"total_slots"`
	AssignedStaffCount int    `json:"assigned_staff_count"`
}

// FillRatio returns appointment_count/total_slots, zero when the session
// has no slots at all.
func (s Session) FillRatio() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.AppointmentCount) / float64(s.TotalSlots)
}

// ---------------------------------------------------------------------------
// Directory entities (read-only here)
// ---------------------------------------------------------------------------

type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
	BranchID       string `json:"branch_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Patient
// ---------------------------------------------------------------------------

// PatientCandidate is a resolved reference from patient search.
type PatientCandidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	NIC   string `json:"nic"`
}

// PatientDraft is the unsaved data for a patient that is created as a side
// effect of a successful booking submission.
type PatientDraft struct {
	FullName     string `json:"full_name"`
	MobileNumber string `json:"mobile_number"`
	NIC          string `json:"nic,omitempty"`
	Gender       string `json:"gender,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	Address      string `json:"address,omitempty"`
	SendSMS      bool   `json:"send_sms"`
}

// PatientCredentials is issued by the backend when a booking registers a new
// patient. Displayed once, never stored.
type PatientCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ---------------------------------------------------------------------------
// Date handling
// ---------------------------------------------------------------------------

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// NormalizeDate reduces any of the timestamp formats the backend emits to a
// calendar date (2006-01-02).
func NormalizeDate(s string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}
