// Package booking implements the lifecycle state machine for creating,
// rescheduling and cancelling a single appointment. Every submission is
// all-or-nothing: either the whole operation succeeds upstream or the prior
// appointment state stands unchanged.
package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/patients"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/slots"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/events"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

type Phase string

const (
	PhaseDraft      Phase = "draft"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

// DefaultAutoDismiss is how long a success notice stays up before the modal
// closes and the list refreshes.
const DefaultAutoDismiss = 2 * time.Second

// Form is the booking/reschedule form state. SlotNumber 0 means no slot
// chosen.
type Form struct {
	BranchID    string            `json:"branch_id"`
	DoctorID    string            `json:"doctor_id"`
	Date        string            `json:"date"`
	SlotNumber  int               `json:"slot_number"`
	BookingType model.BookingType `json:"booking_type"`
	Notes       string            `json:"notes"`
	Reason      string            `json:"reason"`
}

// SuccessInfo is surfaced exactly once after a successful submission.
type SuccessInfo struct {
	TokenNumber string                    `json:"token_number,omitempty"`
	Credentials *model.PatientCredentials `json:"patient_credentials,omitempty"`
	DismissIn   time.Duration             `json:"-"`
}

// Manager governs one operator's booking modal. It is not safe for
// concurrent use; the owning console serializes access.
type Manager struct {
	api         upstream.Client
	resolver    *slots.Resolver
	patient     *patients.Resolver
	publisher   events.Publisher
	autoDismiss time.Duration
	onDismiss   func(gen uint64) // closes the modal and refreshes the list

	phase    Phase
	form     Form
	errMsg   string
	editing  *model.Appointment
	slotList slots.Result
	success  *SuccessInfo

	// dismissGen identifies which success notice a pending auto-dismiss
	// timer belongs to. Any transition that makes the notice stale bumps
	// it, so a timer scheduled for a superseded success never fires a
	// dismissal.
	dismissGen uint64
}

func NewManager(api upstream.Client, resolver *slots.Resolver, publisher events.Publisher, autoDismiss time.Duration, onDismiss func(gen uint64)) *Manager {
	if autoDismiss <= 0 {
		autoDismiss = DefaultAutoDismiss
	}
	if publisher == nil {
		publisher = events.NewNop()
	}
	return &Manager{
		api:         api,
		resolver:    resolver,
		patient:     patients.NewResolver(),
		publisher:   publisher,
		autoDismiss: autoDismiss,
		onDismiss:   onDismiss,
		phase:       PhaseDraft,
		form:        Form{BookingType: model.BookingWalkIn},
	}
}

func (m *Manager) Phase() Phase                { return m.phase }
func (m *Manager) Form() Form                  { return m.form }
func (m *Manager) ErrorMessage() string        { return m.errMsg }
func (m *Manager) Success() *SuccessInfo       { return m.success }
func (m *Manager) Patient() *patients.Resolver { return m.patient }
func (m *Manager) Slots() slots.Result         { return m.slotList }
func (m *Manager) Editing() *model.Appointment { return m.editing }

// ---------------------------------------------------------------------------
// Modal open/close
// ---------------------------------------------------------------------------

// OpenCreate starts a fresh booking draft.
func (m *Manager) OpenCreate() {
	m.reset()
}

// OpenEdit pre-seeds the reschedule form from an existing appointment. The
// stored date is normalized to a calendar date regardless of the timestamp
// format the backend used.
func (m *Manager) OpenEdit(appt model.Appointment) error {
	if appt.Status.IsTerminal() {
		return ErrNotEditable
	}
	m.reset()
	date := appt.AppointmentDate
	if normalized, err := model.NormalizeDate(date); err == nil {
		date = normalized
	}
	a := appt
	m.editing = &a
	m.form = Form{
		BranchID:    appt.BranchID,
		DoctorID:    appt.DoctorID,
		Date:        date,
		SlotNumber:  appt.SlotNumber,
		BookingType: appt.BookingType,
		Notes:       appt.Notes,
	}
	return nil
}

// Close discards the modal state entirely; form fields reset to empty.
func (m *Manager) Close() {
	m.reset()
}

func (m *Manager) reset() {
	m.dismissGen++
	m.phase = PhaseDraft
	m.form = Form{BookingType: model.BookingWalkIn}
	m.errMsg = ""
	m.editing = nil
	m.slotList = slots.Result{Slots: []model.Slot{}}
	m.success = nil
	m.patient.Reset()
}

// ---------------------------------------------------------------------------
// Field mutations
// ---------------------------------------------------------------------------

func (m *Manager) SetBranch(id string) {
	m.form.BranchID = id
}

// SetDoctor invalidates the chosen slot: a slot number only means something
// within its (doctor, branch, date) triple.
func (m *Manager) SetDoctor(id string) {
	if m.form.DoctorID != id {
		m.form.SlotNumber = 0
		m.slotList = slots.Result{Slots: []model.Slot{}}
	}
	m.form.DoctorID = id
}

func (m *Manager) SetDate(date string) {
	if m.form.Date != date {
		m.form.SlotNumber = 0
		m.slotList = slots.Result{Slots: []model.Slot{}}
	}
	m.form.Date = date
}

func (m *Manager) SetSlot(n int)                      { m.form.SlotNumber = n }
func (m *Manager) SetBookingType(t model.BookingType) { m.form.BookingType = t }
func (m *Manager) SetNotes(s string)                  { m.form.Notes = s }
func (m *Manager) SetReason(s string)                 { m.form.Reason = s }

// RefreshSlots re-resolves the slot list for the current doctor/date
// selection. Missing inputs yield an empty list without an upstream call.
func (m *Manager) RefreshSlots(ctx context.Context) slots.Result {
	m.slotList = m.resolver.Fetch(ctx, m.form.DoctorID, m.form.Date, m.form.BranchID)
	return m.slotList
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

// Create validates the draft locally and submits it. Validation failures
// never reach the network.
func (m *Manager) Create(ctx context.Context) (*SuccessInfo, error) {
	if m.phase == PhaseSubmitting {
		return nil, ErrBusy
	}
	m.phase = PhaseValidating
	m.errMsg = ""

	if err := m.validateCreate(); err != nil {
		m.fail(err.Error())
		return nil, err
	}

	req := upstream.CreateAppointmentRequest{
		BranchID:    m.form.BranchID,
		DoctorID:    m.form.DoctorID,
		Date:        m.form.Date,
		SlotNumber:  m.form.SlotNumber,
		BookingType: m.form.BookingType,
		Notes:       m.form.Notes,
	}

	patientID, draft, err := m.patient.Resolved()
	if err != nil {
		// Unreachable after validateCreate, kept as a transition guard.
		m.fail(err.Error())
		return nil, err
	}
	var notifyPhone string
	if draft != nil {
		if normalized, err := patients.NormalizeMobile(draft.MobileNumber); err == nil {
			draft.MobileNumber = normalized
		}
		if draft.SendSMS {
			notifyPhone = draft.MobileNumber
		}
		req.NewPatient = draft
	} else {
		req.PatientID = patientID
	}

	m.phase = PhaseSubmitting
	result, err := m.api.CreateAppointment(ctx, req)
	if err != nil {
		m.fail(submissionMessage(err, "failed to create the appointment"))
		return nil, err
	}

	m.publisher.AppointmentCreated(events.CreatedPayload{
		Appointment: result.Appointment,
		NotifyPhone: notifyPhone,
	})
	return m.succeed(result), nil
}

func (m *Manager) validateCreate() error {
	if m.form.BranchID == "" {
		return validationErr("branch_id", "Please select a branch")
	}
	if m.form.DoctorID == "" {
		return validationErr("doctor_id", "Please select a doctor")
	}
	if m.form.Date == "" {
		return validationErr("date", "Please select a date")
	}
	if m.form.SlotNumber <= 0 {
		return validationErr("slot_number", "Please select a time slot")
	}
	if _, _, err := m.patient.Resolved(); err != nil {
		return validationErr("patient", err.Error())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reschedule
// ---------------------------------------------------------------------------

// Reschedule submits the edit form for the open appointment. Terminal
// statuses are refused here as well, independent of the presentation layer
// hiding the action.
func (m *Manager) Reschedule(ctx context.Context) error {
	if m.phase == PhaseSubmitting {
		return ErrBusy
	}
	if m.editing == nil {
		return ErrNoTarget
	}
	m.phase = PhaseValidating
	m.errMsg = ""

	if m.editing.Status.IsTerminal() {
		m.fail(ErrNotEditable.Error())
		return ErrNotEditable
	}
	if err := m.validateReschedule(); err != nil {
		m.fail(err.Error())
		return err
	}

	m.phase = PhaseSubmitting
	err := m.api.RescheduleAppointment(ctx, m.editing.ID, upstream.RescheduleRequest{
		NewDoctorID:   m.form.DoctorID,
		NewDate:       m.form.Date,
		NewSlotNumber: m.form.SlotNumber,
		NewBranchID:   m.form.BranchID,
		Reason:        m.form.Reason,
	})
	if err != nil {
		m.fail(submissionMessage(err, "failed to reschedule the appointment"))
		return err
	}

	m.publisher.AppointmentRescheduled(m.editing.ID)
	m.succeed(nil)
	return nil
}

func (m *Manager) validateReschedule() error {
	if m.form.DoctorID == "" {
		return validationErr("doctor_id", "Please select a doctor")
	}
	if m.form.Date == "" {
		return validationErr("date", "Please select a date")
	}
	if m.form.SlotNumber <= 0 {
		return validationErr("slot_number", "Please select a time slot")
	}
	if m.form.Reason == "" {
		return validationErr("reason", "Please provide a reschedule reason")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cancel
// ---------------------------------------------------------------------------

// Cancel cancels the given appointment. Irreversible from the console's
// side; doctorRequested marks cancellations the backend notifies the
// patient about.
func (m *Manager) Cancel(ctx context.Context, appt model.Appointment, reason string, doctorRequested bool) error {
	if m.phase == PhaseSubmitting {
		return ErrBusy
	}
	m.phase = PhaseValidating
	m.errMsg = ""

	if appt.Status.IsTerminal() {
		m.fail(ErrNotEditable.Error())
		return ErrNotEditable
	}
	if reason == "" {
		err := validationErr("reason", "Please provide a cancellation reason")
		m.fail(err.Error())
		return err
	}

	m.phase = PhaseSubmitting
	err := m.api.CancelAppointment(ctx, appt.ID, upstream.CancelRequest{
		Reason:            reason,
		IsDoctorRequested: doctorRequested,
	})
	if err != nil {
		m.fail(submissionMessage(err, "failed to cancel the appointment"))
		return err
	}

	m.publisher.AppointmentCancelled(appt.ID)
	m.succeed(nil)
	return nil
}

// ---------------------------------------------------------------------------
// Transitions
// ---------------------------------------------------------------------------

// fail enters the Failed phase with the message retained for display; the
// form stays populated so the operator can correct and resubmit. The phase
// stands until the next submission attempt or modal open/close.
func (m *Manager) fail(msg string) {
	m.phase = PhaseFailed
	m.errMsg = msg
}

// succeed enters the Success phase and schedules the auto-dismiss that
// closes the modal and triggers the list refresh. The timer carries the
// current generation so DismissExpired can tell it from a stale one.
func (m *Manager) succeed(result *upstream.BookingResult) *SuccessInfo {
	m.phase = PhaseSuccess
	info := &SuccessInfo{DismissIn: m.autoDismiss}
	if result != nil {
		info.TokenNumber = result.Appointment.TokenNumber
		info.Credentials = result.Credentials
	}
	m.success = info

	m.dismissGen++
	gen := m.dismissGen
	dismiss := m.onDismiss
	time.AfterFunc(m.autoDismiss, func() {
		if dismiss != nil {
			dismiss(gen)
		}
	})
	return info
}

// DismissExpired closes the modal for the success notice identified by gen.
// A timer whose success was superseded, because the operator reopened the
// modal or submitted again, is ignored. Reports whether the modal closed.
func (m *Manager) DismissExpired(gen uint64) bool {
	if m.phase != PhaseSuccess || gen != m.dismissGen {
		return false
	}
	m.reset()
	return true
}

func submissionMessage(err error, fallback string) string {
	if detail, ok := upstream.Detail(err); ok {
		return detail
	}
	slog.Debug("submission failed without backend detail", "err", err)
	return fallback
}
