package patients

import "github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"

type Mode string

const (
	// ModeExisting searches and selects an already-registered patient.
	ModeExisting Mode = "existing"
	// ModeNew captures a draft registered together with the booking.
	ModeNew Mode = "new"
)

// Resolver holds a booking's patient source. A booking has exactly one:
// a selected existing patient XOR a new-patient draft.
type Resolver struct {
	mode     Mode
	selected *model.PatientCandidate
	query    string
	draft    model.PatientDraft
}

func NewResolver() *Resolver {
	return &Resolver{mode: ModeExisting}
}

func (r *Resolver) Mode() Mode { return r.mode }

// SetMode toggles between the two patient sources. Switching clears the
// other source's state so a booking can never carry both.
func (r *Resolver) SetMode(m Mode) {
	if m != ModeExisting && m != ModeNew {
		return
	}
	if r.mode == m {
		return
	}
	r.mode = m
	switch m {
	case ModeNew:
		r.selected = nil
		r.query = ""
	case ModeExisting:
		r.draft = model.PatientDraft{}
	}
}

func (r *Resolver) SetQuery(q string) { r.query = q }
func (r *Resolver) Query() string     { return r.query }

func (r *Resolver) Select(c model.PatientCandidate) {
	r.mode = ModeExisting
	r.selected = &c
	r.draft = model.PatientDraft{}
}

func (r *Resolver) Selected() *model.PatientCandidate { return r.selected }

func (r *Resolver) SetDraft(d model.PatientDraft) {
	r.mode = ModeNew
	r.draft = d
	r.selected = nil
	r.query = ""
}

func (r *Resolver) Draft() model.PatientDraft { return r.draft }

// Resolved returns the patient identity for submission: an existing patient
// id, or a validated draft on the register-new path.
func (r *Resolver) Resolved() (patientID string, draft *model.PatientDraft, err error) {
	switch r.mode {
	case ModeExisting:
		if r.selected == nil || r.selected.ID == "" {
			return "", nil, ErrNoPatientResolved
		}
		return r.selected.ID, nil, nil
	case ModeNew:
		if err := ValidateDraft(r.draft); err != nil {
			return "", nil, err
		}
		d := r.draft
		return "", &d, nil
	}
	return "", nil, ErrNoPatientResolved
}

// Reset returns the resolver to its initial state.
func (r *Resolver) Reset() {
	*r = Resolver{mode: ModeExisting}
}
