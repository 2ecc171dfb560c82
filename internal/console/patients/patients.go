// Package patients resolves a booking's patient identity: search existing
// patients upstream, or carry the draft for a patient registered atomically
// with the booking submission.
package patients

import (
	"context"
	"fmt"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/sync/singleflight"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

// MinQueryLength is the shortest query that triggers an upstream search.
const MinQueryLength = 2

const defaultPhoneRegion = "LK"

// Service performs patient searches. Identical concurrent queries are
// coalesced into one upstream call; the backend has no request coalescing of
// its own.
type Service struct {
	api   upstream.Client
	group singleflight.Group
}

func NewService(api upstream.Client) *Service {
	return &Service{api: api}
}

// Search looks up existing patients by partial name, phone or NIC. Queries
// shorter than MinQueryLength return an empty result without an upstream
// call.
func (s *Service) Search(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
	if len([]rune(query)) < MinQueryLength {
		return []model.PatientCandidate{}, nil
	}

	key := query + "\x00" + branchID
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.api.SearchPatients(ctx, query, branchID)
	})
	if err != nil {
		return nil, fmt.Errorf("patient search: %w", err)
	}
	candidates, _ := v.([]model.PatientCandidate)
	if candidates == nil {
		candidates = []model.PatientCandidate{}
	}
	return candidates, nil
}

// ValidateDraft checks the new-patient draft before it rides along with a
// booking submission. Name and a parseable mobile number are required.
func ValidateDraft(d model.PatientDraft) error {
	if d.FullName == "" {
		return ErrDraftNameRequired
	}
	if d.MobileNumber == "" {
		return ErrDraftMobileRequired
	}
	num, err := phonenumbers.Parse(d.MobileNumber, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ErrDraftMobileInvalid
	}
	return nil
}

// NormalizeMobile returns the draft mobile number in E.164 form.
func NormalizeMobile(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("parse mobile number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrDraftMobileInvalid
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
