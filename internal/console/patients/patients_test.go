package patients

import (
	"context"
	"errors"
	"testing"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream/upstreamtest"
)

func TestSearchShortQuerySkipsUpstream(t *testing.T) {
	api := &upstreamtest.Fake{}
	s := NewService(api)

	for _, q := range []string{"", "a"} {
		got, err := s.Search(context.Background(), q, "b1")
		if err != nil {
			t.Fatalf("Search(%q) unexpected error: %v", q, err)
		}
		if len(got) != 0 {
			t.Errorf("Search(%q) = %v, want empty", q, got)
		}
	}
	if n := api.CallCount("SearchPatients"); n != 0 {
		t.Errorf("upstream called %d times, want 0", n)
	}
}

func TestSearchDelegates(t *testing.T) {
	api := &upstreamtest.Fake{
		SearchPatientsFn: func(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
			if query != "per" || branchID != "b1" {
				t.Errorf("upstream got (%q, %q)", query, branchID)
			}
			return []model.PatientCandidate{{ID: "p1", Name: "N. Perera"}}, nil
		},
	}
	s := NewService(api)

	got, err := s.Search(context.Background(), "per", "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("candidates = %v", got)
	}
}

func TestSearchWrapsUpstreamError(t *testing.T) {
	upstreamErr := errors.New("boom")
	api := &upstreamtest.Fake{
		SearchPatientsFn: func(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
			return nil, upstreamErr
		},
	}
	s := NewService(api)

	_, err := s.Search(context.Background(), "per", "b1")
	if !errors.Is(err, upstreamErr) {
		t.Errorf("error = %v, want wrapped upstream error", err)
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		draft   model.PatientDraft
		wantErr error
	}{
		{
			name:    "valid local number",
			draft:   model.PatientDraft{FullName: "N. Perera", MobileNumber: "0771234567"},
			wantErr: nil,
		},
		{
			name:    "valid e164 number",
			draft:   model.PatientDraft{FullName: "N. Perera", MobileNumber: "+94771234567"},
			wantErr: nil,
		},
		{
			name:    "missing name",
			draft:   model.PatientDraft{MobileNumber: "0771234567"},
			wantErr: ErrDraftNameRequired,
		},
		{
			name:    "missing mobile",
			draft:   model.PatientDraft{FullName: "N. Perera"},
			wantErr: ErrDraftMobileRequired,
		},
		{
			name:    "unparseable mobile",
			draft:   model.PatientDraft{FullName: "N. Perera", MobileNumber: "12"},
			wantErr: ErrDraftMobileInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDraft() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeMobile(t *testing.T) {
	got, err := NormalizeMobile("0771234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+94771234567" {
		t.Errorf("NormalizeMobile = %q, want +94771234567", got)
	}

	if _, err := NormalizeMobile("12"); err == nil {
		t.Error("expected error for invalid number")
	}
}
