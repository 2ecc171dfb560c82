package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream/upstreamtest"
)

func doctorAPI() *upstreamtest.Fake {
	return &upstreamtest.Fake{
		ListDoctorsFn: func(ctx context.Context, branchID string) ([]model.Doctor, error) {
			return []model.Doctor{
				{ID: "d1", Name: "Dr. A", Specialization: "Cardiology", BranchID: "b1"},
				{ID: "d2", Name: "Dr. B", Specialization: "Dermatology", BranchID: "b2"},
			}, nil
		},
	}
}

func TestBranchesWithoutCache(t *testing.T) {
	api := &upstreamtest.Fake{
		ListBranchesFn: func(ctx context.Context) ([]model.Branch, error) {
			return []model.Branch{{ID: "b1", Name: "Colombo"}}, nil
		},
	}
	s := New(api, nil, time.Minute)

	branches, err := s.Branches(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(branches) != 1 || branches[0].ID != "b1" {
		t.Errorf("branches = %+v", branches)
	}

	// Without redis every call goes upstream.
	if _, err := s.Branches(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := api.CallCount("ListBranches"); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

func TestBranchesUpstreamError(t *testing.T) {
	upstreamErr := errors.New("boom")
	api := &upstreamtest.Fake{
		ListBranchesFn: func(ctx context.Context) ([]model.Branch, error) {
			return nil, upstreamErr
		},
	}
	s := New(api, nil, time.Minute)

	if _, err := s.Branches(context.Background()); !errors.Is(err, upstreamErr) {
		t.Errorf("error = %v, want wrapped upstream error", err)
	}
}

func TestDoctorsBranchFilter(t *testing.T) {
	s := New(doctorAPI(), nil, time.Minute)

	all, err := s.Doctors(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all doctors = %+v", all)
	}

	one, err := s.Doctors(context.Background(), "b2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(one) != 1 || one[0].ID != "d2" {
		t.Errorf("branch doctors = %+v", one)
	}
}

func TestSpecializationOfIsCacheOnly(t *testing.T) {
	api := doctorAPI()
	s := New(api, nil, time.Minute)

	// No cache means no answer, and no upstream call either.
	if got := s.SpecializationOf("d1"); got != "" {
		t.Errorf("SpecializationOf = %q, want empty without cache", got)
	}
	if got := s.SpecializationOf(""); got != "" {
		t.Errorf("SpecializationOf(\"\") = %q", got)
	}
	if n := api.CallCount("ListDoctors"); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}
