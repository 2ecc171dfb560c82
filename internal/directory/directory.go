// Package directory serves the branch and doctor reference lists consumed
// read-only by the console, behind a redis read-through cache so filter
// dropdowns do not hammer the clinic API.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

const (
	keyBranches = "hms:directory:branches"
	keyDoctors  = "hms:directory:doctors"
)

type Service interface {
	Branches(ctx context.Context) ([]model.Branch, error)
	// Doctors returns all doctors, or only those associated with branchID
	// when it is non-empty.
	Doctors(ctx context.Context, branchID string) ([]model.Doctor, error)
	// SpecializationOf resolves a doctor id to its specialization from the
	// cached directory; unknown doctors resolve to "".
	SpecializationOf(doctorID string) string
	// Invalidate drops the cached lists.
	Invalidate(ctx context.Context)
}

type directoryService struct {
	api upstream.Client
	rdb *redis.Client
	ttl time.Duration
}

func New(api upstream.Client, rdb *redis.Client, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &directoryService{api: api, rdb: rdb, ttl: ttl}
}

func (s *directoryService) Branches(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	if s.cacheGet(ctx, keyBranches, &branches) {
		return branches, nil
	}
	branches, err := s.api.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("load branches: %w", err)
	}
	s.cacheSet(ctx, keyBranches, branches)
	return branches, nil
}

func (s *directoryService) Doctors(ctx context.Context, branchID string) ([]model.Doctor, error) {
	doctors, err := s.allDoctors(ctx)
	if err != nil {
		return nil, err
	}
	if branchID == "" {
		return doctors, nil
	}
	return lo.Filter(doctors, func(d model.Doctor, _ int) bool {
		return d.BranchID == branchID
	}), nil
}

func (s *directoryService) SpecializationOf(doctorID string) string {
	if doctorID == "" {
		return ""
	}
	// Served from cache only; a miss is not worth a blocking upstream call
	// in the middle of list narrowing.
	var doctors []model.Doctor
	if !s.cacheGet(context.Background(), keyDoctors, &doctors) {
		return ""
	}
	for _, d := range doctors {
		if d.ID == doctorID {
			return d.Specialization
		}
	}
	return ""
}

func (s *directoryService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, keyBranches, keyDoctors).Err(); err != nil {
		slog.Warn("directory: cache invalidation failed", "err", err)
	}
}

// allDoctors returns the unfiltered doctor list with branch associations.
func (s *directoryService) allDoctors(ctx context.Context) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if s.cacheGet(ctx, keyDoctors, &doctors) {
		return doctors, nil
	}
	doctors, err := s.api.ListDoctors(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	s.cacheSet(ctx, keyDoctors, doctors)
	return doctors, nil
}

func (s *directoryService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.rdb == nil {
		return false
	}
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

func (s *directoryService) cacheSet(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
		slog.Warn("directory: cache write failed", "key", key, "err", err)
	}
}
