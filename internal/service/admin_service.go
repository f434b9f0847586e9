package service

import (
	"context"
	"fmt"

	"github.com/Selalualwayskadangkidding/dn-tracker/internal/repo"
)

// AdminService triggers the snapshot/reset procedures in the database and
// keeps the in-memory boards consistent afterwards. Both procedures are
// idempotent; failures carry the step name so the UI can show which one broke.
type AdminService struct {
	repo     repo.AdminRepo
	progress *ProgressService
}

func NewAdminService(r repo.AdminRepo, progress *ProgressService) *AdminService {
	return &AdminService{repo: r, progress: progress}
}

// Snapshot appends the user's current progress to the activity log and
// returns how many entries were written.
func (s *AdminService) Snapshot(ctx context.Context, userID int64) (int, error) {
	n, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	return n, nil
}

// Reset expires stale blessings and clears daily fields, then drops the
// user's boards: the store changed underneath them.
func (s *AdminService) Reset(ctx context.Context, userID int64) (int, error) {
	n, err := s.repo.Reset(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("reset: %w", err)
	}
	s.progress.Forget(ctx, userID)
	return n, nil
}
