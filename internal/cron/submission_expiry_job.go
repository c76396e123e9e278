package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/santai-app/santai-backend/pkg/logger"
)

// Pending submissions whose payment deadline passed a week ago are
// stale: either the signup was deactivated without the cleanup
// running, or an admin queue backlog outlived the provider. The
// retention is the grace period past the deadline.
const submissionRetentionDays = 7

type submissionExpiryRepo interface {
	ExpirePendingBefore(ctx context.Context, cutoff time.Time, now time.Time) (int64, error)
}

// SubmissionExpiryJobParams configure the stale submission sweep.
type SubmissionExpiryJobParams struct {
	Logger     *logger.Logger
	Repository submissionExpiryRepo
	Retention  int
}

// NewSubmissionExpiryJob builds the job that expires payment
// submissions left pending past the retention window.
func NewSubmissionExpiryJob(params SubmissionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = submissionRetentionDays
	}
	return &submissionExpiryJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type submissionExpiryJob struct {
	logg      *logger.Logger
	repo      submissionExpiryRepo
	retention int
	now       func() time.Time
}

func (j *submissionExpiryJob) Name() string { return "submission-expiry" }

func (j *submissionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-time.Duration(j.retention) * 24 * time.Hour)
	expired, err := j.repo.ExpirePendingBefore(ctx, cutoff, now)
	if err != nil {
		return fmt.Errorf("submission expiry: %w", err)
	}
	if expired > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"cutoff":       cutoff,
			"rows_expired": expired,
		})
		j.logg.Info(logCtx, "stale submissions expired")
	}
	return nil
}
