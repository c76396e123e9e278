package cron

import (
	"context"
	"fmt"

	"github.com/santai-app/santai-backend/pkg/logger"
	"github.com/santai-app/santai-backend/pkg/metrics"
)

const paymentDeadlineJobName = "payment-deadline-sweep"

type deadlineSweeper interface {
	CheckPaymentDeadlines(ctx context.Context) (int, error)
}

// PaymentDeadlineJobParams configure the deadline sweep.
type PaymentDeadlineJobParams struct {
	Logger  *logger.Logger
	Signups deadlineSweeper
	Metrics *metrics.CronJobMetrics
}

// NewPaymentDeadlineJob builds the job that deactivates signups whose
// payment window lapsed without an uploaded proof.
func NewPaymentDeadlineJob(params PaymentDeadlineJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Signups == nil {
		return nil, fmt.Errorf("signup service required")
	}
	return &paymentDeadlineJob{
		logg:    params.Logger,
		signups: params.Signups,
		metrics: params.Metrics,
	}, nil
}

type paymentDeadlineJob struct {
	logg    *logger.Logger
	signups deadlineSweeper
	metrics *metrics.CronJobMetrics
}

func (j *paymentDeadlineJob) Name() string { return paymentDeadlineJobName }

func (j *paymentDeadlineJob) Run(ctx context.Context) error {
	deactivated, err := j.signups.CheckPaymentDeadlines(ctx)
	if err != nil {
		return fmt.Errorf("payment deadline sweep: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddAffected(paymentDeadlineJobName, int64(deactivated))
	}
	if deactivated > 0 {
		logCtx := j.logg.WithField(ctx, "deactivated", deactivated)
		j.logg.Info(logCtx, "lapsed signups deactivated")
	}
	return nil
}
