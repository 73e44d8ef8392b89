package cron

import (
	"context"
	"fmt"

	"github.com/rafaelqueiroz/charges-backend/internal/charges"
	"github.com/rafaelqueiroz/charges-backend/pkg/logger"
)

type boletoExpirer interface {
	ExpireOverdue(ctx context.Context) (*charges.ExpireResult, error)
}

// ExpireBoletosJobParams configure the overdue-boleto sweep job.
type ExpireBoletosJobParams struct {
	Logger  *logger.Logger
	Charges boletoExpirer
}

type expireBoletosJob struct {
	logg    *logger.Logger
	charges boletoExpirer
}

// NewExpireBoletosJob builds the job that expires pending boletos past their
// due date.
func NewExpireBoletosJob(params ExpireBoletosJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Charges == nil {
		return nil, fmt.Errorf("charge service required")
	}
	return &expireBoletosJob{logg: params.Logger, charges: params.Charges}, nil
}

func (j *expireBoletosJob) Name() string { return "expire-boletos" }

func (j *expireBoletosJob) Run(ctx context.Context) error {
	result, err := j.charges.ExpireOverdue(ctx)
	if err != nil {
		return fmt.Errorf("expire boletos: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "expired_count", result.ExpiredCount)
	j.logg.Info(logCtx, "boleto expiration sweep complete")
	return nil
}
