package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/rafaelqueiroz/charges-backend/internal/charges"
	"github.com/rafaelqueiroz/charges-backend/pkg/logger"
)

type fakeExpirer struct {
	result *charges.ExpireResult
	err    error
	called int
}

func (f *fakeExpirer) ExpireOverdue(ctx context.Context) (*charges.ExpireResult, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestExpireBoletosJobRunsSweep(t *testing.T) {
	expirer := &fakeExpirer{result: &charges.ExpireResult{ExpiredCount: 4, Message: "4 overdue boletos were expired"}}
	job, err := NewExpireBoletosJob(ExpireBoletosJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Charges: expirer,
	})
	if err != nil {
		t.Fatalf("NewExpireBoletosJob: %v", err)
	}

	if got := job.Name(); got != "expire-boletos" {
		t.Fatalf("unexpected job name %q", got)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if expirer.called != 1 {
		t.Fatalf("expected sweep called once, got %d", expirer.called)
	}
}

func TestExpireBoletosJobPropagatesErrors(t *testing.T) {
	job, err := NewExpireBoletosJob(ExpireBoletosJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Charges: &fakeExpirer{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewExpireBoletosJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestExpireBoletosJobRequiresDeps(t *testing.T) {
	if _, err := NewExpireBoletosJob(ExpireBoletosJobParams{Charges: &fakeExpirer{}}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewExpireBoletosJob(ExpireBoletosJobParams{Logger: logger.New(logger.Options{ServiceName: "test"})}); err == nil {
		t.Fatal("expected error without charge service")
	}
}
