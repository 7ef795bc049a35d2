package accrual

import (
	"context"
	"errors"
	"time"

	"lendingpool/core"
	"lendingpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Ledger accrual entry of the ledger
type Ledger interface {
	AccrueAll(ctx context.Context) error
}

// Worker keeps every asset accrued even when no operation touches it
type Worker struct {
	worker.BaseJob
	ledger Ledger
}

// New new accrual worker
func New(location *time.Location, spec string, ledger Ledger) *Worker {
	job := Worker{ledger: ledger}
	job.Name = "accrual"
	job.Cron = cron.New(cron.WithLocation(location))
	_, _ = job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", w.Name)

	if err := w.ledger.AccrueAll(ctx); err != nil {
		if errors.Is(err, core.ErrReentrant) {
			// busy, next round
			log.Debugln("ledger busy")
			return nil
		}

		return err
	}

	return nil
}
