package monitor

import (
	"context"
	"sync"
	"time"

	"lendingpool/core"
	"lendingpool/pkg/concurrency"
	"lendingpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Ledger risk views of the ledger
type Ledger interface {
	RiskReport(ctx context.Context, pool core.IPool) (*core.RiskReport, error)
	IndexClamps() int64
}

// Worker evaluates every pool without accruing and reports the unhealthy ones
type Worker struct {
	worker.BaseJob
	ledger Ledger
	pools  map[string]core.IPool
	limit  int

	mu         sync.Mutex
	reports    map[string]*core.RiskReport
	lastClamps int64
}

// New new risk monitor
func New(location *time.Location, spec string, ledger Ledger, pools map[string]core.IPool) *Worker {
	job := Worker{
		ledger:  ledger,
		pools:   pools,
		limit:   8,
		reports: map[string]*core.RiskReport{},
	}

	job.Name = "monitor"
	job.Cron = cron.New(cron.WithLocation(location))
	_, _ = job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", w.Name)

	golimit := concurrency.NewGoLimit(w.limit)
	wg := sync.WaitGroup{}

	for _, pool := range w.pools {
		golimit.Add()
		wg.Add(1)

		go func(pool core.IPool) {
			defer wg.Done()
			defer golimit.Done()

			w.check(ctx, pool)
		}(pool)
	}

	wg.Wait()

	clamps := w.ledger.IndexClamps()
	w.mu.Lock()
	if clamps > w.lastClamps {
		log.Warnf("%d borrow index clamps since last round", clamps-w.lastClamps)
	}
	w.lastClamps = clamps
	w.mu.Unlock()

	return nil
}

func (w *Worker) check(ctx context.Context, pool core.IPool) {
	log := logger.FromContext(ctx).WithField("worker", w.Name).WithField("pool", pool.ID())

	report, err := w.ledger.RiskReport(ctx, pool)
	if err != nil {
		log.WithError(err).Errorln("risk report")
		return
	}

	switch {
	case report.BadDebt:
		log.Errorf("bad debt: assets %s, debts %s", report.AssetValue, report.DebtValue)
	case report.Liquidatable:
		log.Warnf("liquidatable: ratio %s", report.Ratio)
	case !report.Safe:
		log.Infof("below initial margin: ratio %s", report.Ratio)
	}

	w.mu.Lock()
	w.reports[pool.ID()] = report
	w.mu.Unlock()
}

// Report last report of pool
func (w *Worker) Report(pool string) (*core.RiskReport, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, ok := w.reports[pool]
	return r, ok
}
