package cmd

import (
	"context"

	"lendingpool/core"
	"lendingpool/service/ledger"
	"lendingpool/service/shares"
	"lendingpool/service/wallet"
	"lendingpool/worker"
	"lendingpool/worker/accrual"
	"lendingpool/worker/checkpoint"
	"lendingpool/worker/monitor"
	"lendingpool/worker/payee"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run ledger jobs without the api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		stores := provideStores(database)
		custody := provideCustody()
		l, book := provideLedger(ctx, stores, custody)

		jobs := startJobs(ctx, l, book, custody, stores)

		ctx = signal.WithContext(ctx)
		<-ctx.Done()

		stopJobs(ctx, jobs)
	},
}

func startJobs(ctx context.Context, l *ledger.Ledger, book *shares.Book, custody *wallet.Custody, stores checkpoint.Stores) []worker.IJob {
	loc, err := cfg.TimeLocation()
	if err != nil {
		logger.FromContext(ctx).WithError(err).Panicln("load location")
	}

	tiers := make(map[string][]core.FixedTermTier, len(cfg.Markets))
	for _, m := range cfg.Markets {
		tiers[m.Token] = m.Tiers
	}

	jobs := []worker.IJob{
		payee.New(loc, cfg.Worker.Payee, payee.Config{Tiers: tiers}, l, custody, providePools()),
		accrual.New(loc, cfg.Worker.Accrual, l),
		monitor.New(loc, cfg.Worker.Monitor, l, providePools()),
		checkpoint.New(loc, cfg.Worker.Checkpoint, l, book, stores),
	}

	for _, job := range jobs {
		_ = job.Start()
	}

	return jobs
}

// stopJobs waits for the running rounds then persists a final checkpoint
func stopJobs(ctx context.Context, jobs []worker.IJob) {
	for _, job := range jobs {
		_ = job.Stop()
	}

	for _, job := range jobs {
		if c, ok := job.(*checkpoint.Worker); ok {
			if err := c.Save(context.Background()); err != nil {
				logger.FromContext(ctx).WithError(err).Errorln("save checkpoint on exit")
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
