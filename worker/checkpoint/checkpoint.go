package checkpoint

import (
	"context"
	"errors"
	"time"

	"lendingpool/core"
	"lendingpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/robfig/cron/v3"
)

const (
	checkpointKey    = "ledger_checkpoint_at"
	borrowerCountKey = "ledger_borrower_count"
	cursorKey        = "ledger_snapshot_cursor"
)

// Ledger state export & import of the ledger
type Ledger interface {
	Checkpoint(ctx context.Context, fn func(snapshot *core.LedgerState) error) error
	Restore(ctx context.Context, snapshot *core.LedgerState) error
}

// ShareBook in-process share balances
type ShareBook interface {
	Balances() []*core.ShareBalance
	Load(balances []*core.ShareBalance)
}

// Stores persistence of the ledger state
type Stores struct {
	DB       *db.DB
	Assets   core.IAssetStore
	Borrows  core.IBorrowStore
	Deposits core.IFixedTermStore
	Shares   core.IShareStore
	Property property.Store
}

// Worker persists ledger snapshots
type Worker struct {
	worker.BaseJob
	ledger Ledger
	shares ShareBook
	stores Stores
}

// New new checkpoint worker
func New(location *time.Location, spec string, ledger Ledger, shares ShareBook, stores Stores) *Worker {
	job := Worker{
		ledger: ledger,
		shares: shares,
		stores: stores,
	}

	job.Name = "checkpoint"
	job.Cron = cron.New(cron.WithLocation(location))
	_, _ = job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.Save(context.Background())
	}

	return &job
}

// Save writes the current ledger state in one db transaction
func (w *Worker) Save(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", w.Name)

	var (
		snapshot *core.LedgerState
		balances []*core.ShareBalance
	)

	err := w.ledger.Checkpoint(ctx, func(s *core.LedgerState) error {
		snapshot = s
		balances = w.shares.Balances()
		return nil
	})
	if errors.Is(err, core.ErrReentrant) {
		log.Debugln("ledger busy")
		return nil
	} else if err != nil {
		return err
	}

	persisted, err := w.stores.Deposits.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("list deposits")
		return err
	}

	stale := staleDeposits(persisted, snapshot.Deposits)

	err = w.stores.DB.Tx(func(tx *db.DB) error {
		for _, asset := range snapshot.Assets {
			if err := w.stores.Assets.Save(ctx, tx, asset); err != nil {
				return err
			}
		}

		for _, borrow := range snapshot.Borrows {
			if err := w.stores.Borrows.Save(ctx, tx, borrow); err != nil {
				return err
			}
		}

		for _, deposit := range snapshot.Deposits {
			if err := w.stores.Deposits.Save(ctx, tx, deposit); err != nil {
				return err
			}
		}

		for _, key := range stale {
			if err := w.stores.Deposits.Delete(ctx, tx, key); err != nil {
				return err
			}
		}

		for _, balance := range balances {
			if err := w.stores.Shares.Save(ctx, tx, balance); err != nil {
				return err
			}
		}

		// replay resumes right after the last snapshot the saved state reflects
		return propertystore.New(tx).Save(ctx, cursorKey, snapshot.Cursor)
	})
	if err != nil {
		log.WithError(err).Errorln("save snapshot")
		return err
	}

	if err := w.stores.Property.Save(ctx, borrowerCountKey, snapshot.BorrowerCount); err != nil {
		log.WithError(err).Errorln("property.Save", borrowerCountKey)
		return err
	}

	if err := w.stores.Property.Save(ctx, checkpointKey, time.Now()); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return err
	}

	log.Debugf("saved %d assets, %d borrows, %d deposits", len(snapshot.Assets), len(snapshot.Borrows), len(snapshot.Deposits))
	return nil
}

// Load restores the ledger and the share book from the stores
func Load(ctx context.Context, ledger Ledger, shares ShareBook, stores Stores) error {
	log := logger.FromContext(ctx).WithField("op", "load")

	assets, err := stores.Assets.All(ctx)
	if err != nil {
		return err
	}

	borrows, err := stores.Borrows.All(ctx)
	if err != nil {
		return err
	}

	deposits, err := stores.Deposits.All(ctx)
	if err != nil {
		return err
	}

	balances, err := stores.Shares.All(ctx)
	if err != nil {
		return err
	}

	snapshot := &core.LedgerState{
		Assets:        assets,
		Borrows:       borrows,
		Deposits:      deposits,
		BorrowerCount: countBorrowers(borrows),
	}

	v, err := stores.Property.Get(ctx, borrowerCountKey)
	if err != nil {
		return err
	}

	if saved := v.Int64(); saved != snapshot.BorrowerCount {
		log.Warnf("borrower count %d recorded, %d recounted", saved, snapshot.BorrowerCount)
	}

	cursor, err := stores.Property.Get(ctx, cursorKey)
	if err != nil {
		return err
	}

	snapshot.Cursor = cursor.String()

	if err := ledger.Restore(ctx, snapshot); err != nil {
		return err
	}

	shares.Load(balances)

	at, err := stores.Property.Get(ctx, checkpointKey)
	if err != nil {
		return err
	}

	log.Infof("loaded checkpoint of %s at cursor %q", at.Time(), snapshot.Cursor)
	return nil
}

func countBorrowers(borrows []*core.BorrowRecord) int64 {
	var n int64
	for _, b := range borrows {
		if b.Principal.IsPositive() {
			n++
		}
	}

	return n
}

// staleDeposits keys persisted but no longer in the ledger
func staleDeposits(persisted, live []*core.FixedTermDeposit) []string {
	keys := make(map[string]bool, len(live))
	for _, d := range live {
		keys[d.Key] = true
	}

	var stale []string
	for _, d := range persisted {
		if !keys[d.Key] {
			stale = append(stale, d.Key)
		}
	}

	return stale
}
