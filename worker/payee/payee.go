package payee

import (
	"context"
	"errors"
	"time"

	"lendingpool/core"
	"lendingpool/service/ledger"
	"lendingpool/service/wallet"
	"lendingpool/worker"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/logger"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Ledger entries driven by inbound snapshots
type Ledger interface {
	Cursor() string
	Advance(ctx context.Context, cursor string) error
	Deposit(ctx context.Context, user, token string) (decimal.Decimal, error)
	LockedDeposit(ctx context.Context, owner, token string, tier core.FixedTermTier) (*core.FixedTermDeposit, error)
	Withdraw(ctx context.Context, receiver, user, token string, shareAmount decimal.Decimal) (decimal.Decimal, error)
	Redeem(ctx context.Context, receiver, owner, token, key string, shareAmount decimal.Decimal) (decimal.Decimal, error)
	Borrow(ctx context.Context, pool core.IPool, token string, amount decimal.Decimal) error
	Repay(ctx context.Context, pool core.IPool, token string, amount decimal.Decimal) error
	RepayAll(ctx context.Context, pool core.IPool, token string) (decimal.Decimal, error)
}

// Wallet custody wallet the snapshots come from
type Wallet interface {
	Snapshots(ctx context.Context, offset time.Time, limit int) ([]*mixin.Snapshot, error)
	Receive(token string, amount decimal.Decimal)
	Transfer(ctx context.Context, token, to string, amount decimal.Decimal) error
}

// Pools registered borrowers
type Pools interface {
	Find(id string) (core.IPool, bool)
}

// Config payee config
type Config struct {
	// fixed-term tiers offered per token
	Tiers map[string][]core.FixedTermTier
	// snapshots read per round
	Limit int
}

// Worker dispatches the actions of inbound snapshots to the ledger, one at a time and in order.
//
// The position in the snapshot stream is committed with each ledger operation, so a ledger
// restored from a checkpoint replays exactly the snapshots it has not seen.
type Worker struct {
	worker.BaseJob
	cfg    Config
	ledger Ledger
	wallet Wallet
	pools  Pools
}

// New new payee worker
func New(location *time.Location, spec string, cfg Config, ledger Ledger, wallet Wallet, pools Pools) *Worker {
	if cfg.Limit <= 0 {
		cfg.Limit = 500
	}

	job := Worker{
		cfg:    cfg,
		ledger: ledger,
		wallet: wallet,
		pools:  pools,
	}

	job.Name = "payee"
	job.Cron = cron.New(cron.WithLocation(location))
	_, _ = job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func parseCursor(cursor string) (time.Time, error) {
	if cursor == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, cursor)
}

func formatCursor(s *mixin.Snapshot) string {
	return s.CreatedAt.UTC().Format(time.RFC3339Nano)
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", w.Name)

	offset, err := parseCursor(w.ledger.Cursor())
	if err != nil {
		log.WithError(err).Errorln("parse cursor")
		return err
	}

	snapshots, err := w.wallet.Snapshots(ctx, offset, w.cfg.Limit)
	if err != nil {
		log.WithError(err).Errorln("read snapshots")
		return err
	}

	for _, s := range snapshots {
		// snapshots up to the cursor are consumed
		if !s.CreatedAt.After(offset) {
			continue
		}

		if err := w.handleSnapshot(ctx, s); err != nil {
			if errors.Is(err, core.ErrReentrant) {
				log.Debugln("ledger busy")
				return nil
			}

			log.WithError(err).Errorln("handle snapshot", s.SnapshotID)
			return err
		}
	}

	return nil
}

func (w *Worker) handleSnapshot(ctx context.Context, s *mixin.Snapshot) error {
	log := logger.FromContext(ctx).WithField("snapshot", s.SnapshotID)
	ctx = logger.WithContext(ctx, log)
	cursor := formatCursor(s)

	// outbound transfers are booked when they leave
	if !s.Amount.IsPositive() || s.OpponentID == "" {
		return w.ledger.Advance(ctx, cursor)
	}

	action, err := DecodeAction(s.Memo)
	if err != nil {
		return w.reject(ctx, s, cursor, err)
	}

	switch action.Type {
	case ActionDeposit, ActionLock, ActionRepay, ActionRepayAll:
		return w.handlePayment(ctx, s, cursor, action)
	case ActionWithdraw, ActionRedeem, ActionBorrow:
		return w.handleRequest(ctx, s, cursor, action)
	default:
		return w.reject(ctx, s, cursor, core.ErrInvalidAction)
	}
}

// handlePayment books the snapshot and lets the ledger credit it
func (w *Worker) handlePayment(ctx context.Context, s *mixin.Snapshot, cursor string, action *Action) error {
	w.wallet.Receive(s.AssetID, s.Amount)

	op := ledger.WithCursor(wallet.WithFollowID(ctx, s.TraceID), cursor)
	err := w.pay(op, s, action)
	if err == nil {
		return nil
	}

	w.wallet.Receive(s.AssetID, s.Amount.Neg())

	if rejected(err) {
		return w.reject(ctx, s, cursor, err)
	}

	return err
}

func (w *Worker) pay(ctx context.Context, s *mixin.Snapshot, action *Action) error {
	switch action.Type {
	case ActionDeposit:
		_, err := w.ledger.Deposit(ctx, s.OpponentID, s.AssetID)
		return err
	case ActionLock:
		tier, ok := w.tier(s.AssetID, action.Days)
		if !ok {
			return core.ErrInvalidAction
		}

		_, err := w.ledger.LockedDeposit(ctx, s.OpponentID, s.AssetID, tier)
		return err
	case ActionRepay:
		pool, err := w.pool(s.OpponentID)
		if err != nil {
			return err
		}

		return w.ledger.Repay(ctx, pool, s.AssetID, s.Amount)
	default:
		pool, err := w.pool(s.OpponentID)
		if err != nil {
			return err
		}

		_, err = w.ledger.RepayAll(ctx, pool, s.AssetID)
		return err
	}
}

// handleRequest refunds the carrier snapshot, then runs the request
func (w *Worker) handleRequest(ctx context.Context, s *mixin.Snapshot, cursor string, action *Action) error {
	w.wallet.Receive(s.AssetID, s.Amount)
	if err := w.refund(ctx, s); err != nil {
		w.wallet.Receive(s.AssetID, s.Amount.Neg())
		return err
	}

	op := ledger.WithCursor(wallet.WithFollowID(ctx, s.TraceID), cursor)
	err := w.request(op, s, action)
	if rejected(err) {
		logger.FromContext(ctx).WithError(err).Infof("%s rejected for %s", action.Type, s.OpponentID)
		return w.ledger.Advance(ctx, cursor)
	}

	return err
}

func (w *Worker) request(ctx context.Context, s *mixin.Snapshot, action *Action) error {
	amount, err := action.amount()
	if err != nil {
		return err
	}

	token := action.token(s.AssetID)

	switch action.Type {
	case ActionWithdraw:
		_, err = w.ledger.Withdraw(ctx, s.OpponentID, s.OpponentID, token, amount)
	case ActionRedeem:
		_, err = w.ledger.Redeem(ctx, s.OpponentID, s.OpponentID, token, action.Key, amount)
	default:
		var pool core.IPool
		if pool, err = w.pool(s.OpponentID); err == nil {
			err = w.ledger.Borrow(ctx, pool, token, amount)
		}
	}

	return err
}

// reject books and refunds the snapshot, then moves past it
func (w *Worker) reject(ctx context.Context, s *mixin.Snapshot, cursor string, reason error) error {
	w.wallet.Receive(s.AssetID, s.Amount)
	if err := w.refund(ctx, s); err != nil {
		w.wallet.Receive(s.AssetID, s.Amount.Neg())
		return err
	}

	logger.FromContext(ctx).WithError(reason).Infof("refunded %s %s to %s", s.Amount, s.AssetID, s.OpponentID)
	return w.ledger.Advance(ctx, cursor)
}

func (w *Worker) refund(ctx context.Context, s *mixin.Snapshot) error {
	ctx = wallet.WithFollowID(ctx, uuidutil.Modify(s.TraceID, "refund"))
	return w.wallet.Transfer(ctx, s.AssetID, s.OpponentID, s.Amount)
}

func (w *Worker) pool(id string) (core.IPool, error) {
	pool, ok := w.pools.Find(id)
	if !ok {
		return nil, core.ErrPoolNotFound
	}

	return pool, nil
}

func (w *Worker) tier(token string, days int64) (core.FixedTermTier, bool) {
	for _, tier := range w.cfg.Tiers[token] {
		if tier.LockDays == days {
			return tier, true
		}
	}

	return core.FixedTermTier{}, false
}

// rejected errors final for the snapshot, anything else is retried next round
func rejected(err error) bool {
	var code core.ErrorCode
	return errors.As(err, &code) && code != core.ErrReentrant
}
