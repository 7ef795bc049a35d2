package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"lendingpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Config ledger config
type Config struct {
	Risk core.RiskParameters
	// shares retired to ShareSink on the first deposit of an asset
	MinimumShares decimal.Decimal
	ShareSink     string
}

// Ledger shared-liquidity lending ledger
//
// Every mutating operation runs inside a transaction overlay: reads go through to the
// committed state, writes stay in the overlay and become visible atomically on success.
// At most one mutating operation is active per ledger, a nested or concurrent call
// fails with core.ErrReentrant.
type Ledger struct {
	cfg       Config
	oracle    core.IPriceOracle
	userQuota core.IUserQuota
	poolQuota core.IPoolQuota
	rateModel core.IRateModel
	custody   core.ICustody
	shares    core.IShareToken
	blocks    core.IBlockService

	entered     int32
	indexClamps int64

	mu    sync.RWMutex
	state *state
}

// New new ledger
func New(
	cfg Config,
	oracle core.IPriceOracle,
	userQuota core.IUserQuota,
	poolQuota core.IPoolQuota,
	rateModel core.IRateModel,
	custody core.ICustody,
	shares core.IShareToken,
	blocks core.IBlockService,
) *Ledger {
	if cfg.ShareSink == "" {
		cfg.ShareSink = core.ShareSinkHolder
	}

	return &Ledger{
		cfg:       cfg,
		oracle:    oracle,
		userQuota: userQuota,
		poolQuota: poolQuota,
		rateModel: rateModel,
		custody:   custody,
		shares:    shares,
		blocks:    blocks,
		state:     newState(),
	}
}

type cursorKey struct{}

// WithCursor tags ctx with the stream position a mutating operation consumes,
// the position is committed together with the operation
func WithCursor(ctx context.Context, cursor string) context.Context {
	return context.WithValue(ctx, cursorKey{}, cursor)
}

func cursorFrom(ctx context.Context) string {
	cursor, _ := ctx.Value(cursorKey{}).(string)
	return cursor
}

// update runs fn as one atomic ledger operation
func (l *Ledger) update(ctx context.Context, op string, fn func(tx *txn) error) error {
	log := logger.FromContext(ctx).WithField("op", op)

	if !atomic.CompareAndSwapInt32(&l.entered, 0, 1) {
		log.Infoln("rejected: operation in progress")
		return core.ErrReentrant
	}
	defer atomic.StoreInt32(&l.entered, 0)

	tx := l.begin(ctx)
	if err := fn(tx); err != nil {
		if _, ok := err.(core.ErrorCode); ok {
			log.WithError(err).Infoln("rejected")
		} else {
			log.WithError(err).Errorln("aborted")
		}

		tx.rollback(ctx)
		return err
	}

	l.commit(tx)
	return nil
}

func (l *Ledger) begin(ctx context.Context) *txn {
	tx := newTxn(l.state, l.blocks.Now(ctx))
	tx.cursor = cursorFrom(ctx)
	return tx
}

// view detached read-only transaction over a copy of the committed state
func (l *Ledger) view(ctx context.Context) *txn {
	l.mu.RLock()
	s := l.state.copyAccounts()
	l.mu.RUnlock()

	return newTxn(s, l.blocks.Now(ctx))
}

func (l *Ledger) commit(tx *txn) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx.apply(l.state)
}

// Advance moves the stream position without touching the accounts, used when the
// event at cursor was rejected
func (l *Ledger) Advance(ctx context.Context, cursor string) error {
	return l.update(ctx, "advance", func(tx *txn) error {
		tx.cursor = cursor
		return nil
	})
}

// Cursor stream position of the committed state
func (l *Ledger) Cursor() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.cursor
}

// IndexClamps how many times a borrow record carried an index above its asset's index
func (l *Ledger) IndexClamps() int64 {
	return atomic.LoadInt64(&l.indexClamps)
}

// BorrowerCount number of non-zero borrow records
func (l *Ledger) BorrowerCount() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.borrowerCount
}

// Tokens registered tokens in registration order
func (l *Ledger) Tokens() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]string(nil), l.state.tokens...)
}

// Snapshot deep copy of the ledger state
func (l *Ledger) Snapshot() *core.LedgerState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state.export()
}

// Checkpoint runs fn with a snapshot while no operation can start, so state held by
// collaborators (share balances) read inside fn is consistent with it
func (l *Ledger) Checkpoint(ctx context.Context, fn func(snapshot *core.LedgerState) error) error {
	if !atomic.CompareAndSwapInt32(&l.entered, 0, 1) {
		return core.ErrReentrant
	}
	defer atomic.StoreInt32(&l.entered, 0)

	return fn(l.Snapshot())
}

// Restore replaces the ledger state with a persisted snapshot
func (l *Ledger) Restore(ctx context.Context, snapshot *core.LedgerState) error {
	if !atomic.CompareAndSwapInt32(&l.entered, 0, 1) {
		return core.ErrReentrant
	}
	defer atomic.StoreInt32(&l.entered, 0)

	s := importState(snapshot)

	l.mu.Lock()
	l.state = s
	l.mu.Unlock()

	logger.FromContext(ctx).WithField("op", "restore").Infof(
		"restored %d assets, %d borrows, %d deposits",
		len(snapshot.Assets), len(snapshot.Borrows), len(snapshot.Deposits),
	)
	return nil
}

func (l *Ledger) now(ctx context.Context) time.Time {
	return l.blocks.Now(ctx)
}
