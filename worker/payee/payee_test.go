package payee

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lendingpool/core"
	"lendingpool/service/ledger"
	"lendingpool/service/pool"
	"lendingpool/service/shares"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usdt   = "usdt"
	sUSDT  = "s-usdt"
	alice  = "alice"
	bob    = "bob"
	carol  = "carol"
	poolID = "pool-1"
)

var errWalletDown = errors.New("wallet down")

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type fakeOracle struct{}

func (fakeOracle) Price(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

func (fakeOracle) IsPriceFeasible(_ context.Context, _ string) (bool, error) {
	return true, nil
}

type fakeQuota struct{}

func (fakeQuota) CheckQuota(_ context.Context, _, _ string, _ decimal.Decimal) (bool, error) {
	return true, nil
}

func (fakeQuota) GetQuota(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return decimal.NewFromInt(1000), nil
}

type fakeRateModel struct{}

func (fakeRateModel) BorrowRate(_ context.Context, _ string, _ decimal.Decimal) (decimal.Decimal, error) {
	return d("0.1"), nil
}

type fakeBlocks struct {
	now time.Time
}

func (b *fakeBlocks) Now(_ context.Context) time.Time {
	return b.now
}

func (b *fakeBlocks) CurrentBlock(_ context.Context) (int64, error) {
	return 100, nil
}

type fakePool struct {
	reserves map[string]decimal.Decimal
}

func (p *fakePool) ID() string {
	return poolID
}

func (p *fakePool) TokenReserve(_ context.Context, token string) (decimal.Decimal, error) {
	return p.reserves[token], nil
}

func (p *fakePool) IsInLiquidation(_ context.Context) (bool, error) {
	return false, nil
}

type transfer struct {
	to     string
	amount string
}

// fakeWallet keeps the custody book the way the mixin custody does
type fakeWallet struct {
	book      map[string]decimal.Decimal
	snapshots []*mixin.Snapshot
	transfers []transfer
	pool      *fakePool
	fail      bool
}

func (w *fakeWallet) Balance(_ context.Context, token string) (decimal.Decimal, error) {
	return w.book[token], nil
}

func (w *fakeWallet) Receive(token string, amount decimal.Decimal) {
	w.book[token] = w.book[token].Add(amount)
}

func (w *fakeWallet) Transfer(_ context.Context, token, to string, amount decimal.Decimal) error {
	if w.fail {
		return errWalletDown
	}

	w.book[token] = w.book[token].Sub(amount)
	w.transfers = append(w.transfers, transfer{to: to, amount: amount.String()})

	if to == poolID {
		w.pool.reserves[token] = w.pool.reserves[token].Add(amount)
	}

	return nil
}

func (w *fakeWallet) Snapshots(_ context.Context, offset time.Time, limit int) ([]*mixin.Snapshot, error) {
	var out []*mixin.Snapshot
	for _, s := range w.snapshots {
		if s.CreatedAt.After(offset) && len(out) < limit {
			out = append(out, s)
		}
	}

	return out, nil
}

type fixture struct {
	ctx    context.Context
	ledger *ledger.Ledger
	shares *shares.Book
	wallet *fakeWallet
	worker *Worker
	start  time.Time
}

func newFixture(t *testing.T) *fixture {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &fakePool{reserves: map[string]decimal.Decimal{usdt: d("100")}}

	f := &fixture{
		ctx:    context.Background(),
		shares: shares.New(),
		wallet: &fakeWallet{book: map[string]decimal.Decimal{}, pool: p},
		start:  start,
	}

	f.ledger = ledger.New(
		ledger.Config{
			Risk: core.RiskParameters{
				InitialMargin:     d("0.2"),
				MaintenanceMargin: d("0.1"),
			},
		},
		fakeOracle{},
		fakeQuota{},
		fakeQuota{},
		fakeRateModel{},
		f.wallet,
		f.shares,
		&fakeBlocks{now: start},
	)

	_, err := f.ledger.AddAsset(f.ctx, core.AssetConfig{
		Token:            usdt,
		ShareToken:       sUSDT,
		ReserveFactor:    d("0.1"),
		CollateralWeight: d("0.8"),
		DebtWeight:       d("1.2"),
		InitExchangeRate: d("1"),
	})
	require.Nil(t, err)

	cfg := Config{
		Tiers: map[string][]core.FixedTermTier{
			usdt: {{
				BaseInterestRate: d("0.05"),
				LowInterestRate:  d("0.03"),
				HighInterestRate: d("0.08"),
				LowPriceBound:    d("0.5"),
				HighPriceBound:   d("2"),
				LockDays:         30,
			}},
		},
		Limit: 3,
	}

	f.worker = New(time.UTC, "@every 1s", cfg, f.ledger, f.wallet, pool.Registry{poolID: p})
	return f
}

func (f *fixture) memo(t *testing.T, action Action) string {
	memo, err := EncodeAction(action)
	require.Nil(t, err)
	return memo
}

func (f *fixture) push(from, amount, memo string) {
	n := len(f.wallet.snapshots) + 1
	f.wallet.snapshots = append(f.wallet.snapshots, &mixin.Snapshot{
		SnapshotID: fmt.Sprintf("snapshot-%d", n),
		TraceID:    fmt.Sprintf("00000000-0000-4000-8000-%012d", n),
		CreatedAt:  f.start.Add(time.Duration(n) * time.Second),
		AssetID:    usdt,
		OpponentID: from,
		Amount:     d(amount),
		Memo:       memo,
	})
}

// drain runs rounds until the cursor stops moving
func (f *fixture) drain(t *testing.T) {
	for i := 0; i < 10; i++ {
		cursor := f.ledger.Cursor()
		require.Nil(t, f.worker.OnWork())
		if f.ledger.Cursor() == cursor {
			return
		}
	}
}

func (f *fixture) shareBalance(holder string) string {
	balance, _ := f.shares.BalanceOf(f.ctx, sUSDT, holder)
	return balance.String()
}

func (f *fixture) cash(t *testing.T) decimal.Decimal {
	asset, err := f.ledger.Asset(f.ctx, usdt)
	require.Nil(t, err)
	return asset.Cash
}

func TestActionCodec(t *testing.T) {
	memo, err := EncodeAction(Action{Type: ActionRedeem, Token: usdt, Amount: "12.5", Key: "k1"})
	require.Nil(t, err)

	action, err := DecodeAction(memo)
	require.Nil(t, err)
	assert.Equal(t, ActionRedeem, action.Type)
	assert.Equal(t, "k1", action.Key)

	amount, err := action.amount()
	require.Nil(t, err)
	assert.Equal(t, "12.5", amount.String())

	_, err = DecodeAction("hello world")
	assert.Equal(t, core.ErrInvalidAction, err)

	_, err = DecodeAction("")
	assert.Equal(t, core.ErrInvalidAction, err)

	_, err = (&Action{Amount: "-1"}).amount()
	assert.Equal(t, core.ErrInvalidAmount, err)

	assert.Equal(t, "btc", (&Action{}).token("btc"))
	assert.Equal(t, usdt, (&Action{Token: usdt}).token("btc"))
}

func TestDispatch(t *testing.T) {
	f := newFixture(t)

	f.push(alice, "100", f.memo(t, Action{Type: ActionDeposit}))
	f.push(bob, "5", "junk")
	f.push(poolID, "0.01", f.memo(t, Action{Type: ActionBorrow, Amount: "40"}))
	// the borrow leaving the wallet
	f.push(poolID, "-40", "")
	f.push(bob, "10", f.memo(t, Action{Type: ActionDeposit}))
	f.push(poolID, "10", f.memo(t, Action{Type: ActionRepay}))
	f.push(carol, "10", f.memo(t, Action{Type: ActionRepay}))
	f.push(alice, "1", f.memo(t, Action{Type: ActionWithdraw, Amount: "9"}))
	f.push(bob, "20", f.memo(t, Action{Type: ActionLock, Days: 30}))
	f.push(bob, "20", f.memo(t, Action{Type: ActionLock, Days: 7}))

	f.drain(t)

	last := f.wallet.snapshots[len(f.wallet.snapshots)-1]
	assert.Equal(t, last.CreatedAt.Format(time.RFC3339Nano), f.ledger.Cursor())

	assert.Equal(t, []transfer{
		{to: bob, amount: "5"},
		{to: poolID, amount: "0.01"},
		{to: poolID, amount: "40"},
		{to: carol, amount: "10"},
		{to: alice, amount: "1"},
		{to: alice, amount: "9"},
		{to: bob, amount: "20"},
	}, f.wallet.transfers)

	cash := f.cash(t)
	assert.Equal(t, "91", cash.String())
	assert.Equal(t, cash.String(), f.wallet.book[usdt].String(), "book matches cash once everything is dispatched")

	owed, err := f.ledger.BorrowBalance(f.ctx, poolID, usdt)
	require.Nil(t, err)
	assert.Equal(t, "30", owed.String())

	assert.Equal(t, "91", f.shareBalance(alice))
	assert.Equal(t, "30", f.shareBalance(bob))

	deposits := f.ledger.Deposits(f.ctx, usdt, bob)
	require.Len(t, deposits, 1)
	assert.Equal(t, "20", deposits[0].ShareAmount.String())

	// the locked shares stay put
	f.push(bob, "1", f.memo(t, Action{Type: ActionWithdraw, Amount: "30"}))
	f.drain(t)
	assert.Equal(t, "30", f.shareBalance(bob))
	assert.Equal(t, transfer{to: bob, amount: "1"}, f.wallet.transfers[len(f.wallet.transfers)-1])

	// consumed snapshots are never dispatched twice
	n := len(f.wallet.transfers)
	require.Nil(t, f.worker.OnWork())
	assert.Len(t, f.wallet.transfers, n)
	assert.Equal(t, "91", f.cash(t).String())
}

func TestDispatchRetriedAfterWalletFailure(t *testing.T) {
	f := newFixture(t)

	f.push(alice, "100", f.memo(t, Action{Type: ActionDeposit}))
	f.drain(t)
	cursor := f.ledger.Cursor()

	f.push(poolID, "0.01", f.memo(t, Action{Type: ActionBorrow, Amount: "40"}))
	f.wallet.fail = true

	assert.Equal(t, errWalletDown, f.worker.OnWork())
	assert.Equal(t, cursor, f.ledger.Cursor())
	assert.Equal(t, "100", f.wallet.book[usdt].String(), "failed dispatch leaves the book alone")
	assert.Equal(t, "100", f.cash(t).String())

	f.wallet.fail = false
	f.drain(t)

	assert.NotEqual(t, cursor, f.ledger.Cursor())
	assert.Equal(t, "60", f.cash(t).String())
	assert.Equal(t, "60", f.wallet.book[usdt].String())
}

func TestLedgerBusy(t *testing.T) {
	f := newFixture(t)
	f.push(alice, "100", f.memo(t, Action{Type: ActionDeposit}))

	err := f.ledger.Checkpoint(f.ctx, func(_ *core.LedgerState) error {
		// the ledger is held, the round backs off without error
		return f.worker.OnWork()
	})
	require.Nil(t, err)
	assert.Equal(t, "", f.ledger.Cursor())
	assert.True(t, f.cash(t).IsZero())
	assert.True(t, f.wallet.book[usdt].IsZero())

	f.drain(t)
	assert.Equal(t, "100", f.cash(t).String())
}
