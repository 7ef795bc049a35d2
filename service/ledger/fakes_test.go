package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"lendingpool/core"

	"github.com/shopspring/decimal"
)

var errCollaborator = errors.New("collaborator down")

type fakeOracle struct {
	prices     map[string]decimal.Decimal
	infeasible map[string]bool
}

func (o *fakeOracle) Price(_ context.Context, token string) (decimal.Decimal, error) {
	price, ok := o.prices[token]
	if !ok {
		return decimal.Zero, errCollaborator
	}

	return price, nil
}

func (o *fakeOracle) IsPriceFeasible(_ context.Context, token string) (bool, error) {
	return !o.infeasible[token], nil
}

type fakeQuota struct {
	userLimit decimal.Decimal
	poolLimit decimal.Decimal
}

func (q *fakeQuota) CheckQuota(_ context.Context, _, _ string, amount decimal.Decimal) (bool, error) {
	return !amount.GreaterThan(q.userLimit), nil
}

func (q *fakeQuota) GetQuota(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return q.poolLimit, nil
}

type fakeRateModel struct {
	rate decimal.Decimal
}

func (m *fakeRateModel) BorrowRate(_ context.Context, _ string, _ decimal.Decimal) (decimal.Decimal, error) {
	return m.rate, nil
}

type fakeBlocks struct {
	now    time.Time
	height int64
}

func (b *fakeBlocks) Now(_ context.Context) time.Time {
	return b.now
}

func (b *fakeBlocks) CurrentBlock(_ context.Context) (int64, error) {
	return b.height, nil
}

func (b *fakeBlocks) advance(d time.Duration) {
	b.now = b.now.Add(d)
}

type fakePool struct {
	id          string
	reserves    map[string]decimal.Decimal
	liquidating bool
	onReserve   func(ctx context.Context)
}

func (p *fakePool) ID() string {
	return p.id
}

func (p *fakePool) TokenReserve(ctx context.Context, token string) (decimal.Decimal, error) {
	if p.onReserve != nil {
		p.onReserve(ctx)
	}

	return p.reserves[token], nil
}

func (p *fakePool) IsInLiquidation(_ context.Context) (bool, error) {
	return p.liquidating, nil
}

type fakeCustody struct {
	balances     map[string]decimal.Decimal
	pools        map[string]*fakePool
	transfers    int
	transferFail bool
}

func (c *fakeCustody) push(token string, amount decimal.Decimal) {
	c.balances[token] = c.balances[token].Add(amount)
}

// pay moves amount out of the pool's reserves into custody
func (c *fakeCustody) pay(pool *fakePool, token string, amount decimal.Decimal) {
	pool.reserves[token] = pool.reserves[token].Sub(amount)
	c.push(token, amount)
}

func (c *fakeCustody) Balance(_ context.Context, token string) (decimal.Decimal, error) {
	return c.balances[token], nil
}

func (c *fakeCustody) Transfer(_ context.Context, token, to string, amount decimal.Decimal) error {
	if c.transferFail {
		return errCollaborator
	}

	c.balances[token] = c.balances[token].Sub(amount)
	if pool, ok := c.pools[to]; ok {
		pool.reserves[token] = pool.reserves[token].Add(amount)
	}

	c.transfers++
	return nil
}

type fakeShares struct {
	mu       sync.Mutex
	balances map[string]map[string]decimal.Decimal
	mintFail bool
}

func (s *fakeShares) book(shareToken string) map[string]decimal.Decimal {
	book, ok := s.balances[shareToken]
	if !ok {
		book = map[string]decimal.Decimal{}
		s.balances[shareToken] = book
	}

	return book
}

func (s *fakeShares) TotalSupply(_ context.Context, shareToken string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, amount := range s.book(shareToken) {
		total = total.Add(amount)
	}

	return total, nil
}

func (s *fakeShares) BalanceOf(_ context.Context, shareToken, holder string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.book(shareToken)[holder], nil
}

func (s *fakeShares) Mint(_ context.Context, shareToken, holder string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mintFail {
		return errCollaborator
	}

	book := s.book(shareToken)
	book[holder] = book[holder].Add(amount)
	return nil
}

func (s *fakeShares) Burn(_ context.Context, shareToken, holder string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.book(shareToken)
	if book[holder].LessThan(amount) {
		return errCollaborator
	}

	book[holder] = book[holder].Sub(amount)
	return nil
}

var _ core.ICustody = (*fakeCustody)(nil)
var _ core.IShareToken = (*fakeShares)(nil)
var _ core.IPool = (*fakePool)(nil)
