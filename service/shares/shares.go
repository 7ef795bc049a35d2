package shares

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"lendingpool/core"

	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance burn above the holder balance
var ErrInsufficientBalance = errors.New("shares: insufficient balance")

// Book in-process share token ledger
type Book struct {
	mu       sync.RWMutex
	balances map[string]map[string]decimal.Decimal
	supply   map[string]decimal.Decimal
	updated  map[string]map[string]time.Time
}

// New new share book
func New() *Book {
	return &Book{
		balances: map[string]map[string]decimal.Decimal{},
		supply:   map[string]decimal.Decimal{},
		updated:  map[string]map[string]time.Time{},
	}
}

var _ core.IShareToken = (*Book)(nil)

func (b *Book) TotalSupply(_ context.Context, shareToken string) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.supply[shareToken], nil
}

func (b *Book) BalanceOf(_ context.Context, shareToken, holder string) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.balances[shareToken][holder], nil
}

func (b *Book) Mint(_ context.Context, shareToken, holder string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.set(shareToken, holder, b.balances[shareToken][holder].Add(amount))
	b.supply[shareToken] = b.supply[shareToken].Add(amount)
	return nil
}

func (b *Book) Burn(_ context.Context, shareToken, holder string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance := b.balances[shareToken][holder]
	if balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	b.set(shareToken, holder, balance.Sub(amount))
	b.supply[shareToken] = b.supply[shareToken].Sub(amount)
	return nil
}

func (b *Book) set(shareToken, holder string, amount decimal.Decimal) {
	if _, ok := b.balances[shareToken]; !ok {
		b.balances[shareToken] = map[string]decimal.Decimal{}
		b.updated[shareToken] = map[string]time.Time{}
	}

	b.balances[shareToken][holder] = amount
	b.updated[shareToken][holder] = time.Now()
}

// Balances every holder balance, sorted by share token and holder
func (b *Book) Balances() []*core.ShareBalance {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*core.ShareBalance
	for shareToken, holders := range b.balances {
		for holder, amount := range holders {
			out = append(out, &core.ShareBalance{
				ShareToken: shareToken,
				Holder:     holder,
				Amount:     amount,
				UpdatedAt:  b.updated[shareToken][holder],
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ShareToken != out[j].ShareToken {
			return out[i].ShareToken < out[j].ShareToken
		}
		return out[i].Holder < out[j].Holder
	})

	return out
}

// Load replaces the book with persisted balances
func (b *Book) Load(balances []*core.ShareBalance) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances = map[string]map[string]decimal.Decimal{}
	b.supply = map[string]decimal.Decimal{}
	b.updated = map[string]map[string]time.Time{}

	for _, balance := range balances {
		b.set(balance.ShareToken, balance.Holder, balance.Amount)
		b.updated[balance.ShareToken][balance.Holder] = balance.UpdatedAt
		b.supply[balance.ShareToken] = b.supply[balance.ShareToken].Add(balance.Amount)
	}
}
