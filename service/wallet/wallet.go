package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lendingpool/core"
	"lendingpool/pkg/id"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/logger"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

// Wallet mixin wallet holding the ledger funds
type Wallet struct {
	Client *mixin.Client
	Pin    string
}

type followKey struct{}

// WithFollowID derives the trace ids of transfers made under ctx from followID,
// a replayed event transfers under the same traces and mixin drops the duplicates
func WithFollowID(ctx context.Context, followID string) context.Context {
	return context.WithValue(ctx, followKey{}, followID)
}

func traceID(ctx context.Context, token, to string, amount decimal.Decimal) string {
	followID, _ := ctx.Value(followKey{}).(string)
	if followID == "" {
		return id.GenTraceID()
	}

	return uuidutil.Modify(followID, fmt.Sprintf("%s:%s:%s", token, to, amount))
}

// Custody mixin custody of the ledger
//
// Balance reports a book of the tokens taken in, not the wallet balance: the book moves
// when an inbound snapshot is received for dispatch and when a transfer leaves, so tokens
// that arrived but were not dispatched yet are never credited to the wrong caller.
type Custody struct {
	wallet *Wallet

	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

// New new mixin custody with an empty book
func New(wallet *Wallet) *Custody {
	return &Custody{
		wallet:   wallet,
		balances: map[string]decimal.Decimal{},
	}
}

func (s *Custody) Balance(_ context.Context, token string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances[token], nil
}

// Receive books an inbound snapshot right before it is dispatched, a negative amount undoes it
func (s *Custody) Receive(token string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[token] = s.balances[token].Add(amount)
}

// Reset sets the book of every asset to its recorded cash, the book of a consistent ledger
func (s *Custody) Reset(assets []*core.AssetInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances = make(map[string]decimal.Decimal, len(assets))
	for _, asset := range assets {
		s.balances[asset.Token] = asset.Cash
	}
}

func (s *Custody) Transfer(ctx context.Context, token, to string, amount decimal.Decimal) error {
	input := &mixin.TransferInput{
		AssetID:    token,
		OpponentID: to,
		Amount:     amount,
		TraceID:    traceID(ctx, token, to, amount),
		Memo:       "lending pool",
	}

	snapshot, err := s.wallet.Client.Transfer(ctx, input, s.wallet.Pin)
	if err != nil {
		return err
	}

	s.Receive(token, amount.Neg())

	logger.FromContext(ctx).WithField("trace", input.TraceID).Infof("transferred %s %s to %s, snapshot %s", amount, token, to, snapshot.SnapshotID)
	return nil
}

// Snapshots snapshots of the wallet created after offset, oldest first
func (s *Custody) Snapshots(ctx context.Context, offset time.Time, limit int) ([]*mixin.Snapshot, error) {
	return s.wallet.Client.ReadSnapshots(ctx, "", offset, "ASC", limit)
}

var _ core.ICustody = (*Custody)(nil)
