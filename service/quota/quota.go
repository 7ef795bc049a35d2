package quota

import (
	"context"

	"lendingpool/core"

	"github.com/shopspring/decimal"
)

// Config quota limits, a zero limit means unlimited
type Config struct {
	// max amount of a single deposit, per token
	DepositLimits map[string]decimal.Decimal
	// max debt of a pool, per token
	BorrowLimits map[string]decimal.Decimal
	// pools allowed to borrow, empty allows every pool
	Pools []string
}

// Service config driven deposit & borrow quotas
type Service struct {
	cfg   Config
	pools map[string]bool
}

// New new quota service
func New(cfg Config) *Service {
	pools := make(map[string]bool, len(cfg.Pools))
	for _, pool := range cfg.Pools {
		pools[pool] = true
	}

	return &Service{
		cfg:   cfg,
		pools: pools,
	}
}

var _ core.IUserQuota = (*Service)(nil)
var _ core.IPoolQuota = (*Service)(nil)

func (s *Service) CheckQuota(_ context.Context, _, token string, amount decimal.Decimal) (bool, error) {
	limit, ok := s.cfg.DepositLimits[token]
	if !ok || !limit.IsPositive() {
		return true, nil
	}

	return amount.LessThanOrEqual(limit), nil
}

func (s *Service) GetQuota(_ context.Context, pool, token string) (decimal.Decimal, error) {
	if len(s.pools) > 0 && !s.pools[pool] {
		return decimal.Zero, nil
	}

	limit, ok := s.cfg.BorrowLimits[token]
	if !ok || !limit.IsPositive() {
		// unlimited
		return decimal.New(1, 32), nil
	}

	return limit, nil
}
