package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// IPriceOracle spot price lookup
type IPriceOracle interface {
	Price(ctx context.Context, token string) (decimal.Decimal, error)
	// IsPriceFeasible freshness and sanity gate used by deposit paths
	IsPriceFeasible(ctx context.Context, token string) (bool, error)
}

// IUserQuota per-user deposit quota policy
type IUserQuota interface {
	CheckQuota(ctx context.Context, user, token string, amount decimal.Decimal) (bool, error)
}

// IPoolQuota per-borrower quota policy
type IPoolQuota interface {
	GetQuota(ctx context.Context, pool, token string) (decimal.Decimal, error)
}

// IRateModel maps utilization to an annualized borrow rate
type IRateModel interface {
	BorrowRate(ctx context.Context, token string, utilization decimal.Decimal) (decimal.Decimal, error)
}

// IPool market-making pool borrowing from the ledger
type IPool interface {
	ID() string
	TokenReserve(ctx context.Context, token string) (decimal.Decimal, error)
	IsInLiquidation(ctx context.Context) (bool, error)
}

// ICustody token custody of the ledger
type ICustody interface {
	// Balance tokens held by the ledger, cash plus whatever was pushed and not yet credited
	Balance(ctx context.Context, token string) (decimal.Decimal, error)
	Transfer(ctx context.Context, token, to string, amount decimal.Decimal) error
}

// IShareToken share token mint & burn
type IShareToken interface {
	TotalSupply(ctx context.Context, shareToken string) (decimal.Decimal, error)
	BalanceOf(ctx context.Context, shareToken, holder string) (decimal.Decimal, error)
	Mint(ctx context.Context, shareToken, holder string, amount decimal.Decimal) error
	Burn(ctx context.Context, shareToken, holder string, amount decimal.Decimal) error
}

// IBlockService time & block height
type IBlockService interface {
	Now(ctx context.Context) time.Time
	CurrentBlock(ctx context.Context) (int64, error)
}
