package config

import (
	"errors"
	"fmt"
	"time"

	"lendingpool/core"
	"lendingpool/service/ratemodel"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config lending pool config
type Config struct {
	App         App         `json:"app"`
	DB          db.Config   `json:"db"`
	Ledger      Ledger      `json:"ledger"`
	Markets     []Market    `json:"markets"`
	Pools       []Pool      `json:"pools"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Mixin       Mixin       `json:"mixin"`
	Worker      Worker      `json:"worker"`
}

// App app config
type App struct {
	// genesis unix time
	Genesis         int64  `json:"genesis"`
	SecondsPerBlock int64  `json:"seconds_per_block"`
	Location        string `json:"location"`
}

// Ledger ledger config
type Ledger struct {
	InitialMargin     decimal.Decimal `json:"initial_margin"`
	MaintenanceMargin decimal.Decimal `json:"maintenance_margin"`
	MinimumShares     decimal.Decimal `json:"minimum_shares"`
	ShareSink         string          `json:"share_sink"`
}

// Market asset parameters
type Market struct {
	core.AssetConfig
	// max amount of a single user deposit, zero means unlimited
	DepositLimit decimal.Decimal `json:"deposit_limit"`
	// max debt of one pool, zero means unlimited
	BorrowLimit decimal.Decimal `json:"borrow_limit"`
	Curve       ratemodel.Curve `json:"curve"`
	Disabled    bool            `json:"disabled"`
	// fixed-term tiers offered, picked by lock days
	Tiers []core.FixedTermTier `json:"tiers"`
}

// Pool market-making pool allowed to borrow
type Pool struct {
	ID       string `json:"id"`
	EndPoint string `json:"end_point"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint string `json:"end_point"`
	// seconds
	CacheTTL int64 `json:"cache_ttl"`
	MaxAge   int64 `json:"max_age"`
}

// Mixin custody wallet
type Mixin struct {
	mixin.Keystore
	Pin string `json:"pin"`
}

// Worker cron specs
type Worker struct {
	Accrual    string `json:"accrual"`
	Monitor    string `json:"monitor"`
	Checkpoint string `json:"checkpoint"`
	Payee      string `json:"payee"`
}

// TimeLocation location of the cron jobs, default UTC
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.App.Location == "" {
		return time.UTC, nil
	}

	return time.LoadLocation(c.App.Location)
}

// RiskParameters margin thresholds of the ledger
func (c *Config) RiskParameters() core.RiskParameters {
	return core.RiskParameters{
		InitialMargin:     c.Ledger.InitialMargin,
		MaintenanceMargin: c.Ledger.MaintenanceMargin,
	}
}

// Validate check config consistency
func (c *Config) Validate() error {
	im, mm := c.Ledger.InitialMargin, c.Ledger.MaintenanceMargin
	if !mm.IsPositive() || !im.GreaterThan(mm) {
		return errors.New("ledger: maintenance margin must be positive and below initial margin")
	}

	if c.Ledger.ShareSink != "" && !govalidator.IsUUID(c.Ledger.ShareSink) {
		return fmt.Errorf("ledger: share sink %q is not an uuid", c.Ledger.ShareSink)
	}

	if !govalidator.IsURL(c.PriceOracle.EndPoint) {
		return fmt.Errorf("price_oracle: invalid end point %q", c.PriceOracle.EndPoint)
	}

	var tokens []string
	for _, m := range c.Markets {
		if !govalidator.IsUUID(m.Token) || !govalidator.IsUUID(m.ShareToken) {
			return fmt.Errorf("market %q: token and share token must be uuids", m.Token)
		}

		if govalidator.IsIn(m.Token, tokens...) {
			return fmt.Errorf("market %q: duplicated", m.Token)
		}
		tokens = append(tokens, m.Token)

		if !m.ReserveFactor.IsPositive() || m.ReserveFactor.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("market %q: reserve factor must be in (0, 1)", m.Token)
		}

		days := map[int64]bool{}
		for _, tier := range m.Tiers {
			if tier.LockDays <= 0 || days[tier.LockDays] {
				return fmt.Errorf("market %q: tier lock days must be positive and unique", m.Token)
			}
			days[tier.LockDays] = true

			if !tier.HighPriceBound.GreaterThan(tier.LowPriceBound) {
				return fmt.Errorf("market %q: tier of %d days has an empty price band", m.Token, tier.LockDays)
			}
		}
	}

	var pools []string
	for _, p := range c.Pools {
		if p.ID == "" || govalidator.IsIn(p.ID, pools...) {
			return fmt.Errorf("pool %q: empty or duplicated id", p.ID)
		}
		pools = append(pools, p.ID)

		if !govalidator.IsURL(p.EndPoint) {
			return fmt.Errorf("pool %q: invalid end point %q", p.ID, p.EndPoint)
		}
	}

	return nil
}

func defaultWorker(cfg *Config) {
	if cfg.Worker.Accrual == "" {
		cfg.Worker.Accrual = "@every 1m"
	}

	if cfg.Worker.Monitor == "" {
		cfg.Worker.Monitor = "@every 30s"
	}

	if cfg.Worker.Checkpoint == "" {
		cfg.Worker.Checkpoint = "@every 5m"
	}

	if cfg.Worker.Payee == "" {
		cfg.Worker.Payee = "@every 1s"
	}
}
