package config

import (
	"testing"

	"lendingpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Ledger: Ledger{
			InitialMargin:     decimal.RequireFromString("0.2"),
			MaintenanceMargin: decimal.RequireFromString("0.1"),
		},
		Markets: []Market{
			{
				AssetConfig: core.AssetConfig{
					Token:         "4d8c508b-91c5-375b-92b0-ee702ed2dac5",
					ShareToken:    "c6d0c728-2624-429b-8e0d-d9d19b6592fa",
					ReserveFactor: decimal.RequireFromString("0.1"),
				},
			},
		},
		Pools:       []Pool{{ID: "pool-1", EndPoint: "https://pool.example.com"}},
		PriceOracle: PriceOracle{EndPoint: "https://oracle.example.com"},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	assert.Nil(t, cfg.Validate())

	cfg = validConfig()
	cfg.Ledger.InitialMargin = decimal.RequireFromString("0.05")
	assert.NotNil(t, cfg.Validate())

	cfg = validConfig()
	cfg.Markets = append(cfg.Markets, cfg.Markets[0])
	assert.NotNil(t, cfg.Validate())

	cfg = validConfig()
	cfg.Markets[0].ReserveFactor = decimal.NewFromInt(1)
	assert.NotNil(t, cfg.Validate())

	cfg = validConfig()
	cfg.Pools[0].EndPoint = ""
	assert.NotNil(t, cfg.Validate())

	tier := core.FixedTermTier{
		LowPriceBound:  decimal.RequireFromString("0.9"),
		HighPriceBound: decimal.RequireFromString("1.1"),
		LockDays:       30,
	}

	cfg = validConfig()
	cfg.Markets[0].Tiers = []core.FixedTermTier{tier}
	assert.Nil(t, cfg.Validate())

	cfg.Markets[0].Tiers = []core.FixedTermTier{tier, tier}
	assert.NotNil(t, cfg.Validate())

	tier.HighPriceBound = tier.LowPriceBound
	cfg.Markets[0].Tiers = []core.FixedTermTier{tier}
	assert.NotNil(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	var cfg Config
	defaultWorker(&cfg)
	assert.Equal(t, "@every 1m", cfg.Worker.Accrual)
	assert.Equal(t, "@every 1s", cfg.Worker.Payee)

	loc, err := cfg.TimeLocation()
	assert.Nil(t, err)
	assert.Equal(t, "UTC", loc.String())
}
