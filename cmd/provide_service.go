package cmd

import (
	"time"

	"lendingpool/core"
	"lendingpool/service/block"
	"lendingpool/service/oracle"
	"lendingpool/service/pool"
	"lendingpool/service/quota"
	"lendingpool/service/ratemodel"
	"lendingpool/service/wallet"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/shopspring/decimal"
)

func provideWallet() *wallet.Wallet {
	c, err := mixin.NewFromKeystore(&cfg.Mixin.Keystore)
	if err != nil {
		panic(err)
	}

	return &wallet.Wallet{
		Client: c,
		Pin:    cfg.Mixin.Pin,
	}
}

func provideCustody() *wallet.Custody {
	return wallet.New(provideWallet())
}

func provideBlockService() core.IBlockService {
	return block.New(block.Config{
		Genesis:         cfg.App.Genesis,
		SecondsPerBlock: cfg.App.SecondsPerBlock,
	})
}

func providePriceOracle() core.IPriceOracle {
	return oracle.New(oracle.Config{
		EndPoint: cfg.PriceOracle.EndPoint,
		CacheTTL: time.Duration(cfg.PriceOracle.CacheTTL) * time.Second,
		MaxAge:   time.Duration(cfg.PriceOracle.MaxAge) * time.Second,
	})
}

func provideQuota() *quota.Service {
	c := quota.Config{
		DepositLimits: map[string]decimal.Decimal{},
		BorrowLimits:  map[string]decimal.Decimal{},
	}

	for _, m := range cfg.Markets {
		c.DepositLimits[m.Token] = m.DepositLimit
		c.BorrowLimits[m.Token] = m.BorrowLimit
	}

	for _, p := range cfg.Pools {
		c.Pools = append(c.Pools, p.ID)
	}

	return quota.New(c)
}

func provideRateModel() core.IRateModel {
	curves := make(map[string]ratemodel.Curve, len(cfg.Markets))
	for _, m := range cfg.Markets {
		curves[m.Token] = m.Curve
	}

	return ratemodel.New(curves)
}

func providePools() pool.Registry {
	cfgs := make([]pool.Config, 0, len(cfg.Pools))
	for _, p := range cfg.Pools {
		cfgs = append(cfgs, pool.Config{ID: p.ID, EndPoint: p.EndPoint})
	}

	return pool.NewRegistry(cfgs)
}
