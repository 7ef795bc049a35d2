package cmd

import (
	"context"
	"errors"

	"lendingpool/core"
	"lendingpool/service/ledger"
	"lendingpool/service/shares"
	"lendingpool/service/wallet"
	"lendingpool/worker/checkpoint"

	"github.com/fox-one/pkg/logger"
)

// provideLedger builds the ledger over custody, restores the last checkpoint and registers the configured markets
func provideLedger(ctx context.Context, stores checkpoint.Stores, custody *wallet.Custody) (*ledger.Ledger, *shares.Book) {
	log := logger.FromContext(ctx)

	q := provideQuota()
	book := shares.New()
	l := ledger.New(
		ledger.Config{
			Risk:          cfg.RiskParameters(),
			MinimumShares: cfg.Ledger.MinimumShares,
			ShareSink:     cfg.Ledger.ShareSink,
		},
		providePriceOracle(),
		q,
		q,
		provideRateModel(),
		custody,
		book,
		provideBlockService(),
	)

	if err := checkpoint.Load(ctx, l, book, stores); err != nil {
		log.WithError(err).Panicln("load checkpoint")
	}

	for _, m := range cfg.Markets {
		if _, err := l.AddAsset(ctx, m.AssetConfig); err != nil && !errors.Is(err, core.ErrAssetExists) {
			log.WithError(err).Panicln("add asset", m.Token)
		}

		if err := l.SetAssetEnabled(ctx, m.Token, !m.Disabled); err != nil {
			log.WithError(err).Panicln("set asset status", m.Token)
		}
	}

	// tokens pushed but not dispatched before the restart are picked up by replay
	custody.Reset(l.Snapshot().Assets)

	return l, book
}
