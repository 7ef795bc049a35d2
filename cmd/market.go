package cmd

import (
	"errors"

	"lendingpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var marketsCmd = &cobra.Command{
	Use:     "markets",
	Aliases: []string{"ms"},
	Short:   "print the checkpointed markets with their current rates",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		database := provideDatabase()
		defer database.Close()

		stores := provideStores(database)
		l, _ := provideLedger(ctx, stores, provideCustody())

		for _, token := range l.Tokens() {
			asset, err := l.Asset(ctx, token)
			if err != nil {
				log.WithError(err).Errorln("read asset", token)
				continue
			}

			utilization, _ := l.Utilization(ctx, token)
			borrowRate, _ := l.BorrowRate(ctx, token)
			supplyRate, _ := l.SupplyRate(ctx, token)
			exchangeRate, _ := l.ExchangeRateStored(ctx, token)

			checkpointed := "none"
			if stored, err := stores.Assets.Find(ctx, token); err == nil {
				checkpointed = stored.AccrualTime.String()
			} else if !errors.Is(err, core.ErrAssetNotFound) {
				log.WithError(err).Errorln("read stored asset", token)
			}

			cmd.Printf("%s enabled=%t cash=%s borrows=%s reserves=%s utilization=%s borrow_rate=%s supply_rate=%s exchange_rate=%s checkpointed_accrual=%s\n",
				token, asset.Enabled, asset.Cash, asset.TotalBorrows, asset.UnwithdrawnReserves(),
				utilization, borrowRate, supplyRate, exchangeRate, checkpointed)
		}

		for id, pool := range providePools() {
			report, err := l.RiskReport(ctx, pool)
			if err != nil {
				log.WithError(err).Errorln("risk report", id)
				continue
			}

			cmd.Printf("%s ratio=%s borrow_ratio=%s safe=%t liquidatable=%t bad_debt=%t\n",
				id, report.Ratio, report.BorrowRatio, report.Safe, report.Liquidatable, report.BadDebt)
		}
	},
}

func init() {
	rootCmd.AddCommand(marketsCmd)
}
