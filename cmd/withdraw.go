package cmd

import (
	"lendingpool/pkg/number"
	"lendingpool/worker/checkpoint"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var reservesCmd = &cobra.Command{
	Use:   "reserves",
	Short: "manage protocol reserves",
}

var withdrawReservesCmd = &cobra.Command{
	Use:     "withdraw",
	Aliases: []string{"ww"},
	Short:   "withdraw accumulated reserves to the opponent, the daemons must be stopped",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		opponent, _ := cmd.Flags().GetString("opponent")
		token, _ := cmd.Flags().GetString("asset")
		amountStr, _ := cmd.Flags().GetString("amount")

		amount := number.Decimal(amountStr)
		if !amount.IsPositive() || opponent == "" || token == "" {
			cmd.PrintErrln("invalid opponent, asset or amount")
			return
		}

		database := provideDatabase()
		defer database.Close()

		stores := provideStores(database)
		l, book := provideLedger(ctx, stores, provideCustody())

		if err := l.WithdrawReserves(ctx, opponent, token, amount); err != nil {
			log.WithError(err).Errorln("withdraw reserves")
			return
		}

		loc, _ := cfg.TimeLocation()
		if err := checkpoint.New(loc, cfg.Worker.Checkpoint, l, book, stores).Save(ctx); err != nil {
			log.WithError(err).Errorln("save checkpoint")
			return
		}

		cmd.Println("withdrawn", amount, token, "to", opponent)
	},
}

func init() {
	rootCmd.AddCommand(reservesCmd)
	reservesCmd.AddCommand(withdrawReservesCmd)

	withdrawReservesCmd.Flags().StringP("opponent", "o", "", "opponent id")
	withdrawReservesCmd.Flags().StringP("asset", "s", "", "asset id")
	withdrawReservesCmd.Flags().StringP("amount", "a", "", "asset amount")
}
