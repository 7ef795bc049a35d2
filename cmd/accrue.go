package cmd

import (
	"lendingpool/worker/checkpoint"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "accrue every asset once and save a checkpoint, the daemons must be stopped",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		database := provideDatabase()
		defer database.Close()

		stores := provideStores(database)
		l, book := provideLedger(ctx, stores, provideCustody())

		if err := l.AccrueAll(ctx); err != nil {
			log.WithError(err).Errorln("accrue")
			return
		}

		loc, _ := cfg.TimeLocation()
		if err := checkpoint.New(loc, cfg.Worker.Checkpoint, l, book, stores).Save(ctx); err != nil {
			log.WithError(err).Errorln("save checkpoint")
			return
		}

		for _, asset := range l.Assets(ctx) {
			log.WithFields(structs.Map(asset)).Infoln("accrued")
		}
	},
}

func init() {
	rootCmd.AddCommand(accrueCmd)
}
