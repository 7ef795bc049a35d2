package rest

import (
	"context"
	"net/http"

	"lendingpool/core"
	"lendingpool/handler/param"
	"lendingpool/handler/render"
	"lendingpool/handler/views"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

func allAssetsHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assets := ledger.Assets(ctx)
		assetViews := make([]*views.Asset, 0, len(assets))
		for _, asset := range assets {
			assetViews = append(assetViews, getAssetView(ctx, ledger, asset))
		}

		render.JSON(w, assetViews)
	}
}

func assetHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asset, err := ledger.Asset(ctx, param.Path(r, "token"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, getAssetView(ctx, ledger, asset))
	}
}

// getAssetView rates fall back to zero when a collaborator is down
func getAssetView(ctx context.Context, ledger Ledger, asset *core.AssetInfo) *views.Asset {
	log := logger.FromContext(ctx).WithField("token", asset.Token)

	view := views.Asset{AssetInfo: asset}
	fields := []struct {
		dst *decimal.Decimal
		fn  func(ctx context.Context, token string) (decimal.Decimal, error)
	}{
		{&view.ExchangeRate, ledger.ExchangeRateStored},
		{&view.Utilization, ledger.Utilization},
		{&view.BorrowRate, ledger.BorrowRate},
		{&view.SupplyRate, ledger.SupplyRate},
	}

	for _, f := range fields {
		v, err := f.fn(ctx, asset.Token)
		if err != nil {
			log.WithError(err).Infoln("asset view")
			v = decimal.Zero
		}

		*f.dst = v
	}

	return &view
}
