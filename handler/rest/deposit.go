package rest

import (
	"net/http"

	"lendingpool/handler/param"
	"lendingpool/handler/render"
	"lendingpool/handler/views"

	"github.com/twitchtv/twirp"
)

func depositsHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Token string `json:"token"`
			Owner string `json:"owner"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Token == "" || params.Owner == "" {
			render.Error(w, twirp.RequiredArgumentError("token & owner"))
			return
		}

		deposits := ledger.Deposits(ctx, params.Token, params.Owner)
		if limit := param.Int64(r, "limit", 0); limit > 0 && int64(len(deposits)) > limit {
			deposits = deposits[:limit]
		}

		depositViews := make([]*views.Deposit, 0, len(deposits))
		for _, d := range deposits {
			interest, err := ledger.CurrentAccruedInterest(ctx, d.Owner, d.Token, d.Key)
			if err != nil {
				render.Error(w, err)
				return
			}

			depositViews = append(depositViews, &views.Deposit{FixedTermDeposit: d, AccruedInterest: interest})
		}

		render.JSON(w, depositViews)
	}
}
