package rest

import (
	"net/http"

	"lendingpool/handler/param"
	"lendingpool/handler/render"
	"lendingpool/handler/views"

	"github.com/twitchtv/twirp"
)

func borrowsHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		pool := param.Path(r, "pool")

		borrows := ledger.Borrows(ctx, pool)
		borrowViews := make([]*views.Borrow, 0, len(borrows))
		for _, b := range borrows {
			owed, err := ledger.BorrowBalance(ctx, pool, b.Token)
			if err != nil {
				render.Error(w, err)
				return
			}

			borrowViews = append(borrowViews, &views.Borrow{BorrowRecord: b, Owed: owed})
		}

		render.JSON(w, borrowViews)
	}
}

func riskHandler(ledger Ledger, pools Pools) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pool, ok := pools.Find(param.Path(r, "pool"))
		if !ok {
			render.Error(w, twirp.NotFoundError("pool not found"))
			return
		}

		report, err := ledger.RiskReport(ctx, pool)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, report)
	}
}
