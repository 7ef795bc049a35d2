package rest

import (
	"context"
	"errors"
	"net/http"

	"lendingpool/core"
	"lendingpool/handler/render"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// Ledger read-only views of the ledger
type Ledger interface {
	Assets(ctx context.Context) []*core.AssetInfo
	Asset(ctx context.Context, token string) (*core.AssetInfo, error)
	ExchangeRateStored(ctx context.Context, token string) (decimal.Decimal, error)
	Utilization(ctx context.Context, token string) (decimal.Decimal, error)
	BorrowRate(ctx context.Context, token string) (decimal.Decimal, error)
	SupplyRate(ctx context.Context, token string) (decimal.Decimal, error)
	Borrows(ctx context.Context, pool string) []*core.BorrowRecord
	BorrowBalance(ctx context.Context, pool, token string) (decimal.Decimal, error)
	RiskReport(ctx context.Context, pool core.IPool) (*core.RiskReport, error)
	Deposits(ctx context.Context, token, owner string) []*core.FixedTermDeposit
	CurrentAccruedInterest(ctx context.Context, owner, token, key string) (decimal.Decimal, error)
}

// Pools pool lookup
type Pools interface {
	Find(id string) (core.IPool, bool)
}

// Handle handle rest api request
func Handle(ledger Ledger, pools Pools) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/assets", allAssetsHandler(ledger))
	router.Get("/assets/{token}", assetHandler(ledger))
	router.Get("/pools/{pool}/borrows", borrowsHandler(ledger))
	router.Get("/pools/{pool}/risk", riskHandler(ledger, pools))
	router.Get("/deposits", depositsHandler(ledger))

	return router
}
