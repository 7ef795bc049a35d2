package pool

import (
	"context"
	"fmt"
	"net/http"

	"lendingpool/core"
	"lendingpool/pkg/resthttp"

	"github.com/shopspring/decimal"
)

// Config remote pool
type Config struct {
	ID       string `json:"id"`
	EndPoint string `json:"end_point"`
}

type reserve struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type status struct {
	Liquidating bool `json:"liquidating"`
}

type pool struct {
	cfg Config
}

// New market-making pool served over http
func New(cfg Config) core.IPool {
	return &pool{cfg: cfg}
}

func (p *pool) ID() string {
	return p.cfg.ID
}

func (p *pool) TokenReserve(ctx context.Context, token string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/api/reserves/%s", p.cfg.EndPoint, token)

	var r reserve
	if _, err := resthttp.Execute(resthttp.Request(ctx), http.MethodGet, url, nil, &r); err != nil {
		return decimal.Zero, err
	}

	return r.Amount, nil
}

func (p *pool) IsInLiquidation(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/api/status", p.cfg.EndPoint)

	var s status
	if _, err := resthttp.Execute(resthttp.Request(ctx), http.MethodGet, url, nil, &s); err != nil {
		return false, err
	}

	return s.Liquidating, nil
}

// Registry pools by id
type Registry map[string]core.IPool

// NewRegistry registry of remote pools
func NewRegistry(cfgs []Config) Registry {
	r := make(Registry, len(cfgs))
	for _, cfg := range cfgs {
		r[cfg.ID] = New(cfg)
	}

	return r
}

// Find pool by id
func (r Registry) Find(id string) (core.IPool, bool) {
	p, ok := r[id]
	return p, ok
}
