package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lendingpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	assets   map[string]*core.AssetInfo
	deposits []*core.FixedTermDeposit
}

func (l *fakeLedger) Assets(_ context.Context) []*core.AssetInfo {
	var out []*core.AssetInfo
	for _, a := range l.assets {
		out = append(out, a)
	}
	return out
}

func (l *fakeLedger) Asset(_ context.Context, token string) (*core.AssetInfo, error) {
	a, ok := l.assets[token]
	if !ok {
		return nil, core.ErrAssetNotFound
	}
	return a, nil
}

func (l *fakeLedger) ExchangeRateStored(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

func (l *fakeLedger) Utilization(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.RequireFromString("0.4"), nil
}

func (l *fakeLedger) BorrowRate(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, core.ErrAssetNotFound
}

func (l *fakeLedger) SupplyRate(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.RequireFromString("0.03"), nil
}

func (l *fakeLedger) Borrows(_ context.Context, pool string) []*core.BorrowRecord {
	return []*core.BorrowRecord{{Pool: pool, Token: "usdt", Principal: decimal.NewFromInt(40)}}
}

func (l *fakeLedger) BorrowBalance(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return decimal.RequireFromString("40.5"), nil
}

func (l *fakeLedger) RiskReport(_ context.Context, pool core.IPool) (*core.RiskReport, error) {
	return &core.RiskReport{Pool: pool.ID(), Safe: true}, nil
}

func (l *fakeLedger) Deposits(_ context.Context, _, _ string) []*core.FixedTermDeposit {
	return l.deposits
}

func (l *fakeLedger) CurrentAccruedInterest(_ context.Context, _, _, _ string) (decimal.Decimal, error) {
	return decimal.RequireFromString("1.5"), nil
}

type fakePool string

func (p fakePool) ID() string { return string(p) }

func (p fakePool) TokenReserve(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (p fakePool) IsInLiquidation(_ context.Context) (bool, error) { return false, nil }

type fakePools map[string]core.IPool

func (p fakePools) Find(id string) (core.IPool, bool) {
	pool, ok := p[id]
	return pool, ok
}

func get(t *testing.T, h http.Handler, url string) (int, map[string]json.RawMessage) {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	var body map[string]json.RawMessage
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandle(t *testing.T) {
	ledger := &fakeLedger{
		assets: map[string]*core.AssetInfo{
			"usdt": {Token: "usdt", Cash: decimal.NewFromInt(60)},
		},
		deposits: []*core.FixedTermDeposit{
			{Key: "k1", Owner: "bob", Token: "usdt"},
			{Key: "k2", Owner: "bob", Token: "usdt"},
		},
	}
	h := Handle(ledger, fakePools{"pool-1": fakePool("pool-1")})

	code, body := get(t, h, "/assets/usdt")
	assert.Equal(t, http.StatusOK, code)

	var asset struct {
		Token        string `json:"token"`
		Utilization  string `json:"utilization"`
		BorrowRate   string `json:"borrow_rate"`
		ExchangeRate string `json:"exchange_rate"`
	}
	require.Nil(t, json.Unmarshal(body["data"], &asset))
	assert.Equal(t, "usdt", asset.Token)
	assert.Equal(t, "0.4", asset.Utilization)
	assert.Equal(t, "0", asset.BorrowRate)
	assert.Equal(t, "1", asset.ExchangeRate)

	code, body = get(t, h, "/assets/btc")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, core.ErrAssetNotFound.String(), string(body["code"]))

	code, _ = get(t, h, "/pools/pool-1/risk")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get(t, h, "/pools/pool-2/risk")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = get(t, h, "/pools/pool-1/borrows")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body["data"]), `"owed":"40.5"`)

	code, body = get(t, h, "/deposits?token=usdt&owner=bob&limit=1")
	assert.Equal(t, http.StatusOK, code)
	var deposits []map[string]interface{}
	require.Nil(t, json.Unmarshal(body["data"], &deposits))
	assert.Len(t, deposits, 1)
	assert.Equal(t, "1.5", deposits[0]["accrued_interest"])

	code, _ = get(t, h, "/deposits?token=usdt")
	assert.Equal(t, http.StatusBadRequest, code)
}
