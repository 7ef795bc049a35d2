package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTickerServer(t *testing.T, prices map[string]string, ts int64) (*httptest.Server, *int32) {
	var hits int32

	r := chi.NewRouter()
	r.Get("/api/v2/tickers/{asset}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)

		asset := chi.URLParam(r, "asset")
		price, ok := prices[asset]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}

		_ = json.NewEncoder(w).Encode(Ticker{
			AssetID:   asset,
			Price:     decimal.RequireFromString(price),
			Timestamp: ts,
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestPrice(t *testing.T) {
	now := time.Unix(1640995200, 0)
	srv, hits := newTickerServer(t, map[string]string{"btc": "42000.5", "zero": "0"}, now.Unix())

	o := New(Config{EndPoint: srv.URL, CacheTTL: time.Minute, MaxAge: time.Minute}).(*priceOracle)
	o.now = func() time.Time { return now }

	ctx := context.Background()
	price, err := o.Price(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "42000.5", price.String())

	_, err = o.Price(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	feasible, err := o.IsPriceFeasible(ctx, "btc")
	require.Nil(t, err)
	assert.True(t, feasible)

	o.now = func() time.Time { return now.Add(2 * time.Minute) }
	feasible, err = o.IsPriceFeasible(ctx, "btc")
	require.Nil(t, err)
	assert.False(t, feasible)

	feasible, err = o.IsPriceFeasible(ctx, "zero")
	require.Nil(t, err)
	assert.False(t, feasible)

	_, err = o.Price(ctx, "eth")
	assert.NotNil(t, err)
}
