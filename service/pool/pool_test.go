package pool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/reserves/{asset}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "asset") != "usdt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write([]byte(`{"asset_id":"usdt","amount":"12.5"}`))
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"liquidating":true}`))
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	registry := NewRegistry([]Config{{ID: "pool-1", EndPoint: srv.URL}})
	p, ok := registry.Find("pool-1")
	require.True(t, ok)
	assert.Equal(t, "pool-1", p.ID())

	ctx := context.Background()
	amount, err := p.TokenReserve(ctx, "usdt")
	require.Nil(t, err)
	assert.Equal(t, "12.5", amount.String())

	_, err = p.TokenReserve(ctx, "btc")
	assert.NotNil(t, err)

	liquidating, err := p.IsInLiquidation(ctx)
	require.Nil(t, err)
	assert.True(t, liquidating)

	_, ok = registry.Find("pool-2")
	assert.False(t, ok)
}
