package oracle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lendingpool/core"
	"lendingpool/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Config price oracle config
type Config struct {
	EndPoint string
	// how long a fetched ticker is reused
	CacheTTL time.Duration
	// tickers older than MaxAge are not feasible for deposits
	MaxAge time.Duration
}

// Ticker price of one token
type Ticker struct {
	AssetID   string          `json:"asset_id"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"ts"`
}

type priceOracle struct {
	cfg   Config
	cache gcache.Cache
	sf    *singleflight.Group
	now   func() time.Time
}

// New new http price oracle
func New(cfg Config) core.IPriceOracle {
	return &priceOracle{
		cfg:   cfg,
		cache: gcache.New(512).LRU().Build(),
		sf:    &singleflight.Group{},
		now:   time.Now,
	}
}

func (o *priceOracle) Price(ctx context.Context, token string) (decimal.Decimal, error) {
	ticker, err := o.ticker(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}

	if !ticker.Price.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	return ticker.Price, nil
}

func (o *priceOracle) IsPriceFeasible(ctx context.Context, token string) (bool, error) {
	ticker, err := o.ticker(ctx, token)
	if err != nil {
		return false, err
	}

	if !ticker.Price.IsPositive() {
		return false, nil
	}

	if o.cfg.MaxAge > 0 && o.now().Sub(time.Unix(ticker.Timestamp, 0)) > o.cfg.MaxAge {
		logger.FromContext(ctx).WithField("token", token).Infoln("stale price, ts", ticker.Timestamp)
		return false, nil
	}

	return true, nil
}

func (o *priceOracle) ticker(ctx context.Context, token string) (*Ticker, error) {
	key := o.tickerKey(token)
	if v, err := o.cache.Get(key); err == nil {
		if ticker, ok := v.(*Ticker); ok {
			return ticker, nil
		}
	}

	v, err, _ := o.sf.Do(key, func() (interface{}, error) {
		ticker, err := o.pullTicker(ctx, token)
		if err != nil {
			return nil, err
		}

		if o.cfg.CacheTTL > 0 {
			_ = o.cache.SetWithExpire(key, ticker, o.cfg.CacheTTL)
		}

		return ticker, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Ticker), nil
}

func (o *priceOracle) pullTicker(ctx context.Context, token string) (*Ticker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s", o.cfg.EndPoint, token)

	var ticker Ticker
	code, err := resthttp.Execute(resthttp.Request(ctx), http.MethodGet, url, nil, &ticker)
	if err != nil {
		return nil, fmt.Errorf("pull ticker of %s: %w", token, err)
	}

	if code != http.StatusOK {
		return nil, fmt.Errorf("pull ticker of %s: status %d", token, code)
	}

	return &ticker, nil
}

func (o *priceOracle) tickerKey(token string) string {
	return fmt.Sprintf("ticker:%s", token)
}
