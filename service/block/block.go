package block

import (
	"context"
	"time"

	"lendingpool/core"
	"lendingpool/internal/compound"
)

// Config block clock config
type Config struct {
	// genesis unix time
	Genesis         int64
	SecondsPerBlock int64
}

type service struct {
	cfg Config
	now func() time.Time
}

// New new block service
func New(cfg Config) core.IBlockService {
	return &service{
		cfg: cfg,
		now: time.Now,
	}
}

func (s *service) Now(_ context.Context) time.Time {
	return s.now().UTC()
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return compound.BlockAt(s.Now(ctx), s.cfg.Genesis, s.cfg.SecondsPerBlock)
}
