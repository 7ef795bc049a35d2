package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoLimit(t *testing.T) {
	limit := NewGoLimit(2)

	var running, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		limit.Add()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer limit.Done()

			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			atomic.AddInt32(&running, -1)
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}
