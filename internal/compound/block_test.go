package compound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockAt(t *testing.T) {
	genesis := int64(1600000000)

	height, err := BlockAt(time.Unix(genesis+95, 0), genesis, 10)
	assert.Nil(t, err)
	assert.Equal(t, int64(9), height)

	height, err = BlockAt(time.Unix(genesis, 0), genesis, 10)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), height)

	_, err = BlockAt(time.Unix(genesis-1, 0), genesis, 10)
	assert.NotNil(t, err)

	_, err = BlockAt(time.Unix(genesis, 0), genesis, 0)
	assert.NotNil(t, err)
}
