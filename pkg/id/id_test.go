package id

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUUIDFromString(t *testing.T) {
	a := UUIDFromString("fixed-term:alice:10:1700000000")
	b := UUIDFromString("fixed-term:alice:10:1700000000")
	c := UUIDFromString("fixed-term:alice:11:1700000000")

	assert.Equal(t, a, b, "deterministic")
	assert.NotEqual(t, a, c)

	u, err := uuid.FromString(a)
	assert.NoError(t, err)
	assert.EqualValues(t, 3, u.Version())
}
