package compound

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBorrowBalance(t *testing.T) {
	t.Run("zero index", func(t *testing.T) {
		owed, clamped := BorrowBalance(d("40"), decimal.Zero, d("1.2"))
		assert.True(t, owed.Equal(d("40")))
		assert.False(t, clamped)
	})

	t.Run("index regression is clamped", func(t *testing.T) {
		owed, clamped := BorrowBalance(d("40"), d("1.3"), d("1.2"))
		assert.True(t, owed.Equal(d("40")))
		assert.True(t, clamped)
	})

	t.Run("scaled", func(t *testing.T) {
		owed, clamped := BorrowBalance(d("40"), d("1.2"), d("1.5"))
		assert.True(t, owed.Equal(d("50")), owed.String())
		assert.False(t, clamped)
	})

	t.Run("rounds up", func(t *testing.T) {
		owed, _ := BorrowBalance(d("1"), d("3"), d("4"))
		assert.True(t, owed.Equal(d("1.3333333333333334")), owed.String())
	})

	t.Run("no principal", func(t *testing.T) {
		owed, _ := BorrowBalance(decimal.Zero, d("1"), d("2"))
		assert.True(t, owed.IsZero())
	})
}
