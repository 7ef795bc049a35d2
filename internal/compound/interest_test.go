package compound

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompoundMultiplier(t *testing.T) {
	r := d("0.000001")

	assert.True(t, CompoundMultiplier(r, 0).Equal(One))
	assert.True(t, CompoundMultiplier(r, -5).Equal(One))
	assert.True(t, CompoundMultiplier(r, 1).Equal(One.Add(r)))

	for _, seconds := range []int64{2, 3, 15, 86400, 31536000} {
		tt := decimal.NewFromInt(seconds)
		expect := One.Add(r.Mul(tt)).Add(r.Mul(r).Mul(tt).Mul(tt.Sub(One)).Div(decimal.NewFromInt(2)))
		got := CompoundMultiplier(r, seconds)
		assert.True(t, got.Equal(expect), "t=%d expect %s got %s", seconds, expect, got)
	}
}

func TestCompoundMultiplierTruncated(t *testing.T) {
	// no third-order term
	r := d("0.1")
	assert.True(t, CompoundMultiplier(r, 3).Equal(d("1.33")), CompoundMultiplier(r, 3).String())
}

func TestAccrueInterest(t *testing.T) {
	m := d("1.1")
	a := AccrueInterest(d("100"), d("2"), d("1"), d("0.2"), m)

	assert.True(t, a.TotalBorrows.Equal(d("110")))
	assert.True(t, a.Interest.Equal(d("10")))
	assert.True(t, a.TotalReserves.Equal(d("4")))
	assert.True(t, a.BorrowIndex.Equal(d("1.1")))
}

func TestAccrueInterestIdentity(t *testing.T) {
	a := AccrueInterest(d("100"), d("2"), d("1.05"), d("0.2"), One)

	assert.True(t, a.TotalBorrows.Equal(d("100")))
	assert.True(t, a.TotalReserves.Equal(d("2")))
	assert.True(t, a.BorrowIndex.Equal(d("1.05")))
	assert.True(t, a.Interest.IsZero())
}

func TestAccrueInterestIndexPrecision(t *testing.T) {
	m := d("1.0000000000000000123456789")
	a := AccrueInterest(d("100"), decimal.Zero, One, decimal.Zero, m)

	assert.Equal(t, "100.0000000000000012", a.TotalBorrows.String())
	assert.Equal(t, "1.000000000000000012345678", a.BorrowIndex.String())
}
