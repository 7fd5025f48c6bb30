package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_TaxAndFlatShipping(t *testing.T) {
	// 50.00の商品を2つ → 小計100.00はちょうど閾値なので送料あり
	got := ComputeTotals([]PricedLine{{UnitPrice: 5000, Quantity: 2}})

	assert.Equal(t, int64(10000), got.Subtotal)
	assert.Equal(t, int64(1000), got.Tax)
	assert.Equal(t, int64(1000), got.ShippingCost)
	assert.Equal(t, int64(12000), got.Total)
}

func TestComputeTotals_FreeShippingAboveThreshold(t *testing.T) {
	// 小計120.00 → 閾値を超えているので送料無料
	got := ComputeTotals([]PricedLine{{UnitPrice: 6000, Quantity: 2}})

	assert.Equal(t, int64(12000), got.Subtotal)
	assert.Equal(t, int64(1200), got.Tax)
	assert.Equal(t, int64(0), got.ShippingCost)
	assert.Equal(t, int64(13200), got.Total)
}

func TestComputeTotals_MultipleLines(t *testing.T) {
	got := ComputeTotals([]PricedLine{
		{UnitPrice: 1999, Quantity: 3},
		{UnitPrice: 500, Quantity: 1},
	})

	assert.Equal(t, int64(6497), got.Subtotal)
	// 6497 * 10 / 100 = 649（整数演算で切り捨て）
	assert.Equal(t, int64(649), got.Tax)
	assert.Equal(t, int64(1000), got.ShippingCost)
	assert.Equal(t, int64(8146), got.Total)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	got := ComputeTotals(nil)

	assert.Equal(t, int64(0), got.Subtotal)
	assert.Equal(t, int64(0), got.Tax)
	// 空でも式の上では送料がつく（実際は空カートは手前で弾かれる）
	assert.Equal(t, ShippingFee, got.ShippingCost)
}
