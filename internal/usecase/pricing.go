package usecase

// 金額計算の固定ルール。全てminor unit（セント）。
const (
	// 税率10%
	TaxRatePercent int64 = 10
	// 送料は一律
	ShippingFee int64 = 1000
	// 小計がこれを超えたら（strictly greater）送料無料。ちょうどは有料。
	FreeShippingThreshold int64 = 10000
)

type PricedLine struct {
	UnitPrice int64
	Quantity  int64
}

type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	Tax          int64 `json:"tax"`
	ShippingCost int64 `json:"shipping_cost"`
	Total        int64 `json:"total"`
}

// ComputeTotalsはカート明細から金額内訳を導出する純関数。
func ComputeTotals(lines []PricedLine) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * l.Quantity
	}

	tax := subtotal * TaxRatePercent / 100

	var shipping int64
	if subtotal <= FreeShippingThreshold {
		shipping = ShippingFee
	}

	return Totals{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shipping,
		Total:        subtotal + tax + shipping,
	}
}
