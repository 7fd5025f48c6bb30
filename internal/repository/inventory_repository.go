package repository

import "context"

type InventoryRepository interface {
	// 在庫の現在値を設定（確定時はロック済みの読み値から0クランプで計算する）
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 販売数カウンタを加算
	IncreaseSalesCount(ctx context.Context, productID int64, qty int64) error
}
